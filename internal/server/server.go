// Package server exposes the send-to-device pipeline and the install
// validator over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"sort"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ryan-gang/kindle-sendto/internal/logger"
	"github.com/ryan-gang/kindle-sendto/internal/sendto"
)

const (
	// room for multipart boundaries and headers on top of the file payload
	multipartOverhead = 1 << 20
	shutdownTimeout   = 30 * time.Second
	destinationField  = "email"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, req sendto.Request) (sendto.Receipt, error)
	Policy() sendto.Policy
}

type InstallValidator interface {
	Validate(ctx context.Context, installID string) bool
}

type Server struct {
	app        *fiber.App
	addr       string
	dispatcher Dispatcher
	validator  InstallValidator
	log        logger.LoggerInterface
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

func New(addr string, dispatcher Dispatcher, validator InstallValidator, log logger.LoggerInterface) *Server {
	if log == nil {
		log = logger.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "kindle-send",
		BodyLimit:    int(dispatcher.Policy().SizeLimit) + multipartOverhead,
		ErrorHandler: errorHandler,
	})

	s := &Server{
		app:        app,
		addr:       addr,
		dispatcher: dispatcher,
		validator:  validator,
		log:        log,
	}

	app.Use(recoverer.New())
	app.Use(requestLogging(log))
	app.Use(requestMetrics())

	app.Get("/health", s.health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	api.Post("/sendto", s.sendTo)
	api.Get("/validate", s.validate)

	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(s.addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.app.ShutdownWithContext(shutdownCtx)
}

func (s *Server) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// sendTo accepts a multipart form with the destination in "email" and the
// files in any file field.
func (s *Server) sendTo(c fiber.Ctx) error {
	log := requestLogger(c, s.log)

	form, err := c.MultipartForm()
	if err != nil {
		log.Warnf("Unreadable send to form: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error:  "request must be multipart/form-data",
			Reason: "InvalidForm",
		})
	}

	req := sendto.Request{
		Destination: firstValue(form.Value[destinationField]),
		Files:       filesFromForm(form),
	}

	receipt, err := s.dispatcher.Dispatch(c.Context(), req)
	if err != nil {
		return c.Status(statusFor(err)).JSON(errorResponse{
			Error:  err.Error(),
			Reason: sendto.Reason(err),
		})
	}

	c.Set("X-Send-Request-ID", receipt.RequestID)
	return c.JSON(true)
}

func (s *Server) validate(c fiber.Ctx) error {
	return c.JSON(s.validator.Validate(c.Context(), c.Query("installId")))
}

// errorHandler answers errors raised by fiber itself. An oversized body is
// reported like any other PayloadTooLarge rejection.
func errorHandler(c fiber.Ctx, err error) error {
	if errors.Is(err, fiber.ErrRequestEntityTooLarge) {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(errorResponse{
			Error:  sendto.ErrPayloadTooLarge.Error(),
			Reason: sendto.ReasonPayloadTooLarge,
		})
	}
	return fiber.DefaultErrorHandler(c, err)
}

func statusFor(err error) int {
	switch {
	case sendto.IsRejection(err):
		return fiber.StatusBadRequest
	case errors.Is(err, sendto.ErrDeliveryFailed):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// filesFromForm flattens the form's file fields in a deterministic order:
// fields sorted by name, files within a field in request order.
func filesFromForm(form *multipart.Form) []sendto.FileEntry {
	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var files []sendto.FileEntry
	for _, field := range fields {
		for _, fh := range form.File[field] {
			files = append(files, fileEntry(fh))
		}
	}
	return files
}

func fileEntry(fh *multipart.FileHeader) sendto.FileEntry {
	return sendto.FileEntry{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
