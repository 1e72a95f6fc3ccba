// Package sendto delivers uploaded e-books to a reading device by mail.
//
// A Dispatch call validates the request against the Policy, stages every
// non-empty file in a workspace private to the call, hands the attachments
// to a MailDispatcher once and removes the workspace before returning,
// whatever the outcome.
package sendto

import (
	"context"
	"fmt"
	"strings"

	"github.com/ryan-gang/kindle-sendto/internal/logger"
	"github.com/ryan-gang/kindle-sendto/internal/metrics"
)

type Dispatcher struct {
	policy Policy
	mailer MailDispatcher
	log    logger.LoggerInterface
}

func NewDispatcher(policy Policy, mailer MailDispatcher, log logger.LoggerInterface) *Dispatcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Dispatcher{policy: policy, mailer: mailer, log: log}
}

// Policy returns the policy the dispatcher enforces.
func (d *Dispatcher) Policy() Policy {
	return d.policy
}

// Validate checks a request against the policy without touching any file
// content. Checks run in a fixed order and stop at the first violation.
func (d *Dispatcher) Validate(req Request) error {
	if !d.policy.AllowSendTo {
		return ErrFeatureDisabled
	}
	if strings.TrimSpace(req.Destination) == "" {
		return ErrMissingDestination
	}
	if len(req.Files) == 0 {
		return ErrNoFiles
	}
	if req.TotalSize() > d.policy.SizeLimit {
		return ErrPayloadTooLarge
	}
	for _, f := range req.Files {
		if !d.policy.permits(f.ext()) {
			return ErrUnsupportedFileType
		}
	}
	return nil
}

// Dispatch validates, stages, mails and cleans up. The returned Receipt
// confirms the mail transport accepted the message; device delivery is
// asynchronous and not observable from here. Empty files are skipped; when
// every file is empty the request succeeds with zero attachments and the
// mailer is not called.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (receipt Receipt, err error) {
	defer func() { metrics.ObserveDispatch(Reason(err)) }()

	// Filenames are user input and stay out of the logs
	d.log.Infof("Received a send to request for %d files", len(req.Files))

	if err := d.Validate(req); err != nil {
		d.log.Warnf("Rejected send to request: %v", err)
		return Receipt{}, err
	}

	ws, err := newWorkspace(d.policy.TempPath)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %w", ErrStagingIO, err)
	}
	log := d.log.With("request_id", ws.id)
	defer func() {
		if rmErr := ws.remove(); rmErr != nil {
			log.Warnf("Failed to clean staging workspace: %v", rmErr)
		}
	}()

	attachments := make([]Attachment, 0, len(req.Files))
	var staged int64
	for _, f := range req.Files {
		if f.Size <= 0 {
			continue
		}
		a, err := ws.stage(ctx, f)
		if err != nil {
			log.Errorf("Staging failed after %d files: %v", len(attachments), err)
			return Receipt{}, fmt.Errorf("%w: %w", ErrStagingIO, err)
		}
		metrics.ObserveStaged(f.Size)
		attachments = append(attachments, a)
		staged += f.Size
	}

	if len(attachments) == 0 {
		log.Info("Every file in the request was empty, nothing to mail")
		return Receipt{RequestID: ws.id}, nil
	}

	log.Infof("Staged %d files (%d bytes), sending to device", len(attachments), staged)
	if err := d.mailer.SendToDevice(ctx, req.Destination, attachments); err != nil {
		log.Errorf("Send to device failed: %v", err)
		return Receipt{}, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	return Receipt{
		RequestID:   ws.id,
		Attachments: len(attachments),
		Bytes:       staged,
	}, nil
}
