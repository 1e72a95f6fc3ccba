// Package validation asks the stats service whether an install may use a
// gated feature.
//
// The check is opt-in: with validation disabled every install passes. Once
// enabled, anything short of a definite "true" from the service, including
// timeouts and transport errors, denies access.
package validation

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ryan-gang/kindle-sendto/internal/logger"
	"github.com/ryan-gang/kindle-sendto/internal/metrics"
)

const (
	DefaultBaseURL = "https://stats.kavitareader.com"
	DefaultTimeout = 30 * time.Second
	validatePath   = "/api/v2/stats/validate"
	userAgent      = "Kavita"

	// responses are a bare boolean; anything longer is not one
	maxBodyBytes = 64
)

type Config struct {
	Enabled bool
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// InsecureSkipVerify accepts any certificate from the stats service.
	// The production endpoint has needed it; leave it off elsewhere.
	InsecureSkipVerify bool
}

type Validator struct {
	cfg    Config
	client *http.Client
	log    logger.LoggerInterface
}

func New(cfg Config, log logger.LoggerInterface) *Validator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.NewNop()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in, see Config
	}

	return &Validator{
		cfg:    cfg,
		client: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		log:    log,
	}
}

// Validate reports whether installID may use the gated feature. It makes at
// most one request and never returns an error: failures count as "no".
func (v *Validator) Validate(ctx context.Context, installID string) bool {
	if !v.cfg.Enabled {
		metrics.ValidationTotal.WithLabelValues(metrics.ResultSkipped).Inc()
		return true
	}

	ok, err := v.check(ctx, installID)
	switch {
	case err != nil:
		v.log.Errorf("Exception occurred when validating install: %v", err)
		metrics.ValidationTotal.WithLabelValues(metrics.ResultFailed).Inc()
		return false
	case ok:
		metrics.ValidationTotal.WithLabelValues(metrics.ResultValidated).Inc()
	default:
		metrics.ValidationTotal.WithLabelValues(metrics.ResultRejected).Inc()
	}
	return ok
}

func (v *Validator) check(ctx context.Context, installID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, v.cfg.Timeout)
	defer cancel()

	endpoint := strings.TrimRight(v.cfg.BaseURL, "/") + validatePath + "?installId=" + url.QueryEscape(installID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("x-api-key", v.cfg.APIKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return false, fmt.Errorf("reading response: %w", err)
	}
	return parseVerdict(string(body))
}

// parseVerdict accepts a bare "true" or "false" in any case, surrounded by
// optional whitespace. Anything else is malformed.
func parseVerdict(body string) (bool, error) {
	s := strings.TrimSpace(body)
	switch {
	case strings.EqualFold(s, "true"):
		return true, nil
	case strings.EqualFold(s, "false"):
		return false, nil
	}
	return false, fmt.Errorf("malformed validation response %q", body)
}
