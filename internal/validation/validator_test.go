package validation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestValidateDisabledSkipsNetwork(t *testing.T) {
	srv, hits := stubServer(t, http.StatusOK, "false")
	v := New(Config{Enabled: false, BaseURL: srv.URL}, nil)

	assert.True(t, v.Validate(context.Background(), "any-install"))
	assert.Zero(t, hits.Load())
}

func TestValidateResponses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   bool
	}{
		{"true", http.StatusOK, "true", true},
		{"true_mixed_case", http.StatusOK, "True", true},
		{"true_with_newline", http.StatusOK, "true\n", true},
		{"false", http.StatusOK, "false", false},
		{"garbage", http.StatusOK, "yes please", false},
		{"quoted", http.StatusOK, `"true"`, false},
		{"json_object", http.StatusOK, `{"valid":true}`, false},
		{"empty", http.StatusOK, "", false},
		{"server_error", http.StatusInternalServerError, "true", false},
		{"unauthorized", http.StatusUnauthorized, "true", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, hits := stubServer(t, tt.status, tt.body)
			v := New(Config{Enabled: true, BaseURL: srv.URL, APIKey: "key"}, nil)

			assert.Equal(t, tt.want, v.Validate(context.Background(), "install-1"))
			assert.Equal(t, int32(1), hits.Load(), "exactly one request, no retries")
		})
	}
}

func TestValidateSendsExpectedRequest(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		_, _ = w.Write([]byte("true"))
	}))
	defer srv.Close()

	v := New(Config{Enabled: true, BaseURL: srv.URL + "/", APIKey: "secret-key"}, nil)
	require.True(t, v.Validate(context.Background(), "abc 123&x=y"))

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/api/v2/stats/validate", got.URL.Path)
	assert.Equal(t, "abc 123&x=y", got.URL.Query().Get("installId"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "Kavita", got.Header.Get("User-Agent"))
	assert.Equal(t, "secret-key", got.Header.Get("x-api-key"))
}

func TestValidateTransportFailureFailsClosed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	v := New(Config{Enabled: true, BaseURL: url}, nil)
	assert.False(t, v.Validate(context.Background(), "install-1"))
}

func TestValidateTimeoutFailsClosed(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte("true"))
	}))
	defer srv.Close()
	defer close(release)

	v := New(Config{Enabled: true, BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil)

	start := time.Now()
	assert.False(t, v.Validate(context.Background(), "install-1"))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestValidateCancelledContextFailsClosed(t *testing.T) {
	srv, _ := stubServer(t, http.StatusOK, "true")
	v := New(Config{Enabled: true, BaseURL: srv.URL}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, v.Validate(ctx, "install-1"))
}

func TestValidateTLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("true"))
	}))
	defer srv.Close()

	strict := New(Config{Enabled: true, BaseURL: srv.URL}, nil)
	assert.False(t, strict.Validate(context.Background(), "install-1"), "self-signed cert must be refused by default")

	relaxed := New(Config{Enabled: true, BaseURL: srv.URL, InsecureSkipVerify: true}, nil)
	assert.True(t, relaxed.Validate(context.Background(), "install-1"))
}

func TestNewDefaults(t *testing.T) {
	v := New(Config{Enabled: true}, nil)
	assert.Equal(t, DefaultBaseURL, v.cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, v.client.Timeout)
}

func TestParseVerdict(t *testing.T) {
	ok, err := parseVerdict(" TRUE ")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = parseVerdict("false")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = parseVerdict("1")
	assert.Error(t, err)
}
