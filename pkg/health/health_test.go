package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probe(t *testing.T, endpoint http.HandlerFunc, path string) (int, statusResponse) {
	t.Helper()

	rec := httptest.NewRecorder()
	endpoint(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var resp statusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestLiveEndpoint(t *testing.T) {
	h := New()

	code, resp := probe(t, h.LiveEndpoint, "/livez")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)

	h.AddLivenessCheck("always-fails", time.Second, func(context.Context) error {
		return errors.New("boom")
	})

	code, resp = probe(t, h.LiveEndpoint, "/livez")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "boom", resp.Checks["always-fails"])
}

func TestReadyEndpoint(t *testing.T) {
	h := New()

	code, resp := probe(t, h.ReadyEndpoint, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, resp.Checks, "_readiness")

	h.SetReady(true)
	code, resp = probe(t, h.ReadyEndpoint, "/readyz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)

	h.AddReadinessCheck("db", time.Second, func(context.Context) error {
		return errors.New("connection refused")
	})
	code, resp = probe(t, h.ReadyEndpoint, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "connection refused", resp.Checks["db"])

	// Shutdown drains traffic even when checks pass.
	h.SetReady(false)
	code, _ = probe(t, h.ReadyEndpoint, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestCheckTimeout(t *testing.T) {
	h := New()
	h.SetReady(true)
	h.AddReadinessCheck("slow", 10*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	code, resp := probe(t, h.ReadyEndpoint, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, resp.Checks["slow"], "deadline exceeded")
}
