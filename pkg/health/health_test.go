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

type statusBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func passing() CheckFunc { return func(context.Context) error { return nil } }

func failing(msg string) CheckFunc {
	return func(context.Context) error { return errors.New(msg) }
}

func serve(t *testing.T, h http.HandlerFunc) (int, statusBody) {
	t.Helper()
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body statusBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return w.Code, body
}

func TestLiveEndpoint_Passing(t *testing.T) {
	h := New()
	h.AddLivenessCheck("goroutines", time.Second, passing())

	code, body := serve(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
	assert.Empty(t, body.Checks)
}

func TestLiveEndpoint_ThresholdReached(t *testing.T) {
	h := New()
	h.AddLivenessCheck("backend", time.Second, failing("connection refused"))
	p := h.liveness[0]

	for range FailureThreshold - 1 {
		p.run(context.Background())
	}
	code, _ := serve(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusOK, code, "below threshold stays healthy")

	p.run(context.Background())
	code, body := serve(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "connection refused", body.Checks["backend"])
}

func TestProbe_RecoversAfterSuccess(t *testing.T) {
	fail := true
	h := New()
	h.AddReadinessCheck("backend", time.Second, func(context.Context) error {
		if fail {
			return errors.New("down")
		}
		return nil
	})
	h.SetReady(true)
	p := h.readiness[0]

	for range FailureThreshold {
		p.run(context.Background())
	}
	assert.False(t, h.isReady())

	fail = false
	p.run(context.Background())
	assert.True(t, h.isReady())
}

func TestReadyEndpoint_NotMarkedReady(t *testing.T) {
	h := New()
	h.AddReadinessCheck("backend", time.Second, passing())

	code, body := serve(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "service is not ready", body.Checks["_readiness"])

	h.SetReady(true)
	code, body = serve(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
}

func TestStartStop(t *testing.T) {
	calls := make(chan struct{}, 10)
	h := New()
	h.AddReadinessCheck("tick", time.Second, func(context.Context) error {
		calls <- struct{}{}
		return nil
	})

	h.Start(context.Background(), time.Hour)
	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("check did not run on start")
	}
	h.Stop()
	h.Stop()
}

func TestGoroutineCountCheck(t *testing.T) {
	require.NoError(t, GoroutineCountCheck(100000)(context.Background()))
	require.Error(t, GoroutineCountCheck(0)(context.Background()))
}
