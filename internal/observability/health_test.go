package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthReadyHandler(t *testing.T) {
	t.Run("store reachable", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthReadyHandler(pingerFunc(func(context.Context) error { return nil }))(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("store unreachable", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthReadyHandler(pingerFunc(func(context.Context) error { return errors.New("down") }))(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "Store unreachable", rec.Body.String())
	})
}

func TestHealthLiveHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthLiveHandler(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
