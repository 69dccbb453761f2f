package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-board-api/internal/service"
)

func TestMetricsHandlerReady(t *testing.T) {
	ok := NewMetricsHandler(nil, func(context.Context) error { return nil })
	c, w := newJSONContext(t, http.MethodGet, "/ready", nil)
	ok.Ready(c)
	assert.Equal(t, http.StatusOK, w.Code)

	down := NewMetricsHandler(nil, func(context.Context) error { return errors.New("redis unreachable") })
	c, w = newJSONContext(t, http.MethodGet, "/ready", nil)
	down.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	envelope := decodeEnvelope(t, w)
	errBody, isObject := envelope["error"].(map[string]interface{})
	require.True(t, isObject)
	assert.Equal(t, "SERVICE_UNAVAILABLE", errBody["code"])
	assert.Len(t, c.Errors, 1)
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.SetAnnouncementCount(3)
	handler := NewMetricsHandler(metrics, nil)

	c, w := newJSONContext(t, http.MethodGet, "/metrics", nil)
	handler.Prometheus(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "announcements 3")

	c, w = newJSONContext(t, http.MethodGet, "/metrics", nil)
	NewMetricsHandler(nil, nil).Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.True(t, c.IsAborted())
	assert.Empty(t, w.Body.String())
}
