package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
)

// counterValue soma o contador com os rótulos informados.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	total := 0.0
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	next:
		for _, m := range f.GetMetric() {
			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue next
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestHandleEventCountsByType(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	require.NoError(t, m.HandleEvent(context.Background(), domain.Event{Type: domain.EventCreated}))
	require.NoError(t, m.HandleEvent(context.Background(), domain.Event{Type: domain.EventCreated}))
	require.NoError(t, m.HandleEvent(context.Background(), domain.Event{Type: domain.EventCancelled}))

	assert.Equal(t, 2.0, counterValue(t, reg, "agenda_booking_events_total", map[string]string{"type": "booking.created"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "agenda_booking_events_total", map[string]string{"type": "booking.cancelled"}))
}

func TestObserveErrorOnlyCountsBusinessErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveError(httperr.ErrSlotConflict("time_conflict"))
	m.ObserveError(errors.New("db down"))

	assert.Equal(t, 1.0, counterValue(t, reg, "agenda_booking_rejections_total", map[string]string{
		"kind": "slot_conflict", "code": "time_conflict",
	}))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := New(reg)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/1", nil))
	require.Equal(t, http.StatusTeapot, w.Code)

	assert.Equal(t, 1.0, counterValue(t, reg, "agenda_http_requests_total", map[string]string{
		"route": "/ping/:id", "status": "418",
	}))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, strings.Contains(w.Body.String(), "agenda_http_requests_total"))
}
