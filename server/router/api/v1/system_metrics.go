package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Chriskfigures777/Niceone/internal/observability"
)

// MetricsResponse is the tool call summary since start.
type MetricsResponse struct {
	*observability.MetricsSnapshot
	SuccessRate    float64 `json:"success_rate"`
	ActiveSessions int     `json:"active_sessions"`
}

// GetMetrics returns tool call counters and latencies.
// GET /api/v1/metrics
func (s *APIV1Service) GetMetrics(c echo.Context) error {
	snap := s.Metrics.Snapshot()
	return c.JSON(http.StatusOK, MetricsResponse{
		MetricsSnapshot: snap,
		SuccessRate:     snap.SuccessRate(),
		ActiveSessions:  s.Sessions.Len(),
	})
}
