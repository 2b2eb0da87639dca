package v1

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	apperrors "github.com/Chriskfigures777/Niceone/internal/errors"
	"github.com/Chriskfigures777/Niceone/internal/observability"
	"github.com/Chriskfigures777/Niceone/internal/profile"
	"github.com/Chriskfigures777/Niceone/plugin/ai/agent/tools"
	"github.com/Chriskfigures777/Niceone/plugin/ai/memory"
	"github.com/Chriskfigures777/Niceone/plugin/ai/session"
	authmw "github.com/Chriskfigures777/Niceone/server/middleware"
	"github.com/Chriskfigures777/Niceone/server/service/booking"
	"github.com/Chriskfigures777/Niceone/store"
)

// AuditStore reads the booking audit trail.
type AuditStore interface {
	ListBookingEvents(ctx context.Context, find *store.FindBookingEvent) ([]*store.BookingEvent, error)
}

// APIV1Service serves the agent's tool and session API.
type APIV1Service struct {
	Profile  *profile.Profile
	Store    AuditStore
	Booking  booking.Service
	Sessions *session.Manager
	// Memory may be nil when long-term memory is off.
	Memory   *memory.Manager
	Tools    *tools.Registry
	Executor *tools.Executor
	Metrics  *observability.Metrics
	Auth     *authmw.TokenAuthenticator
	Limiter  *authmw.RateLimiter
}

// Register mounts every route on echoServer.
func (s *APIV1Service) Register(echoServer *echo.Echo) {
	echoServer.HTTPErrorHandler = HTTPErrorHandler
	echoServer.Use(middleware.RequestID(), middleware.Recover())

	echoServer.GET("/healthz", s.Healthz)

	api := echoServer.Group("/api/v1")
	api.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc: func(_ string) (bool, error) {
			return true, nil
		},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"*"},
	}))
	// Session creation is the only public route; it hands out the token.
	api.POST("/sessions", s.CreateSession, s.Limiter.Middleware(nil))

	authed := api.Group("", s.Auth.Middleware(), s.Limiter.Middleware(authmw.SessionKey))
	authed.GET("/tools", s.ListTools)
	authed.POST("/tools/:name", s.RunTool)
	authed.POST("/sessions/:id/messages", s.AppendMessage)
	authed.DELETE("/sessions/:id", s.EndSession)
	authed.GET("/sessions/:id/memories", s.SearchMemories)
	authed.GET("/bookings.ics", s.ExportBookings)
	authed.GET("/audit", s.ListAuditEvents)
	authed.GET("/metrics", s.GetMetrics)
}

type errorResponse struct {
	Code    apperrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
}

// HTTPErrorHandler answers every failed request with {code, message}.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	resp := errorResponse{Code: apperrors.ErrCodeInternal, Message: "internal error"}
	status := http.StatusInternalServerError

	var he *echo.HTTPError
	switch {
	case apperrors.GetCodeFromError(err, "") != "":
		resp.Code = apperrors.GetCodeFromError(err, apperrors.ErrCodeInternal)
		resp.Message = appMessage(err)
		status = apperrors.HTTPStatus(resp.Code)
	case asHTTPError(err, &he):
		status = he.Code
		resp.Code = codeForStatus(he.Code)
		if msg, ok := he.Message.(string); ok {
			resp.Message = msg
		} else {
			resp.Message = http.StatusText(he.Code)
		}
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, resp)
	}
	if err != nil {
		slog.Warn("failed to write error response", "error", err)
	}
}

func (s *APIV1Service) Healthz(c echo.Context) error {
	version := ""
	if s.Profile != nil {
		version = s.Profile.Version
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": version})
}

// liveSession returns the session named by the request token.
func (s *APIV1Service) liveSession(c echo.Context) (*session.Session, error) {
	claims := authmw.ClaimsFrom(c)
	if claims == nil {
		return nil, apperrors.Unauthorized("missing session token")
	}
	sess, err := s.Sessions.Get(claims.SessionID)
	if err != nil {
		return nil, apperrors.SessionNotFound(claims.SessionID)
	}
	return sess, nil
}

// ownSession checks that the :id path parameter matches the token's session.
func ownSession(c echo.Context) (string, error) {
	id := c.Param("id")
	claims := authmw.ClaimsFrom(c)
	if claims == nil || claims.SessionID != id {
		return "", apperrors.Unauthorized("token does not belong to this session")
	}
	return id, nil
}

// requestContext starts request-scoped logging for a session.
func requestContext(c echo.Context, sessionID, tool string) (*observability.RequestContext, context.Context) {
	reqCtx := observability.NewRequestContextWithID(nil, c.Response().Header().Get(echo.HeaderXRequestID), sessionID, tool)
	return reqCtx, observability.WithRequestContext(c.Request().Context(), reqCtx)
}
