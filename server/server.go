package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Chriskfigures777/Niceone/internal/profile"
	"github.com/Chriskfigures777/Niceone/plugin/ai/timeout"
	"github.com/Chriskfigures777/Niceone/server/middleware"
	apiv1 "github.com/Chriskfigures777/Niceone/server/router/api/v1"
	"github.com/Chriskfigures777/Niceone/store"
)

const (
	// limiterPruneInterval is how often idle rate limit buckets are dropped.
	limiterPruneInterval = 10 * time.Minute
	tokenTTL             = 24 * time.Hour
)

type Server struct {
	Profile    *profile.Profile
	Store      *store.Store
	Components *Components

	limiter    *middleware.RateLimiter
	echoServer *echo.Echo
}

// NewServer builds the HTTP server around components.
func NewServer(profile *profile.Profile, st *store.Store, components *Components) (*Server, error) {
	auth, err := middleware.NewTokenAuthenticator(profile.JWTSecret, tokenTTL)
	if err != nil {
		return nil, errors.Wrap(err, "NICEONE_JWT_SECRET must be set to serve the API")
	}

	s := &Server{
		Profile:    profile,
		Store:      st,
		Components: components,
		limiter:    middleware.NewRateLimiter(profile.RateLimitRPS, profile.RateLimitBurst),
	}

	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true

	apiV1Service := &apiv1.APIV1Service{
		Profile:  profile,
		Store:    st,
		Booking:  components.Booking,
		Sessions: components.Sessions,
		Memory:   components.Memory,
		Tools:    components.Tools,
		Executor: components.Executor,
		Metrics:  components.Metrics,
		Auth:     auth,
		Limiter:  s.limiter,
	}
	apiV1Service.Register(echoServer)
	s.echoServer = echoServer
	return s, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", address)
	}
	slog.Info("server listening", "addr", listener.Addr().String(), "version", s.Profile.Version, "mode", s.Profile.Mode)

	s.Components.Sessions.Start(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.echoServer.Listener = listener
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "failed to start server")
		}
		return nil
	})
	g.Go(func() error {
		s.pruneLimiter(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout.ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) pruneLimiter(ctx context.Context) {
	ticker := time.NewTicker(limiterPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.limiter.Prune(); n > 0 {
				slog.Debug("pruned idle rate limiters", "count", n)
			}
		}
	}
}

// Shutdown stops the HTTP server and the session sweeper. Live sessions are
// ended so their transcripts reach long-term memory.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("server shutting down")

	err := s.echoServer.Shutdown(ctx)
	if err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	s.Components.Sessions.Stop()
	if n := s.Components.Sessions.EndAll(ctx); n > 0 {
		slog.Info("ended live sessions", "count", n)
	}

	slog.Info("server stopped properly")
	return err
}
