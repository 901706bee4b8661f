package app

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-web/internal/config"
	"github.com/vancomm/minesweeper-web/internal/middleware"
	"github.com/vancomm/minesweeper-web/internal/session"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	config   *config.Config
	logger   logrus.FieldLogger
	router   *http.ServeMux
	registry *session.Registry
	tokens   *session.Tokens
	cookies  *config.Cookies
	ws       *config.WebSocket
}

func New(cfg *config.Config, logger logrus.FieldLogger, rnd *rand.Rand) *App {
	secret := []byte(cfg.Session.Secret)
	if len(secret) == 0 {
		// only reachable outside production, see config.Validate
		secret = make([]byte, 32)
		_, _ = crand.Read(secret)
		logger.Warn("session.secret is not set, tokens will not survive a restart")
	}

	app := &App{
		config: cfg,
		logger: logger,
		router: http.NewServeMux(),
		registry: session.NewRegistry(
			rnd,
			session.WithIdleTimeout(cfg.Session.IdleTimeout.Duration),
			session.WithLogger(logger.WithField("component", "registry")),
		),
		tokens:  session.NewTokens(secret, cfg.Session.TokenLifetime.Duration),
		cookies: config.NewCookies(cfg.Cookies),
		ws:      config.NewWebSocket(cfg.Cors.AllowedOrigins),
	}

	app.loadRoutes()

	return app
}

// Handler is the router with every middleware applied.
func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Session(a.logger, a.cookies, a.tokens),
		middleware.Logging(a.logger),
		middleware.Cors(a.config.Cors.AllowedOrigins),
	)
}

// Start serves until ctx is done, then drains in-flight requests.
func (a *App) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    a.config.Addr,
		Handler: a.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.WithField("addr", a.config.Addr).Info("server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return a.registry.Run(ctx, a.config.Session.SweepInterval.Duration)
	})

	return g.Wait()
}
