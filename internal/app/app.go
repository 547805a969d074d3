package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-arcade/internal/arcade"
	"github.com/vancomm/minesweeper-arcade/internal/config"
	"github.com/vancomm/minesweeper-arcade/internal/credits"
	"github.com/vancomm/minesweeper-arcade/internal/middleware"
	"github.com/vancomm/minesweeper-arcade/internal/mines"
	"github.com/vancomm/minesweeper-arcade/internal/repository"
)

type App struct {
	log     *logrus.Logger
	cfg     *config.Config
	router  *http.ServeMux
	arcade  *arcade.Arcade
	cookies *config.Cookies
	ws      *config.WebSocket
}

func New(log *logrus.Logger, cfg *config.Config, store repository.Store) (*App, error) {
	preset, ok := mines.LookupPreset(cfg.Game.Preset)
	if !ok {
		return nil, fmt.Errorf("%w: %q", arcade.ErrUnknownPreset, cfg.Game.Preset)
	}

	jwt, err := config.NewJWT(cfg.JWT)
	if err != nil {
		return nil, err
	}

	app := &App{
		log:     log,
		cfg:     cfg,
		router:  http.NewServeMux(),
		cookies: config.NewCookies(cfg.Cookies, jwt),
		ws:      config.NewWebSocket(cfg.AllowedOrigins),
		arcade: arcade.New(log.WithField("component", "arcade"), store, arcade.Options{
			Duration:      cfg.Game.Duration,
			DefaultPreset: preset,
			Retention:     cfg.Game.Retention,
			Policy: credits.Policy{
				Allowance: cfg.Credits.Allowance,
				Cap:       cfg.Credits.Cap,
				Window:    cfg.Credits.Window,
			},
			Rand: createRand(),
		}),
	}

	app.loadRoutes()

	return app, nil
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Logging(a.log.WithField("component", "http")),
		middleware.Auth(a.log, a.cookies),
		middleware.Cors(a.cfg.AllowedOrigins),
	)
}

// Run serves HTTP and sweeps finished rounds until ctx is done, then shuts
// the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.WithField("addr", a.cfg.Addr).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return a.arcade.Run(ctx)
	})

	return g.Wait()
}

// Close stops live rounds. Run does this on its own when it returns.
func (a *App) Close() {
	a.arcade.Close()
}
