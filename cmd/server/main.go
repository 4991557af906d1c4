// Command server runs the AntiHub identity backend: the HTTP half of
// the GitHub OAuth login flow, backed by Redis for one-time state
// records and PostgreSQL for persisted tokens.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/antihub/antihub/internal/handler"
	"github.com/antihub/antihub/pkg/db"
	"github.com/antihub/antihub/pkg/logger"
	"github.com/antihub/antihub/pkg/oauth"
	"github.com/antihub/antihub/pkg/redis"
	"github.com/antihub/antihub/pkg/statecache"
	"github.com/antihub/antihub/pkg/tokenstore"
)

type config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Logger logger.Config
	Redis  redis.Config
	DB     db.Config
	OAuth  oauth.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := env.ParseAs[config]()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logger).With("app", "antihub")

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, log *slog.Logger) error {
	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() { _ = redis.Shutdown(rdb)(ctx) }()

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer func() { _ = db.Shutdown(pool)(ctx) }()

	if err := db.Migrate(ctx, pool, tokenstore.Migrations, cfg.DB.MigrationsTable, log); err != nil {
		return err
	}

	states := statecache.NewRedis[map[string]any](rdb, nil,
		statecache.WithPrefix("antihub"),
		statecache.WithRedisDefaultTTL(oauth.DefaultStateTTL),
	)

	svc, err := oauth.New(cfg.OAuth, states)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	handler.NewOAuth(svc, tokenstore.New(pool), log).Mount(r)
	r.Get("/healthz", healthz(log, redis.Healthcheck(rdb), db.Healthcheck(pool)))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func healthz(log *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.Error("healthcheck failed", "error", err)
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}
