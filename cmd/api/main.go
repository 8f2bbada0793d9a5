package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/cache"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/events"
	"github.com/BruksfildServices01/barber-booking/internal/lib/sl"
	"github.com/BruksfildServices01/barber-booking/internal/media"
	"github.com/BruksfildServices01/barber-booking/internal/oauth"
	"github.com/BruksfildServices01/barber-booking/internal/routes"
)

func main() {
	cfg := config.Load()
	log := setupLogger(cfg)

	if err := run(cfg, log); err != nil {
		log.Error("barber-booking stopped", sl.Err(err))
		os.Exit(1)
	}
}

// run owns every resource so that deferred closes execute before main exits.
func run(cfg *config.Config, log *slog.Logger) error {
	log.Info("starting barber-booking", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := dbpkg.SeedAdmin(db, cfg.Admin, log); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	// ======================================================
	// OPTIONAL BACKENDS
	// ======================================================
	var (
		appCache cache.Cache  = cache.Noop{}
		revoker  auth.Revoker = cache.NewMemoryRevoker()
	)
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rc.Close()
		appCache, revoker = rc, rc
	} else {
		log.Warn("REDIS_ADDR not set; services cache disabled, token revocation is per-process")
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.AMQP.URL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQP)
		if err != nil {
			return fmt.Errorf("connect amqp: %w", err)
		}
		defer p.Close()
		publisher = p
	}

	var storage media.Storage
	if cfg.S3.Bucket != "" {
		storage = media.NewS3Storage(cfg.S3)
	} else {
		log.Warn("S3_BUCKET not set; avatars are kept in memory")
		storage = media.NewMemoryStorage("/avatars")
	}

	var google oauth.Provider
	if cfg.GoogleEnabled() {
		google = oauth.NewGoogle(cfg.Google)
	}

	dispatcher := audit.NewDispatcher(audit.New(db), publisher, log)
	defer dispatcher.Close()

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:      db,
		Config:  cfg,
		Log:     log,
		Cache:   appCache,
		Revoker: revoker,
		Audit:   dispatcher,
		Storage: storage,
		Google:  google,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info("server running", slog.String("addr", cfg.Addr()))

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("serve: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown timed out", sl.Err(err))
	}
	log.Info("server stopped")
	return serveErr
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Env == config.EnvLocal {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
