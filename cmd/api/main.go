package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Overland-East-Bay/transit-records/internal/adapters/backends"
	"github.com/Overland-East-Bay/transit-records/internal/adapters/httpapi"
	"github.com/Overland-East-Bay/transit-records/internal/adapters/seed"
	"github.com/Overland-East-Bay/transit-records/internal/app/records"
	platformclock "github.com/Overland-East-Bay/transit-records/internal/platform/clock"
	"github.com/Overland-East-Bay/transit-records/internal/platform/config"
	"github.com/Overland-East-Bay/transit-records/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("invalid logging config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	primary, closePrimary, err := backends.OpenPrimary(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("open primary store")
	}
	defer closePrimary()

	secondary, closeSecondary, err := backends.OpenSecondary(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("open secondary store")
	}
	defer closeSecondary()

	svc := records.NewService(primary, secondary, logger)
	svc.BackgroundTimeout = cfg.BackgroundTimeout

	if cfg.SeedOnStart {
		gen, err := seed.Open(platformclock.NewSystemClock(), cfg.SeedFile)
		if err != nil {
			logger.WithError(err).Fatal("load seed fixture")
		}
		if _, err := svc.Bootstrap(ctx, gen); err != nil {
			logger.WithError(err).Fatal("bootstrap records")
		}
	}

	api := httpapi.NewServer(svc, logger)
	opts := httpapi.RouterOptions{Logger: logger}
	if cfg.AdminToken != "" {
		opts.AdminMiddleware = httpapi.NewAdminTokenMiddleware(cfg.AdminToken)
	} else {
		logger.Warn("ADMIN_TOKEN not set; /admin routes are unauthenticated")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouterWithOptions(api, opts),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.WithFields(log.Fields{
			"addr":      cfg.HTTPAddr,
			"primary":   cfg.PrimaryBackend,
			"secondary": cfg.SecondaryBackend,
		}).Info("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("listen")
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	// Let in-flight background writes settle before the stores close.
	done := make(chan struct{})
	go func() {
		svc.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("background tasks still running at shutdown")
	}
}
