package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/z-marketing/zcoin/internal/api"
	"github.com/z-marketing/zcoin/internal/cache"
	"github.com/z-marketing/zcoin/internal/config"
	"github.com/z-marketing/zcoin/internal/logger"
	"github.com/z-marketing/zcoin/internal/market"
	"github.com/z-marketing/zcoin/internal/prices"
	"github.com/z-marketing/zcoin/internal/providers"
	"github.com/z-marketing/zcoin/internal/telemetry"
	"github.com/z-marketing/zcoin/internal/ws"
)

func main() {
	log := logger.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	if err := log.Configure(cfg.LogLevel, cfg.LogFormat, cfg.LogOutput, cfg.LogMaxAge); err != nil {
		log.WithError(err).Fatal("failed to configure logger")
	}

	provider := providers.NewFromConfig(cfg)
	if provider.Name() == "missing" {
		log.WithFields(logger.Fields{"provider": cfg.UpstreamProvider}).Warn("unknown upstream provider; every fetch will fail")
	}

	svc := prices.NewService(
		provider,
		cache.NewTTL[market.Quote](cfg.QuoteCacheTTL, cache.SystemClock),
		cache.NewTTL[[]market.Listing](cfg.ListingsCacheTTL, cache.SystemClock),
		prices.WithListingsLimit(cfg.ListingsLimit),
		prices.WithLogger(log),
	)

	hub := ws.NewHub()
	streamServer := ws.NewServer(hub, svc, cfg.WidgetPollInterval, log)
	apiServer := api.NewServer(svc, cfg.WidgetPublicOrigin, log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(telemetry.RequestMetricsMiddleware)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", telemetry.Handler())
	router.Get("/widget/{coinId}/stream", streamServer.Handler())
	apiServer.Mount(router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Widget streams are hijacked connections that Shutdown does not wait
	// for; deriving request contexts from ctx ends them on signal.
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	serverErrCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	log.WithFields(logger.Fields{
		"port":     cfg.Port,
		"provider": provider.Name(),
	}).Info("widget api server started")

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErrCh:
		log.WithError(err).Fatal("widget api server terminated unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info("widget api server stopped")
}
