package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/ahrav/go-medals/infrastructure/httpapi"
	"github.com/ahrav/go-medals/infrastructure/middleware"
	"github.com/ahrav/go-medals/infrastructure/store"
)

const shutdownTimeout = 10 * time.Second

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to the YAML config file")
	addr := fs.String("addr", "", "Listen address, overrides the config")
	verbose := fs.Bool("v", false, "Log every request")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewPrometheusMetrics(reg)

	dash, err := newDashboard(cfg, logger, middleware.NewOTelLoadObserver(metrics))
	if err != nil {
		return err
	}
	if _, err := dash.Load(ctx); err != nil {
		// The API answers 503 until a later POST /api/reload succeeds.
		logger.WithError(err).Warn("initial dataset load failed")
	}

	prefs, err := store.Open(ctx, cfg.Store.Path)
	if err != nil {
		return err
	}
	defer prefs.Close()

	srv, err := httpapi.NewServer(dash,
		httpapi.WithStore(prefs),
		httpapi.WithMetrics(metrics),
		httpapi.WithGatherer(reg),
		httpapi.WithLogger(logger),
		httpapi.WithRateLimit(cfg.Server.RateLimit.RequestsPerSecond, cfg.Server.RateLimit.Burst),
	)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Router(),
		ReadTimeout:       cfg.Server.ReadTimeout(),
		ReadHeaderTimeout: cfg.Server.ReadTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":    cfg.Server.Addr,
			"dataset": cfg.Dataset.Paths,
			"store":   cfg.Store.Path,
		}).Info("server started")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
