package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"giftguardian/internal/cli"
	apphttp "giftguardian/internal/http"
	applog "giftguardian/internal/log"
	"giftguardian/internal/metrics"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)

	store := cli.InitStore(logger, cfg.DBPath())
	defer store.Close()
	images := cli.InitImageStore(logger, cfg.ImagesDir())

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		IngressHeader:      cfg.IngressHeader,
		MaxUploadBytes:     cfg.MaxUploadBytes(),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		CurrencySymbol:     cfg.CurrencySymbol,
		Logger:             logger,
		Metrics:            metrics.New(),
		Now:                time.Now,
	}, store, images)
	if err != nil {
		logger.Error("Failed to build HTTP server", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting giftguardian server",
			"port", cfg.Port,
			"data_dir", cfg.DataDir,
			"ingress_header", cfg.IngressHeader)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		store.Close()
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
