package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"bdactivity/internal/amqp"
	"bdactivity/internal/cli"
	"bdactivity/internal/dashboard"
	apphttp "bdactivity/internal/http"
	"bdactivity/internal/loader"
	"bdactivity/internal/log"
	"bdactivity/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Stdout, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	cfg := cli.LoadAndValidateConfig(logger)

	src, err := cli.OpenSource(context.Background(), logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize activity source", log.FieldError, err.Error(), "source", cfg.DataSource)
		os.Exit(1)
	}

	ld := loader.New(src.Source, cfg.CacheMaxEntries, logger)
	svc := dashboard.NewService(ld, logger)

	srv := apphttp.NewServer(cfg.Addr(), svc, apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
		Logger:             logger,
	})
	srv.MaxHeaderBytes = 1 << 16

	var mq *amqp.Client
	if cfg.AMQPEnabled() {
		mq, err = amqp.NewClient(amqp.Config{
			URL:      cfg.AMQPURL,
			Exchange: cfg.AMQPExchange,
			Queue:    cfg.AMQPQueue,
			Logger:   logger,
		})
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without invalidation messages", log.FieldError, err.Error())
		}
	}

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
		if mq != nil {
			mq.Close()
		}
		if err := src.Close(); err != nil {
			logger.Error("Source cleanup error", log.FieldError, err.Error())
		}
	})

	w := worker.NewInvalidationWorker(svc, logger)
	if mq != nil {
		go func() {
			err := mq.ConsumeInvalidations(ctx, w.HandleInvalidateMessage)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Invalidation consumer stopped", log.FieldError, err.Error())
			}
		}()
	}

	// Warm the memo so the first request does not pay for the fetch.
	go func() {
		if err := w.WarmUp(ctx); err != nil {
			logger.Warn("Initial dataset load failed", log.FieldError, err.Error())
		}
	}()

	logger.Info("Starting bdactivity server",
		"addr", cfg.Addr(),
		"source", cfg.DataSource,
		"amqp_enabled", mq != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err.Error(), "addr", cfg.Addr())
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
