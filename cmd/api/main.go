package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seventattoolv/vision-intake/cmd/mainconfig"
	"github.com/seventattoolv/vision-intake/internal/api/router"
	appconfig "github.com/seventattoolv/vision-intake/internal/config"
	"github.com/seventattoolv/vision-intake/internal/crm"
	"github.com/seventattoolv/vision-intake/internal/http/handlers"
	"github.com/seventattoolv/vision-intake/internal/notify"
	"github.com/seventattoolv/vision-intake/internal/observability/metrics"
	"github.com/seventattoolv/vision-intake/pkg/logging"
)

func main() {
	// .env is optional and development-only.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting vision-intake API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Persistence is optional: no DATABASE_URL means intake reports "skipped".
	var repo crm.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo = crm.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, CRM persistence disabled")
	}

	sender := buildSender(ctx, cfg, logger)
	if sender == nil {
		logger.Warn("email provider not configured, intake will return configuration errors")
	}

	notifier := notify.NewIntakeNotifier(sender, notify.IntakeNotifierConfig{
		Receiver:         cfg.Receiver(),
		From:             cfg.Sender(),
		SendConfirmation: true,
	}, logger)

	reg := prometheus.NewRegistry()
	intakeMetrics := metrics.NewIntakeMetrics(reg)

	intakeHandler := handlers.NewVisionCallHandler(repo, notifier, intakeMetrics, handlers.VisionCallConfig{
		StoreTimeout: cfg.StoreTimeout,
		SendTimeout:  cfg.SendTimeout,
	}, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		IntakeHandler:      intakeHandler,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSOrigin:         cfg.CORSOrigin,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildSender picks the configured email provider. Returns a nil interface
// when no credential is present so the handler can fail fast with a
// configuration error instead of attempting a send.
func buildSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.Sender {
	switch cfg.EmailProvider {
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			return nil
		}
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.Sender(),
			FromName:  cfg.FromName,
		}, logger)
		if sender == nil {
			return nil
		}
		return sender
	default:
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.Sender(),
			FromName:  cfg.FromName,
		}, logger)
		if sender == nil {
			return nil
		}
		return sender
	}
}
