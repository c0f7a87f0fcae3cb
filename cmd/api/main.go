package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/doctor-booking-agent/cmd/mainconfig"
	"github.com/wolfman30/doctor-booking-agent/internal/api/router"
	"github.com/wolfman30/doctor-booking-agent/internal/app/bootstrap"
	appconfig "github.com/wolfman30/doctor-booking-agent/internal/config"
	"github.com/wolfman30/doctor-booking-agent/internal/conversation"
	"github.com/wolfman30/doctor-booking-agent/internal/observability/metrics"
	"github.com/wolfman30/doctor-booking-agent/internal/webchat"
	"github.com/wolfman30/doctor-booking-agent/pkg/logging"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting doctor booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"llm_provider", cfg.LLMProvider,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	llm, closeLLM, err := bootstrap.BuildLLMClient(ctx, cfg, awsCfg, logger)
	if err != nil {
		logger.Error("failed to configure LLM client", "error", err)
		os.Exit(1)
	}
	defer closeLLM()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}

	metricsHandler, bookingMetrics := setupMetrics()
	svc, err := bootstrap.BuildBookingService(cfg, bootstrap.BookingDeps{
		LLM:     llm,
		Store:   bootstrap.BuildSessionStore(redisClient, cfg, logger),
		Email:   bootstrap.BuildEmailSender(cfg, awsCfg, logger),
		Metrics: bookingMetrics,
	}, logger)
	if err != nil {
		logger.Error("failed to build booking service", "error", err)
		os.Exit(1)
	}

	r := router.New(&router.Config{
		Logger:              logger,
		ConversationHandler: conversation.NewHandler(svc, logger),
		WebChat:             webchat.NewHandler(svc, logger),
		MetricsHandler:      metricsHandler,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitRPS:        cfg.RateLimitRPS,
		RateLimitBurst:      cfg.RateLimitBurst,
		StaffAuthSecret:     cfg.StaffJWTSecret,
		Ready:               redisReady(redisClient),
	})

	// WriteTimeout stays generous: a turn can wait on two LLM calls.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics registers booking metrics on a dedicated registry alongside the
// standard process and Go runtime collectors.
func setupMetrics() (http.Handler, *metrics.BookingMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewBookingMetrics(reg)
}

func redisReady(client *redis.Client) func(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
