// Command chat runs the booking assistant as an interactive terminal session.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/wolfman30/doctor-booking-agent/cmd/mainconfig"
	"github.com/wolfman30/doctor-booking-agent/internal/app/bootstrap"
	appconfig "github.com/wolfman30/doctor-booking-agent/internal/config"
	"github.com/wolfman30/doctor-booking-agent/internal/conversation"
	"github.com/wolfman30/doctor-booking-agent/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	// Logs go to stderr so they never interleave with the conversation.
	logger := logging.NewWithWriter(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) error {
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("load AWS config: %w", err)
	}
	llm, closeLLM, err := bootstrap.BuildLLMClient(ctx, cfg, awsCfg, logger)
	if err != nil {
		return err
	}
	defer closeLLM()

	engine, err := bootstrap.BuildBookingEngine(cfg, bootstrap.BookingDeps{
		LLM:   llm,
		Email: bootstrap.BuildEmailSender(cfg, awsCfg, logger),
	}, logger)
	if err != nil {
		return err
	}

	agent := conversation.NewAgent(engine, uuid.NewString())
	return agent.Run(ctx, os.Stdin, os.Stdout)
}
