package bootstrap

import (
	"fmt"

	appconfig "github.com/wolfman30/doctor-booking-agent/internal/config"
	"github.com/wolfman30/doctor-booking-agent/internal/conversation"
	"github.com/wolfman30/doctor-booking-agent/internal/directory"
	"github.com/wolfman30/doctor-booking-agent/internal/notify"
	"github.com/wolfman30/doctor-booking-agent/internal/observability/metrics"
	"github.com/wolfman30/doctor-booking-agent/pkg/logging"
)

// BookingDeps are the collaborators the booking engine is assembled from.
type BookingDeps struct {
	LLM     conversation.LLMClient
	Store   conversation.SessionStore
	Email   notify.EmailSender
	Metrics *metrics.BookingMetrics
}

// BuildBookingEngine assembles the extractor, classifier and engine.
func BuildBookingEngine(cfg *appconfig.Config, deps BookingDeps, logger *logging.Logger) (*conversation.Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if deps.LLM == nil {
		return nil, fmt.Errorf("bootstrap: llm client is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	// Model stays empty so each provider in a fallback chain uses its own.
	settings := conversation.LLMSettings{Timeout: cfg.LLMTimeout}
	notifier := notify.Multi(
		notify.NewConfirmationNotifier(deps.Email, logger),
		notify.NewDeskNotifier(deps.Email, cfg.ClinicDeskEmail, logger),
	)
	opts := []conversation.EngineOption{conversation.WithNotifier(notifier)}
	if deps.Metrics != nil {
		opts = append(opts, conversation.WithMetrics(deps.Metrics))
	}

	return conversation.NewEngine(
		conversation.NewIntentExtractor(deps.LLM, settings, logger, deps.Metrics),
		conversation.NewSpecialtyClassifier(deps.LLM, settings, logger, deps.Metrics),
		directory.Default(),
		logger,
		opts...,
	), nil
}

// BuildBookingService wraps the engine for multi-conversation use.
func BuildBookingService(cfg *appconfig.Config, deps BookingDeps, logger *logging.Logger) (*conversation.Service, error) {
	engine, err := BuildBookingEngine(cfg, deps, logger)
	if err != nil {
		return nil, err
	}
	return conversation.NewService(engine, deps.Store, logger), nil
}
