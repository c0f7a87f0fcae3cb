package conversation

import (
	"context"
	"errors"
	"time"

	"github.com/wolfman30/doctor-booking-agent/internal/booking"
	"github.com/wolfman30/doctor-booking-agent/internal/observability/metrics"
	"github.com/wolfman30/doctor-booking-agent/pkg/logging"
)

const (
	opExtractIntent     = "extract_intent"
	opClassifySpecialty = "classify_specialty"

	intentMaxTokens    int32 = 512
	specialtyMaxTokens int32 = 32
)

var errNoJSON = errors.New("could not parse intent")

// LLMSettings are the per-call knobs shared by the extractor and classifier.
type LLMSettings struct {
	Model   string
	Timeout time.Duration
}

// IntentExtractor turns one free-text message into a booking.Intent.
type IntentExtractor struct {
	llm      LLMClient
	settings LLMSettings
	logger   *logging.Logger
	metrics  *metrics.BookingMetrics
}

func NewIntentExtractor(llm LLMClient, settings LLMSettings, logger *logging.Logger, m *metrics.BookingMetrics) *IntentExtractor {
	if llm == nil {
		panic("conversation: llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &IntentExtractor{llm: llm, settings: settings, logger: logger, metrics: m}
}

// Extract never fails: any error is folded into an unknown intent whose
// Error field carries the reason.
func (e *IntentExtractor) Extract(ctx context.Context, message string) booking.Intent {
	text, err := complete(ctx, e.llm, e.settings, userPrompt(e.settings.Model, intentPrompt(message), intentMaxTokens))
	e.metrics.ObserveLLMCall(opExtractIntent, err)
	if err != nil {
		e.logger.Warn("intent extraction failed", "error", err)
		return booking.UnknownIntent(err.Error())
	}

	raw, ok := extractJSONObject(stripCodeFence(text))
	if !ok {
		e.logger.Warn("intent extraction returned no json", "response_len", len(text))
		return booking.UnknownIntent(errNoJSON.Error())
	}
	in, err := booking.DecodeIntent(raw)
	if err != nil {
		e.logger.Warn("intent extraction returned invalid json", "error", err)
		return booking.UnknownIntent(err.Error())
	}
	return in
}

func complete(ctx context.Context, llm LLMClient, settings LLMSettings, req LLMRequest) (string, error) {
	if settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.Timeout)
		defer cancel()
	}
	resp, err := llm.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
