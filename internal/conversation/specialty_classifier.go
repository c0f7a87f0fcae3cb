package conversation

import (
	"context"
	"strings"

	"github.com/wolfman30/doctor-booking-agent/internal/directory"
	"github.com/wolfman30/doctor-booking-agent/internal/observability/metrics"
	"github.com/wolfman30/doctor-booking-agent/pkg/logging"
)

// SpecialtyClassifier maps symptoms onto one of a closed list of specialties.
type SpecialtyClassifier struct {
	llm         LLMClient
	settings    LLMSettings
	specialties []string
	logger      *logging.Logger
	metrics     *metrics.BookingMetrics
}

func NewSpecialtyClassifier(llm LLMClient, settings LLMSettings, logger *logging.Logger, m *metrics.BookingMetrics) *SpecialtyClassifier {
	if llm == nil {
		panic("conversation: llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SpecialtyClassifier{
		llm:         llm,
		settings:    settings,
		specialties: directory.Specialties,
		logger:      logger,
		metrics:     m,
	}
}

// Classify returns the first known specialty named in the model's reply,
// or directory.DefaultSpecialty when nothing matches or the call fails.
func (c *SpecialtyClassifier) Classify(ctx context.Context, symptoms string) string {
	symptoms = strings.TrimSpace(symptoms)
	if symptoms == "" {
		return directory.DefaultSpecialty
	}

	text, err := complete(ctx, c.llm, c.settings, userPrompt(c.settings.Model, specialtyPrompt(symptoms, c.specialties), specialtyMaxTokens))
	c.metrics.ObserveLLMCall(opClassifySpecialty, err)
	if err != nil {
		c.logger.Warn("specialty classification failed", "error", err)
		return directory.DefaultSpecialty
	}

	reply := strings.ToLower(text)
	for _, s := range c.specialties {
		if strings.Contains(reply, strings.ToLower(s)) {
			return s
		}
	}
	c.logger.Debug("specialty classification matched nothing", "reply", text)
	return directory.DefaultSpecialty
}
