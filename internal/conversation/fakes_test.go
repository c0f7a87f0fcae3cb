package conversation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wolfman30/doctor-booking-agent/internal/booking"
	"github.com/wolfman30/doctor-booking-agent/internal/directory"
	"github.com/wolfman30/doctor-booking-agent/pkg/logging"
)

// scriptedExtractor returns a canned intent per message.
type scriptedExtractor struct {
	mu      sync.Mutex
	intents map[string]booking.Intent
	calls   int
}

func (s *scriptedExtractor) Extract(_ context.Context, message string) booking.Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if in, ok := s.intents[message]; ok {
		return in
	}
	return booking.UnknownIntent("no script for message")
}

func (s *scriptedExtractor) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubClassifier struct {
	specialty string
	calls     []string
}

func (c *stubClassifier) Classify(_ context.Context, symptoms string) string {
	c.calls = append(c.calls, symptoms)
	return c.specialty
}

type recordingNotifier struct {
	err  error
	sent []booking.Confirmation
}

func (n *recordingNotifier) Notify(_ context.Context, conf booking.Confirmation) error {
	n.sent = append(n.sent, conf)
	return n.err
}

var fixedNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func testEngine(intents map[string]booking.Intent, classifier *stubClassifier, opts ...EngineOption) (*Engine, *scriptedExtractor) {
	if classifier == nil {
		classifier = &stubClassifier{specialty: directory.DefaultSpecialty}
	}
	extractor := &scriptedExtractor{intents: intents}
	opts = append([]EngineOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewEngine(extractor, classifier, directory.Default(), logging.Default(), opts...), extractor
}

// replyLLM answers every request with text (or err) and keeps the requests.
type replyLLM struct {
	text     string
	err      error
	requests []LLMRequest
	deadline bool
}

func (r *replyLLM) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	r.requests = append(r.requests, req)
	_, r.deadline = ctx.Deadline()
	if r.err != nil {
		return LLMResponse{}, r.err
	}
	return LLMResponse{Text: r.text}, nil
}

var errLLMDown = errors.New("llm unavailable")
