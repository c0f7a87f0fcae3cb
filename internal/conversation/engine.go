package conversation

import (
	"context"
	"errors"
	"time"

	"github.com/wolfman30/doctor-booking-agent/internal/booking"
	"github.com/wolfman30/doctor-booking-agent/internal/directory"
	"github.com/wolfman30/doctor-booking-agent/internal/observability/metrics"
	"github.com/wolfman30/doctor-booking-agent/pkg/logging"
)

// Extractor analyses one user message.
type Extractor interface {
	Extract(ctx context.Context, message string) booking.Intent
}

// Classifier maps symptoms onto a specialty.
type Classifier interface {
	Classify(ctx context.Context, symptoms string) string
}

// Notifier delivers a confirmation to the patient.
type Notifier interface {
	Notify(ctx context.Context, conf booking.Confirmation) error
}

type EngineOption func(*Engine)

// WithNotifier sends confirmations after a booking is finalized.
func WithNotifier(n Notifier) EngineOption {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithMetrics records turn and booking metrics.
func WithMetrics(m *metrics.BookingMetrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithClock overrides the time source used for ids and transcripts.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine advances a session's booking form one message at a time. It holds
// no per-conversation state and is safe for concurrent use on different
// sessions.
type Engine struct {
	extractor  Extractor
	classifier Classifier
	directory  *directory.Directory
	notifier   Notifier
	metrics    *metrics.BookingMetrics
	logger     *logging.Logger
	now        func() time.Time
}

func NewEngine(extractor Extractor, classifier Classifier, dir *directory.Directory, logger *logging.Logger, opts ...EngineOption) *Engine {
	if extractor == nil {
		panic("conversation: extractor cannot be nil")
	}
	if classifier == nil {
		panic("conversation: classifier cannot be nil")
	}
	if dir == nil {
		dir = directory.Default()
	}
	if logger == nil {
		logger = logging.Default()
	}
	e := &Engine{
		extractor:  extractor,
		classifier: classifier,
		directory:  dir,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Directory returns the doctor directory the engine books against.
func (e *Engine) Directory() *directory.Directory {
	return e.directory
}

// Advance processes one user message against the session and returns the
// assistant's reply. The session is updated in place.
func (e *Engine) Advance(ctx context.Context, sess *Session, message string) Response {
	start := e.now()
	in := e.extractor.Extract(ctx, message)

	var resp Response
	if in.Kind == booking.IntentCancel {
		// The form is kept; only finalize or an explicit reset clears it.
		resp = Response{Message: onHoldMessage, NextStep: StepOnHold}
	} else {
		e.merge(ctx, sess, in)
		resp = e.decide(ctx, sess)
	}
	if in.IsUrgent() {
		resp.Message = urgentNotice + resp.Message
	}
	return e.finish(sess, message, resp, start, "advance")
}

// QuickBook handles a one-shot request such as "cardiologist tomorrow at
// 10am". It picks the top-rated matching doctor itself and only asks for
// patient details when little else is missing; otherwise the request is
// handled as a normal turn.
func (e *Engine) QuickBook(ctx context.Context, sess *Session, request string) Response {
	start := e.now()
	in := e.extractor.Extract(ctx, request)
	state := &sess.State

	state.Apply(booking.Update{
		Specialty:     in.Specialty.String(),
		PreferredDate: in.DatePreference.String(),
		PreferredTime: in.TimePreference.String(),
	})
	if symptoms := in.Symptoms.String(); symptoms != "" && state.Specialty == "" {
		state.Apply(booking.Update{
			Symptoms:  symptoms,
			Specialty: e.classifier.Classify(ctx, symptoms),
		})
	}

	var doctors []directory.Doctor
	if state.Specialty != "" {
		doctors = e.directory.FindDoctors(state.Specialty, state.PreferredDate)
	}
	if len(doctors) == 0 {
		return e.Advance(ctx, sess, request)
	}
	state.Apply(booking.Update{DoctorID: doctors[0].ID})
	if len(state.MissingSlots()) > 2 {
		return e.Advance(ctx, sess, request)
	}

	resp := Response{
		Message:  booking.RenderQuickBookSummary(*state),
		NextStep: StepCollectPatientDetails,
		Doctors:  doctors[:1],
	}
	return e.finish(sess, request, resp, start, "quick_book")
}

func (e *Engine) finish(sess *Session, message string, resp Response, start time.Time, op string) Response {
	now := e.now()
	resp.State = sess.State
	sess.record(message, resp.Message, now)
	e.metrics.ObserveTurn(resp.NextStep)
	e.metrics.ObserveTurnLatency(op, now.Sub(start).Seconds())
	e.logger.Debug("conversation turn processed",
		"conversation_id", sess.ID,
		"next_step", resp.NextStep,
	)
	return resp
}

func (e *Engine) merge(ctx context.Context, sess *Session, in booking.Intent) {
	state := &sess.State
	state.Apply(booking.UpdateFromIntent(in))

	if symptoms := in.Symptoms.String(); symptoms != "" && state.Specialty == "" {
		state.Specialty = e.classifier.Classify(ctx, symptoms)
	}

	if doc, ok := e.matchDoctor(sess, in.DoctorPreference.String()); ok {
		u := booking.Update{DoctorID: doc.ID}
		if state.Specialty == "" {
			u.Specialty = doc.Specialty
		}
		state.Apply(u)
		sess.Suggestions = nil
	}
}

// matchDoctor resolves a preference against the doctors last offered, then
// by name against the directory, narrowed to the current specialty.
func (e *Engine) matchDoctor(sess *Session, pref string) (directory.Doctor, bool) {
	if pref == "" {
		return directory.Doctor{}, false
	}
	if offered := e.suggested(sess); len(offered) > 0 {
		if doc, ok := directory.MatchDoctor(pref, offered); ok {
			return doc, true
		}
	}
	return directory.MatchDoctorName(pref, e.directory.FindDoctors(sess.State.Specialty, ""))
}

func (e *Engine) suggested(sess *Session) []directory.Doctor {
	out := make([]directory.Doctor, 0, len(sess.Suggestions))
	for _, id := range sess.Suggestions {
		if doc, ok := e.directory.Get(id); ok {
			out = append(out, doc)
		}
	}
	return out
}

func (e *Engine) decide(ctx context.Context, sess *Session) Response {
	state := sess.State

	if state.IsComplete() {
		return e.finalize(ctx, sess)
	}
	// A bare "confirm" on an incomplete form keeps collecting.

	if state.Specialty != "" && state.DoctorID == "" {
		if resp, ok := e.suggest(sess); ok {
			return resp
		}
	}

	if slot, ok := state.NextSlot(); ok {
		return Response{Message: e.question(state, slot), NextStep: slot.NextStep()}
	}
	return Response{Message: openingPrompt, NextStep: StepCollectSymptoms}
}

func (e *Engine) question(state booking.State, slot booking.Slot) string {
	if slot != booking.SlotTime {
		return booking.Question(slot)
	}
	doc, ok := e.directory.Get(state.DoctorID)
	if !ok {
		return booking.RenderTimeQuestion(nil)
	}
	return booking.RenderTimeQuestion(&doc)
}

func (e *Engine) suggest(sess *Session) (Response, bool) {
	doctors := e.directory.FindDoctors(sess.State.Specialty, sess.State.PreferredDate)
	if len(doctors) == 0 {
		return Response{}, false
	}
	msg, err := booking.RenderSuggestions(sess.State.Specialty, doctors)
	if err != nil {
		e.logger.Error("failed to render doctor suggestions", "error", err)
		return Response{}, false
	}
	top := booking.TopDoctors(doctors)
	sess.remember(top)
	return Response{Message: msg, NextStep: StepSelectDoctor, Doctors: top}, true
}

func (e *Engine) finalize(ctx context.Context, sess *Session) Response {
	conf, err := booking.Finalize(sess.State, e.directory, e.now())
	switch {
	case errors.Is(err, booking.ErrDoctorNotFound):
		e.logger.Warn("selected doctor no longer in directory",
			"conversation_id", sess.ID,
			"doctor_id", sess.State.DoctorID,
		)
		if resp, ok := e.suggest(sess); ok {
			return resp
		}
		return Response{Message: booking.Question(booking.SlotDoctorSelection), NextStep: booking.SlotDoctorSelection.NextStep()}
	case err != nil:
		e.logger.Error("failed to finalize booking", "conversation_id", sess.ID, "error", err)
		return Response{Message: confirmFailedMessage, NextStep: StepRetryConfirmation}
	}

	sess.clear()
	e.metrics.ObserveBooking(conf.Details.Specialty)
	e.logger.Info("appointment confirmed",
		"conversation_id", sess.ID,
		"appointment_id", conf.AppointmentID,
		"doctor_id", conf.Doctor.ID,
	)

	if e.notifier != nil {
		if err := e.notifier.Notify(ctx, conf); err != nil {
			e.metrics.ObserveNotifyFailure()
			e.logger.Warn("confirmation notification failed",
				"appointment_id", conf.AppointmentID,
				"error", err,
			)
		}
	}
	return Response{Message: conf.Message, NextStep: StepCompleted, Confirmation: &conf}
}
