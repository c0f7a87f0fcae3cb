package conversation

import (
	"strings"
	"time"

	"github.com/wolfman30/doctor-booking-agent/internal/booking"
	"github.com/wolfman30/doctor-booking-agent/internal/directory"
)

// maxTranscriptTurns bounds the audit transcript kept per session.
const maxTranscriptTurns = 250

// Turn is one exchange in the audit transcript.
type Turn struct {
	UserText  string    `json:"user"`
	AgentText string    `json:"agent"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is everything kept between turns of one conversation.
type Session struct {
	ID          string        `json:"id"`
	State       booking.State `json:"booking_state"`
	Suggestions []string      `json:"suggestions,omitempty"`
	Transcript  []Turn        `json:"transcript"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{ID: id, CreatedAt: now, UpdatedAt: now}
}

func (s *Session) record(userText, agentText string, now time.Time) {
	s.Transcript = append(s.Transcript, Turn{UserText: userText, AgentText: agentText, Timestamp: now})
	if over := len(s.Transcript) - maxTranscriptTurns; over > 0 {
		s.Transcript = append([]Turn(nil), s.Transcript[over:]...)
	}
	s.UpdatedAt = now
}

func (s *Session) remember(doctors []directory.Doctor) {
	ids := make([]string, 0, len(doctors))
	for _, d := range doctors {
		ids = append(ids, d.ID)
	}
	s.Suggestions = ids
}

func (s *Session) clear() {
	s.State.Reset()
	s.Suggestions = nil
}

// WebChatPrefix namespaces conversation ids owned by the web chat.
const WebChatPrefix = "webchat:"

// IsWebChatID reports whether id belongs to a web chat session.
func IsWebChatID(id string) bool {
	return strings.HasPrefix(strings.TrimSpace(id), WebChatPrefix)
}

// Response is what the assistant returns for one turn.
type Response struct {
	Message      string                `json:"message"`
	NextStep     string                `json:"next_step"`
	State        booking.State         `json:"booking_state"`
	Doctors      []directory.Doctor    `json:"doctors,omitempty"`
	Confirmation *booking.Confirmation `json:"confirmation,omitempty"`
}

// Next steps that are not slot collection.
const (
	StepSelectDoctor          = "select_doctor"
	StepCompleted             = "completed"
	StepOnHold                = "on_hold"
	StepCollectSymptoms       = "collect_symptoms"
	StepCollectPatientDetails = "collect_patient_details"
	StepRetryConfirmation     = "retry_confirmation"
)

const (
	// Greeting opens a new conversation.
	Greeting = "Hi! I'm your booking assistant. I can find the right specialist for your symptoms, " +
		"check doctor availability and book your appointment. How can I help you today?"

	openingPrompt = "I'm here to help you book an appointment. Could you tell me what symptoms " +
		"you're experiencing or which specialist you'd like to see?"
	onHoldMessage = "No problem, I've put this booking on hold. Your details are saved, so just message me " +
		"whenever you'd like to continue."
	urgentNotice     = "⚠️ If this is a medical emergency, please call your local emergency number " +
		"or go to the nearest emergency room right away.\n\n"
	confirmFailedMessage = "I'm sorry, I couldn't confirm your appointment just now. Please say \"confirm\" to try again."
)
