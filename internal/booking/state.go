// Package booking models the appointment form a conversation fills in one
// turn at a time, and the confirmation produced once it is complete.
package booking

import "strings"

// ConsultationType is how the patient wants to be seen.
type ConsultationType string

const (
	ConsultationUnset    ConsultationType = ""
	ConsultationVideo    ConsultationType = "video"
	ConsultationInPerson ConsultationType = "in-person"
)

// ParseConsultationType normalizes free text ("video call", "In person",
// "office visit") onto the two supported types. Unrecognized text is unset.
func ParseConsultationType(raw string) ConsultationType {
	text := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case text == "":
		return ConsultationUnset
	case strings.Contains(text, "video"), strings.Contains(text, "virtual"),
		strings.Contains(text, "online"), strings.Contains(text, "tele"):
		return ConsultationVideo
	case strings.Contains(text, "person"), strings.Contains(text, "office"),
		strings.Contains(text, "clinic"), strings.Contains(text, "visit"):
		return ConsultationInPerson
	default:
		return ConsultationUnset
	}
}

// Label is the human-readable form used in confirmations.
func (c ConsultationType) Label() string {
	switch c {
	case ConsultationVideo:
		return "Video"
	default:
		return "In-person"
	}
}

// State is the booking form. An empty string means the slot is unset.
type State struct {
	Specialty        string           `json:"specialty,omitempty"`
	Symptoms         string           `json:"symptoms,omitempty"`
	PreferredDate    string           `json:"preferred_date,omitempty"`
	PreferredTime    string           `json:"preferred_time,omitempty"`
	DoctorID         string           `json:"doctor_id,omitempty"`
	PatientName      string           `json:"patient_name,omitempty"`
	PatientEmail     string           `json:"patient_email,omitempty"`
	PatientPhone     string           `json:"patient_phone,omitempty"`
	ConsultationType ConsultationType `json:"consultation_type,omitempty"`
	Reason           string           `json:"reason,omitempty"`
}

// IsComplete reports whether every field required to finalize is set.
func (s State) IsComplete() bool {
	return s.Specialty != "" &&
		s.DoctorID != "" &&
		s.PreferredDate != "" &&
		s.PreferredTime != "" &&
		s.PatientName != "" &&
		s.PatientEmail != "" &&
		s.PatientPhone != ""
}

// IsEmpty reports whether no slot has been filled yet.
func (s State) IsEmpty() bool {
	return s == State{}
}

// Reset discards the form.
func (s *State) Reset() {
	*s = State{}
}
