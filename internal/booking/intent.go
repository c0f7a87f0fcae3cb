package booking

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// IntentKind is the classified purpose of a user utterance.
type IntentKind string

const (
	IntentBookAppointment IntentKind = "book_appointment"
	IntentCheckSymptoms   IntentKind = "check_symptoms"
	IntentAskAvailability IntentKind = "ask_availability"
	IntentProvideInfo     IntentKind = "provide_info"
	IntentConfirm         IntentKind = "confirm"
	IntentCancel          IntentKind = "cancel"
	IntentUnknown         IntentKind = "unknown"
)

// ParseIntentKind maps model output onto a known intent, defaulting to unknown.
func ParseIntentKind(raw string) IntentKind {
	kind := IntentKind(strings.ToLower(strings.TrimSpace(raw)))
	switch kind {
	case IntentBookAppointment, IntentCheckSymptoms, IntentAskAvailability,
		IntentProvideInfo, IntentConfirm, IntentCancel:
		return kind
	default:
		return IntentUnknown
	}
}

// UnmarshalJSON accepts any JSON value and normalizes it.
func (k *IntentKind) UnmarshalJSON(data []byte) error {
	var t Text
	if err := t.UnmarshalJSON(data); err != nil {
		return err
	}
	*k = ParseIntentKind(string(t))
	return nil
}

// Text is a leniently decoded string. Models return strings, lists, numbers
// or the word "null" for the same field; all of them collapse to one string.
type Text string

var nullWords = map[string]struct{}{
	"null":    {},
	"none":    {},
	"n/a":     {},
	"na":      {},
	"unknown": {},
	"nil":     {},
}

// UnmarshalJSON flattens any JSON value into a trimmed string.
func (t *Text) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Text(flattenText(raw))
	return nil
}

// String returns the trimmed value.
func (t Text) String() string {
	return string(t)
}

func flattenText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		s := strings.TrimSpace(val)
		if _, isNull := nullWords[strings.ToLower(s)]; isNull {
			return ""
		}
		return s
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return ""
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := flattenText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// PatientInfo carries contact details mentioned in a message.
type PatientInfo struct {
	Name  Text `json:"name"`
	Email Text `json:"email"`
	Phone Text `json:"phone"`
}

// UnmarshalJSON ignores anything that is not an object.
func (p *PatientInfo) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "{") {
		*p = PatientInfo{}
		return nil
	}
	type plain PatientInfo
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*p = PatientInfo(out)
	return nil
}

// Intent is the structured result of analysing one user message.
type Intent struct {
	Kind             IntentKind  `json:"intent"`
	Specialty        Text        `json:"specialty"`
	Symptoms         Text        `json:"symptoms"`
	DatePreference   Text        `json:"date_preference"`
	TimePreference   Text        `json:"time_preference"`
	DoctorPreference Text        `json:"doctor_preference"`
	ConsultationType Text        `json:"consultation_type"`
	Patient          PatientInfo `json:"patient_info"`
	Urgency          Text        `json:"urgency"`
	AdditionalInfo   Text        `json:"additional_info"`
	Error            string      `json:"error,omitempty"`
}

// UnknownIntent is returned when a message could not be analysed.
func UnknownIntent(reason string) Intent {
	return Intent{Kind: IntentUnknown, Error: reason}
}

// DecodeIntent parses a JSON object produced by the model.
func DecodeIntent(raw string) (Intent, error) {
	var in Intent
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return Intent{}, fmt.Errorf("booking: decode intent: %w", err)
	}
	if in.Kind == "" {
		in.Kind = IntentUnknown
	}
	return in, nil
}

// IsUrgent reports whether the user flagged the request as urgent.
func (i Intent) IsUrgent() bool {
	return strings.EqualFold(strings.TrimSpace(string(i.Urgency)), "urgent")
}
