package booking

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/doctor-booking-agent/internal/directory"
)

func completeState() State {
	return State{
		Specialty:     "Cardiology",
		DoctorID:      "doc1",
		PreferredDate: "next Monday",
		PreferredTime: "10:00",
		PatientName:   "Asha Rao",
		PatientEmail:  "asha@example.com",
		PatientPhone:  "555-0100",
	}
}

func TestDecodeIntentLenientFields(t *testing.T) {
	raw := `{
		"intent": "Book_Appointment",
		"specialty": null,
		"symptoms": ["chest pain", "shortness of breath"],
		"date_preference": "null",
		"time_preference": "10am",
		"doctor_preference": 2,
		"consultation_type": "video call",
		"patient_info": {"name": "Asha", "email": "N/A", "phone": 5550100},
		"urgency": "urgent",
		"additional_info": ""
	}`

	in, err := DecodeIntent(raw)
	require.NoError(t, err)
	assert.Equal(t, IntentBookAppointment, in.Kind)
	assert.Equal(t, Text(""), in.Specialty)
	assert.Equal(t, Text("chest pain, shortness of breath"), in.Symptoms)
	assert.Equal(t, Text(""), in.DatePreference)
	assert.Equal(t, Text("10am"), in.TimePreference)
	assert.Equal(t, Text("2"), in.DoctorPreference)
	assert.Equal(t, Text("Asha"), in.Patient.Name)
	assert.Equal(t, Text(""), in.Patient.Email)
	assert.Equal(t, Text("5550100"), in.Patient.Phone)
	assert.True(t, in.IsUrgent())
}

func TestDecodeIntentDefaultsKind(t *testing.T) {
	in, err := DecodeIntent(`{"specialty":"ENT"}`)
	require.NoError(t, err)
	assert.Equal(t, IntentUnknown, in.Kind)

	in, err = DecodeIntent(`{"intent":"reschedule"}`)
	require.NoError(t, err)
	assert.Equal(t, IntentUnknown, in.Kind)
}

func TestDecodeIntentToleratesScalarPatientInfo(t *testing.T) {
	in, err := DecodeIntent(`{"intent":"provide_info","patient_info":"none"}`)
	require.NoError(t, err)
	assert.Equal(t, PatientInfo{}, in.Patient)
}

func TestDecodeIntentRejectsInvalidJSON(t *testing.T) {
	_, err := DecodeIntent(`{"intent": `)
	assert.Error(t, err)
}

func TestParseConsultationType(t *testing.T) {
	cases := map[string]ConsultationType{
		"video":           ConsultationVideo,
		"Video call":      ConsultationVideo,
		"telehealth":      ConsultationVideo,
		"in-person":       ConsultationInPerson,
		"In person visit": ConsultationInPerson,
		"at the office":   ConsultationInPerson,
		"":                ConsultationUnset,
		"whatever":        ConsultationUnset,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseConsultationType(raw), raw)
	}
	assert.Equal(t, "In-person", ConsultationUnset.Label())
	assert.Equal(t, "Video", ConsultationVideo.Label())
}

func TestApplyIgnoresEmptyUpdate(t *testing.T) {
	state := State{Specialty: "Dermatology", PreferredDate: "Friday"}
	before := state

	changed := state.Apply(UpdateFromIntent(Intent{Kind: IntentUnknown, Error: "boom"}))

	assert.False(t, changed)
	assert.Equal(t, before, state)
}

func TestApplyIsMonotonic(t *testing.T) {
	var state State
	updates := []Update{
		{Specialty: "Cardiology"},
		{PreferredDate: "Monday"},
		{Specialty: "", PreferredDate: ""},
		{PatientName: "Asha", ConsultationType: ConsultationVideo},
		{ConsultationType: ConsultationUnset},
		{Specialty: "Neurology"},
	}
	for _, u := range updates {
		prev := state
		state.Apply(u)
		for field, pair := range map[string][2]string{
			"specialty": {prev.Specialty, state.Specialty},
			"date":      {prev.PreferredDate, state.PreferredDate},
			"name":      {prev.PatientName, state.PatientName},
			"type":      {string(prev.ConsultationType), string(state.ConsultationType)},
		} {
			if pair[0] != "" {
				assert.NotEmpty(t, pair[1], "%s was cleared", field)
			}
		}
	}
	assert.Equal(t, "Neurology", state.Specialty, "non-empty values overwrite")
	assert.Equal(t, ConsultationVideo, state.ConsultationType)
}

func TestUpdateFromIntentMapsSlotFields(t *testing.T) {
	in := Intent{
		Specialty:        "ENT",
		Symptoms:         "ear ache",
		DatePreference:   "Tuesday",
		TimePreference:   "morning",
		ConsultationType: "in person",
		Patient:          PatientInfo{Name: "Lee", Email: "lee@example.com", Phone: "123"},
		AdditionalInfo:   "follow-up",
	}

	u := UpdateFromIntent(in)

	assert.Equal(t, Update{
		Specialty:        "ENT",
		Symptoms:         "ear ache",
		PreferredDate:    "Tuesday",
		PreferredTime:    "morning",
		PatientName:      "Lee",
		PatientEmail:     "lee@example.com",
		PatientPhone:     "123",
		ConsultationType: ConsultationInPerson,
	}, u)
	assert.Empty(t, u.DoctorID)
}

func TestAdditionalInfoAloneLeavesStateUnchanged(t *testing.T) {
	state := State{Specialty: "ENT"}

	changed := state.Apply(UpdateFromIntent(Intent{Kind: IntentProvideInfo, AdditionalInfo: "I prefer mornings"}))

	assert.False(t, changed)
	assert.Equal(t, State{Specialty: "ENT"}, state)
}

func TestMissingSlotsOrder(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  []Slot
	}{
		{"empty form", State{}, []Slot{SlotSpecialtyOrSymptoms}},
		{"only specialty", State{Specialty: "Cardiology"}, []Slot{SlotDoctorSelection}},
		{"symptoms without specialty", State{Symptoms: "rash"}, nil},
		{"doctor chosen", State{Specialty: "Cardiology", DoctorID: "doc1"}, []Slot{SlotDate}},
		{"date without time", State{Specialty: "Cardiology", DoctorID: "doc1", PreferredDate: "Mon"}, []Slot{SlotTime}},
		{"date before doctor", State{Specialty: "Cardiology", PreferredDate: "Mon"}, []Slot{SlotDoctorSelection, SlotTime}},
		{"only phone missing", func() State { s := completeState(); s.PatientPhone = ""; return s }(), []Slot{SlotPatientPhone}},
		{"complete", completeState(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.MissingSlots())
		})
	}
}

func TestIsCompleteRequiresSevenFields(t *testing.T) {
	assert.True(t, completeState().IsComplete())

	strip := []func(*State){
		func(s *State) { s.Specialty = "" },
		func(s *State) { s.DoctorID = "" },
		func(s *State) { s.PreferredDate = "" },
		func(s *State) { s.PreferredTime = "" },
		func(s *State) { s.PatientName = "" },
		func(s *State) { s.PatientEmail = "" },
		func(s *State) { s.PatientPhone = "" },
	}
	for i, fn := range strip {
		s := completeState()
		fn(&s)
		assert.False(t, s.IsComplete(), "field %d", i)
	}

	s := completeState()
	s.ConsultationType = ""
	s.Symptoms = ""
	assert.True(t, s.IsComplete(), "optional fields are not required")
}

func TestQuestionFallback(t *testing.T) {
	assert.Equal(t, "What's your phone number?", Question(SlotPatientPhone))
	assert.Equal(t, "Could you provide more information?", Question(Slot("insurance")))
	assert.Equal(t, "collect_patient_phone", SlotPatientPhone.NextStep())
}

func TestFinalize(t *testing.T) {
	dir := directory.Default()
	now := time.Date(2025, 3, 10, 9, 30, 15, 0, time.UTC)

	conf, err := Finalize(completeState(), dir, now)
	require.NoError(t, err)

	assert.Equal(t, "APT20250310093015", conf.AppointmentID)
	assert.Equal(t, "doc1", conf.Doctor.ID)
	assert.Equal(t, completeState(), conf.Details)
	for _, want := range []string{
		"Appointment Confirmed",
		"APT20250310093015",
		"Dr. Dr. Ranghaiah",
		"Cardiology",
		"next Monday",
		"10:00",
		"In-person",
		"$200",
		"Asha Rao",
		"asha@example.com",
		"555-0100",
	} {
		assert.Contains(t, conf.Message, want)
	}
	assert.NotContains(t, conf.Message, "N/A")
}

func TestFinalizeDoesNotTouchState(t *testing.T) {
	state := completeState()
	_, err := Finalize(state, directory.Default(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, completeState(), state)

	state.Reset()
	assert.True(t, state.IsEmpty())
}

func TestFinalizeErrors(t *testing.T) {
	dir := directory.Default()

	incomplete := completeState()
	incomplete.PatientPhone = ""
	_, err := Finalize(incomplete, dir, time.Now())
	assert.ErrorIs(t, err, ErrIncomplete)

	unknown := completeState()
	unknown.DoctorID = "doc42"
	_, err = Finalize(unknown, dir, time.Now())
	assert.True(t, errors.Is(err, ErrDoctorNotFound))
	assert.Contains(t, err.Error(), "doc42")
}

func TestRenderSuggestions(t *testing.T) {
	doctors := directory.Default().FindDoctors("", "")

	msg, err := RenderSuggestions("General", doctors)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(msg, "Great! I found 5 excellent General specialists"))
	assert.Contains(t, msg, "1. **Dr. Dr. Ranghaiah** - Cardiology")
	assert.Contains(t, msg, "3. **Dr. Emily Rodriguez** - General Medicine")
	assert.NotContains(t, msg, "4. **")
	assert.Contains(t, msg, "Rating: 4.9/5.0")
	assert.Contains(t, msg, "Consultation Fee: $120")
	assert.Contains(t, msg, "Available: Monday, Tuesday, Wednesday\n")
	assert.True(t, strings.HasSuffix(msg, "You can say the number or the doctor's name."))
}

func TestRenderTimeQuestion(t *testing.T) {
	assert.Equal(t, Question(SlotTime), RenderTimeQuestion(nil))

	doc, _ := directory.Default().Get("doc4")
	msg := RenderTimeQuestion(&doc)
	assert.Contains(t, msg, "Dr. Robert Williams has openings at 10:00, 11:00, 14:00, 15:00, 16:00.")
}

func TestRenderQuickBookSummary(t *testing.T) {
	full := RenderQuickBookSummary(State{Specialty: "Cardiology", PreferredDate: "tomorrow", PreferredTime: "10am"})
	assert.Equal(t, "I found a great Cardiology appointment for tomorrow at 10am. I just need a few details to confirm.", full)

	partial := RenderQuickBookSummary(State{Specialty: "ENT"})
	assert.Equal(t, "I found a great ENT appointment. I just need a few details to confirm.", partial)
}
