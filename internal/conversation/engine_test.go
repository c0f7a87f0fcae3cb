package conversation

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/doctor-booking-agent/internal/booking"
	"github.com/wolfman30/doctor-booking-agent/internal/observability/metrics"
)

func chestPainScript() map[string]booking.Intent {
	return map[string]booking.Intent{
		"I have chest pain":      {Kind: booking.IntentCheckSymptoms, Symptoms: "chest pain", Urgency: "normal"},
		"the first one":          {Kind: booking.IntentProvideInfo, DoctorPreference: "the first one"},
		"next Monday":            {Kind: booking.IntentProvideInfo, DatePreference: "next Monday"},
		"10am":                   {Kind: booking.IntentProvideInfo, TimePreference: "10am"},
		"I'm Asha Rao":           {Kind: booking.IntentProvideInfo, Patient: booking.PatientInfo{Name: "Asha Rao"}},
		"asha@example.com":       {Kind: booking.IntentProvideInfo, Patient: booking.PatientInfo{Email: "asha@example.com"}},
		"555-0100, video please": {Kind: booking.IntentProvideInfo, ConsultationType: "video", Patient: booking.PatientInfo{Phone: "555-0100"}},
		"confirm":                {Kind: booking.IntentConfirm},
	}
}

func TestEngineChestPainConversation(t *testing.T) {
	classifier := &stubClassifier{specialty: "Cardiology"}
	notifier := &recordingNotifier{}
	engine, _ := testEngine(chestPainScript(), classifier,
		WithNotifier(notifier),
		WithMetrics(metrics.NewBookingMetrics(prometheus.NewRegistry())),
	)
	sess := NewSession("conv-1", fixedNow)

	resp := engine.Advance(t.Context(), sess, "I have chest pain")
	assert.Equal(t, StepSelectDoctor, resp.NextStep)
	assert.Equal(t, []string{"chest pain"}, classifier.calls)
	assert.Equal(t, "Cardiology", resp.State.Specialty)
	assert.Equal(t, "chest pain", resp.State.Symptoms)
	require.Len(t, resp.Doctors, 1)
	assert.Equal(t, "doc1", resp.Doctors[0].ID)
	assert.Contains(t, resp.Message, "Great! I found 1 excellent Cardiology specialists")
	assert.Equal(t, []string{"doc1"}, sess.Suggestions)

	resp = engine.Advance(t.Context(), sess, "the first one")
	assert.Equal(t, "collect_date", resp.NextStep)
	assert.Equal(t, "doc1", resp.State.DoctorID)
	assert.Empty(t, sess.Suggestions)

	resp = engine.Advance(t.Context(), sess, "next Monday")
	assert.Equal(t, "collect_time", resp.NextStep)
	assert.Contains(t, resp.Message, "Dr. Dr. Ranghaiah has openings at 09:00, 10:00, 11:00, 14:00, 15:00, 16:00.")

	steps := []struct{ msg, next string }{
		{"10am", "collect_patient_name"},
		{"I'm Asha Rao", "collect_patient_email"},
		{"asha@example.com", "collect_patient_phone"},
	}
	for _, step := range steps {
		resp = engine.Advance(t.Context(), sess, step.msg)
		assert.Equal(t, step.next, resp.NextStep, step.msg)
	}

	resp = engine.Advance(t.Context(), sess, "555-0100, video please")
	require.Equal(t, StepCompleted, resp.NextStep)
	require.NotNil(t, resp.Confirmation)
	assert.Equal(t, "APT20250310093000", resp.Confirmation.AppointmentID)
	assert.Equal(t, "doc1", resp.Confirmation.Doctor.ID)
	assert.Equal(t, "asha@example.com", resp.Confirmation.Details.PatientEmail)
	assert.Equal(t, booking.ConsultationVideo, resp.Confirmation.Details.ConsultationType)
	assert.Contains(t, resp.Message, "**Type:** Video")
	assert.True(t, resp.State.IsEmpty(), "form resets after finalize")
	assert.True(t, sess.State.IsEmpty())
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, resp.Confirmation.AppointmentID, notifier.sent[0].AppointmentID)

	// A second confirm runs against the fresh form.
	resp = engine.Advance(t.Context(), sess, "confirm")
	assert.Equal(t, "collect_specialty_or_symptoms", resp.NextStep)
	assert.Nil(t, resp.Confirmation)
	assert.Len(t, notifier.sent, 1)

	require.Len(t, sess.Transcript, 8)
	assert.Equal(t, "I have chest pain", sess.Transcript[0].UserText)
	assert.Equal(t, fixedNow, sess.Transcript[0].Timestamp)
}

func TestEngineNullExtractionLeavesStateUnchanged(t *testing.T) {
	engine, _ := testEngine(nil, nil)
	sess := NewSession("conv", fixedNow)
	sess.State = booking.State{Specialty: "Dermatology", DoctorID: "doc2", PreferredDate: "Friday"}
	before := sess.State

	resp := engine.Advance(t.Context(), sess, "hmm")

	assert.Equal(t, before, sess.State)
	assert.Equal(t, before, resp.State)
	assert.Equal(t, "collect_time", resp.NextStep)
}

func TestEngineConfirmOnIncompleteFormAsksForMissingSlot(t *testing.T) {
	engine, _ := testEngine(map[string]booking.Intent{"confirm": {Kind: booking.IntentConfirm}}, nil)
	sess := NewSession("conv", fixedNow)
	sess.State = booking.State{
		Specialty: "Cardiology", DoctorID: "doc1", PreferredDate: "Monday", PreferredTime: "10:00",
		PatientName: "Asha", PatientEmail: "asha@example.com",
	}

	resp := engine.Advance(t.Context(), sess, "confirm")

	assert.Equal(t, "collect_patient_phone", resp.NextStep)
	assert.Equal(t, "What's your phone number?", resp.Message)
	assert.Nil(t, resp.Confirmation)
	assert.Equal(t, "Asha", sess.State.PatientName)
}

func TestEngineEmptyFormAsksForSymptoms(t *testing.T) {
	engine, _ := testEngine(nil, nil)
	resp := engine.Advance(t.Context(), NewSession("conv", fixedNow), "hello")
	assert.Equal(t, "collect_specialty_or_symptoms", resp.NextStep)
	assert.Equal(t, booking.Question(booking.SlotSpecialtyOrSymptoms), resp.Message)
}

func TestEngineSpecialtyWithoutDoctorsAsksForDoctor(t *testing.T) {
	engine, _ := testEngine(map[string]booking.Intent{
		"neurologist": {Kind: booking.IntentBookAppointment, Specialty: "Neurology"},
	}, nil)
	resp := engine.Advance(t.Context(), NewSession("conv", fixedNow), "neurologist")
	assert.Equal(t, "collect_doctor_selection", resp.NextStep)
	assert.Empty(t, resp.Doctors)
}

func TestEngineSuggestionsFilterByDate(t *testing.T) {
	engine, _ := testEngine(map[string]booking.Intent{
		"a child doctor on saturday": {Kind: booking.IntentBookAppointment, Specialty: "pediatrics", DatePreference: "Saturday"},
	}, nil)
	sess := NewSession("conv", fixedNow)

	resp := engine.Advance(t.Context(), sess, "a child doctor on saturday")

	assert.Equal(t, StepSelectDoctor, resp.NextStep)
	require.Len(t, resp.Doctors, 1)
	assert.Equal(t, "doc3", resp.Doctors[0].ID)
}

func TestEngineDoctorPreferenceByNameSetsSpecialty(t *testing.T) {
	engine, _ := testEngine(map[string]booking.Intent{
		"book with Dr. Priya Sharma": {Kind: booking.IntentBookAppointment, DoctorPreference: "Dr. Priya Sharma"},
	}, nil)
	sess := NewSession("conv", fixedNow)

	resp := engine.Advance(t.Context(), sess, "book with Dr. Priya Sharma")

	assert.Equal(t, "doc3", sess.State.DoctorID)
	assert.Equal(t, "Pediatrics", sess.State.Specialty)
	assert.Equal(t, "collect_date", resp.NextStep)
}

func TestEngineDoctorPreferenceRestrictedToSpecialty(t *testing.T) {
	engine, _ := testEngine(map[string]booking.Intent{
		"chen": {Kind: booking.IntentProvideInfo, DoctorPreference: "Chen"},
	}, nil)
	sess := NewSession("conv", fixedNow)
	sess.State.Specialty = "Cardiology"

	resp := engine.Advance(t.Context(), sess, "chen")

	assert.Empty(t, sess.State.DoctorID)
	assert.Equal(t, StepSelectDoctor, resp.NextStep)
}

func TestEngineOptionNumberNeedsSuggestions(t *testing.T) {
	engine, _ := testEngine(map[string]booking.Intent{
		"2": {Kind: booking.IntentProvideInfo, DoctorPreference: "2"},
	}, nil)
	sess := NewSession("conv", fixedNow)

	engine.Advance(t.Context(), sess, "2")

	assert.Empty(t, sess.State.DoctorID)
}

func TestEngineCancelKeepsForm(t *testing.T) {
	engine, _ := testEngine(map[string]booking.Intent{
		"never mind": {Kind: booking.IntentCancel, Specialty: "ENT"},
		"monday":     {Kind: booking.IntentProvideInfo, DatePreference: "Monday"},
	}, nil)
	sess := NewSession("conv", fixedNow)
	sess.State = booking.State{Specialty: "Cardiology", DoctorID: "doc1"}
	sess.Suggestions = []string{"doc1"}
	before := sess.State

	resp := engine.Advance(t.Context(), sess, "never mind")

	assert.Equal(t, StepOnHold, resp.NextStep)
	assert.Equal(t, before, sess.State)
	assert.Equal(t, before, resp.State)
	assert.Equal(t, []string{"doc1"}, sess.Suggestions)
	assert.Len(t, sess.Transcript, 1)

	resp = engine.Advance(t.Context(), sess, "monday")

	assert.Equal(t, "collect_time", resp.NextStep)
	assert.Equal(t, "Cardiology", sess.State.Specialty)
	assert.Equal(t, "doc1", sess.State.DoctorID)
	assert.Equal(t, "Monday", sess.State.PreferredDate)
}

func TestEngineUrgentPrefixesNotice(t *testing.T) {
	engine, _ := testEngine(map[string]booking.Intent{
		"severe chest pain right now": {Kind: booking.IntentCheckSymptoms, Symptoms: "severe chest pain", Urgency: "URGENT"},
	}, &stubClassifier{specialty: "Cardiology"})

	resp := engine.Advance(t.Context(), NewSession("conv", fixedNow), "severe chest pain right now")

	assert.True(t, strings.HasPrefix(resp.Message, urgentNotice))
	assert.Equal(t, StepSelectDoctor, resp.NextStep)
}

func TestEngineUnknownDoctorReoffersDoctors(t *testing.T) {
	engine, _ := testEngine(map[string]booking.Intent{"confirm": {Kind: booking.IntentConfirm}}, nil)
	sess := NewSession("conv", fixedNow)
	sess.State = booking.State{
		Specialty: "Dermatology", DoctorID: "doc42", PreferredDate: "Monday", PreferredTime: "10:00",
		PatientName: "Lee", PatientEmail: "lee@example.com", PatientPhone: "123",
	}

	resp := engine.Advance(t.Context(), sess, "confirm")

	assert.Equal(t, StepSelectDoctor, resp.NextStep)
	assert.Nil(t, resp.Confirmation)
	require.Len(t, resp.Doctors, 1)
	assert.Equal(t, "doc2", resp.Doctors[0].ID)
	assert.Equal(t, "Lee", sess.State.PatientName, "form kept for a new pick")
}

func TestEngineNotifierFailureDoesNotFailBooking(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	engine, _ := testEngine(map[string]booking.Intent{"confirm": {Kind: booking.IntentConfirm}}, nil, WithNotifier(notifier))
	sess := NewSession("conv", fixedNow)
	sess.State = booking.State{
		Specialty: "Cardiology", DoctorID: "doc1", PreferredDate: "Monday", PreferredTime: "10:00",
		PatientName: "Asha", PatientEmail: "asha@example.com", PatientPhone: "555",
	}

	resp := engine.Advance(t.Context(), sess, "confirm")

	assert.Equal(t, StepCompleted, resp.NextStep)
	assert.Len(t, notifier.sent, 1)
}

func TestEngineQuickBookShortcut(t *testing.T) {
	request := "Book me a cardiologist appointment next Monday at 10am"
	engine, extractor := testEngine(map[string]booking.Intent{
		request: {Kind: booking.IntentBookAppointment, Specialty: "Cardiology", DatePreference: "next Monday", TimePreference: "10am"},
	}, nil)
	sess := NewSession("conv", fixedNow)

	resp := engine.QuickBook(t.Context(), sess, request)

	assert.Equal(t, StepCollectPatientDetails, resp.NextStep)
	assert.Equal(t, "I found a great Cardiology appointment for next Monday at 10am. I just need a few details to confirm.", resp.Message)
	require.Len(t, resp.Doctors, 1)
	assert.Equal(t, "doc1", resp.Doctors[0].ID)
	assert.Equal(t, "doc1", sess.State.DoctorID)
	assert.Equal(t, 1, extractor.callCount())
	assert.Len(t, sess.Transcript, 1)
}

func TestEngineQuickBookUsesClassifierForSymptoms(t *testing.T) {
	request := "rash, tomorrow at 3pm"
	classifier := &stubClassifier{specialty: "Dermatology"}
	engine, _ := testEngine(map[string]booking.Intent{
		request: {Kind: booking.IntentBookAppointment, Symptoms: "rash", DatePreference: "tomorrow", TimePreference: "3pm"},
	}, classifier)
	sess := NewSession("conv", fixedNow)

	resp := engine.QuickBook(t.Context(), sess, request)

	assert.Equal(t, StepCollectPatientDetails, resp.NextStep)
	assert.Equal(t, "doc2", sess.State.DoctorID)
	assert.Equal(t, "rash", sess.State.Symptoms)
	assert.Equal(t, []string{"rash"}, classifier.calls)
}

func TestEngineQuickBookFallsBackToAdvance(t *testing.T) {
	request := "I need to see someone"
	engine, extractor := testEngine(map[string]booking.Intent{
		request: {Kind: booking.IntentBookAppointment},
	}, nil)
	sess := NewSession("conv", fixedNow)

	resp := engine.QuickBook(t.Context(), sess, request)

	assert.Equal(t, "collect_specialty_or_symptoms", resp.NextStep)
	assert.Equal(t, 2, extractor.callCount())
	assert.Len(t, sess.Transcript, 1)
}

func TestEngineQuickBookWithoutDateStillPicksDoctor(t *testing.T) {
	request := "a dermatologist please"
	engine, _ := testEngine(map[string]booking.Intent{
		request: {Kind: booking.IntentBookAppointment, Specialty: "Dermatology"},
	}, nil)
	sess := NewSession("conv", fixedNow)

	resp := engine.QuickBook(t.Context(), sess, request)

	assert.Equal(t, "doc2", sess.State.DoctorID)
	assert.Equal(t, StepCollectPatientDetails, resp.NextStep)
	assert.Equal(t, "I found a great Dermatology appointment. I just need a few details to confirm.", resp.Message)

	// The regular flow then asks for the date it is missing.
	resp = engine.Advance(t.Context(), sess, "ok")
	assert.Equal(t, "collect_date", resp.NextStep)
}

func TestSessionTranscriptIsBounded(t *testing.T) {
	sess := NewSession("conv", fixedNow)
	for i := 0; i < maxTranscriptTurns+10; i++ {
		sess.record(fmt.Sprintf("msg %d", i), "reply", fixedNow)
	}
	require.Len(t, sess.Transcript, maxTranscriptTurns)
	assert.Equal(t, "msg 10", sess.Transcript[0].UserText)
}
