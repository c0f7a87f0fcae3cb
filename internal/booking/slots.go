package booking

// Slot names a piece of the form the assistant may ask for.
type Slot string

const (
	SlotSpecialtyOrSymptoms Slot = "specialty_or_symptoms"
	SlotDoctorSelection     Slot = "doctor_selection"
	SlotDate                Slot = "date"
	SlotTime                Slot = "time"
	SlotPatientName         Slot = "patient_name"
	SlotPatientEmail        Slot = "patient_email"
	SlotPatientPhone        Slot = "patient_phone"
	SlotConsultationType    Slot = "consultation_type"
)

var questions = map[Slot]string{
	SlotSpecialtyOrSymptoms: "What brings you here today? You can describe your symptoms or tell me which type of specialist you'd like to see.",
	SlotDoctorSelection:     "Which doctor would you like to book an appointment with?",
	SlotDate:                "When would you like to schedule your appointment? You can say a specific date or a day like 'next Monday'.",
	SlotTime:                "What time works best for you? Morning, afternoon, or evening?",
	SlotPatientName:         "What's your full name?",
	SlotPatientEmail:        "What's your email address for appointment confirmation?",
	SlotPatientPhone:        "What's your phone number?",
	SlotConsultationType:    "Would you prefer a video consultation or in-person visit?",
}

// Question returns the clarifying question for a slot.
func Question(slot Slot) string {
	if q, ok := questions[slot]; ok {
		return q
	}
	return "Could you provide more information?"
}

// NextStep is the machine-readable step name for collecting a slot.
func (s Slot) NextStep() string {
	return "collect_" + string(s)
}

// MissingSlots lists the slots still to collect. Each slot only counts as
// missing once the one before it in the booking flow has been filled, so a
// fresh form reports just specialty_or_symptoms.
func (s State) MissingSlots() []Slot {
	var missing []Slot
	if s.Specialty == "" && s.Symptoms == "" {
		missing = append(missing, SlotSpecialtyOrSymptoms)
	}
	if s.Specialty != "" && s.DoctorID == "" {
		missing = append(missing, SlotDoctorSelection)
	}
	if s.DoctorID != "" && s.PreferredDate == "" {
		missing = append(missing, SlotDate)
	}
	if s.PreferredDate != "" && s.PreferredTime == "" {
		missing = append(missing, SlotTime)
	}
	if s.PreferredTime != "" && s.PatientName == "" {
		missing = append(missing, SlotPatientName)
	}
	if s.PatientName != "" && s.PatientEmail == "" {
		missing = append(missing, SlotPatientEmail)
	}
	if s.PatientEmail != "" && s.PatientPhone == "" {
		missing = append(missing, SlotPatientPhone)
	}
	return missing
}

// NextSlot returns the first missing slot, if any.
func (s State) NextSlot() (Slot, bool) {
	missing := s.MissingSlots()
	if len(missing) == 0 {
		return "", false
	}
	return missing[0], true
}
