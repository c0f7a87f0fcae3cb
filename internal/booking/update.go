package booking

// Update is a set of slot values to merge into a State. Empty fields are
// ignored by Apply.
type Update struct {
	Specialty        string
	Symptoms         string
	PreferredDate    string
	PreferredTime    string
	DoctorID         string
	PatientName      string
	PatientEmail     string
	PatientPhone     string
	ConsultationType ConsultationType
}

// UpdateFromIntent maps the extracted slot fields. The doctor preference is
// resolved against the directory by the caller; additional info is free text
// and never touches the form.
func UpdateFromIntent(in Intent) Update {
	return Update{
		Specialty:        in.Specialty.String(),
		Symptoms:         in.Symptoms.String(),
		PreferredDate:    in.DatePreference.String(),
		PreferredTime:    in.TimePreference.String(),
		PatientName:      in.Patient.Name.String(),
		PatientEmail:     in.Patient.Email.String(),
		PatientPhone:     in.Patient.Phone.String(),
		ConsultationType: ParseConsultationType(in.ConsultationType.String()),
	}
}

// IsEmpty reports whether the update would change nothing.
func (u Update) IsEmpty() bool {
	return u == Update{}
}

// Apply merges the non-empty fields of u. A set slot is never cleared.
// It reports whether any slot changed.
func (s *State) Apply(u Update) bool {
	before := *s
	set(&s.Specialty, u.Specialty)
	set(&s.Symptoms, u.Symptoms)
	set(&s.PreferredDate, u.PreferredDate)
	set(&s.PreferredTime, u.PreferredTime)
	set(&s.DoctorID, u.DoctorID)
	set(&s.PatientName, u.PatientName)
	set(&s.PatientEmail, u.PatientEmail)
	set(&s.PatientPhone, u.PatientPhone)
	if u.ConsultationType != ConsultationUnset {
		s.ConsultationType = u.ConsultationType
	}
	return *s != before
}

func set(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
