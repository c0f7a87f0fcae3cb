package booking

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/wolfman30/doctor-booking-agent/internal/directory"
)

// MaxSuggestions caps how many doctors are listed in one reply.
const MaxSuggestions = 3

var funcs = template.FuncMap{
	"inc":  func(i int) int { return i + 1 },
	"join": strings.Join,
	"firstN": func(n int, items []string) []string {
		if len(items) > n {
			return items[:n]
		}
		return items
	},
}

var suggestionsTmpl = template.Must(template.New("suggestions").Funcs(funcs).Option("missingkey=error").Parse(
	`Great! I found {{.Total}} excellent {{.Specialty}} specialists for you:

{{range $i, $d := .Doctors}}{{inc $i}}. **{{$d.Name}}** - {{$d.Specialty}}
   ⭐ Rating: {{printf "%.1f" $d.Rating}}/5.0
   💰 Consultation Fee: ${{$d.Fee}}
   🗣️ Languages: {{join $d.Languages ", "}}
   📅 Available: {{join (firstN 3 $d.Availability) ", "}}

{{end}}Which doctor would you prefer? You can say the number or the doctor's name.`))

var confirmationTmpl = template.Must(template.New("confirmation").Funcs(funcs).Option("missingkey=error").Parse(
	`✅ **Appointment Confirmed!**

📋 **Appointment Details:**
- **ID:** {{.AppointmentID}}
- **Doctor:** {{.Doctor.Name}}
- **Specialty:** {{.Details.Specialty}}
- **Date:** {{.Details.PreferredDate}}
- **Time:** {{.Details.PreferredTime}}
- **Type:** {{.Details.ConsultationType.Label}}
- **Fee:** ${{.Doctor.Fee}}

👤 **Patient Information:**
- **Name:** {{.Details.PatientName}}
- **Email:** {{.Details.PatientEmail}}
- **Phone:** {{.Details.PatientPhone}}

📧 A confirmation email has been sent to {{.Details.PatientEmail}}.
📱 You'll receive SMS reminders 24 hours and 1 hour before your appointment.

Need to reschedule? Just let me know!`))

type suggestionsView struct {
	Total     int
	Specialty string
	Doctors   []directory.Doctor
}

// RenderSuggestions lists the top doctors and asks the user to pick one. The
// headline counts every match, not just the ones listed.
func RenderSuggestions(specialty string, doctors []directory.Doctor) (string, error) {
	view := suggestionsView{
		Total:     len(doctors),
		Specialty: specialty,
		Doctors:   TopDoctors(doctors),
	}
	return execute(suggestionsTmpl, view)
}

// RenderConfirmation renders the confirmation text for the patient.
func RenderConfirmation(conf Confirmation) (string, error) {
	return execute(confirmationTmpl, conf)
}

// TopDoctors truncates a ranked list to MaxSuggestions.
func TopDoctors(doctors []directory.Doctor) []directory.Doctor {
	if len(doctors) > MaxSuggestions {
		return doctors[:MaxSuggestions]
	}
	return doctors
}

// RenderTimeQuestion asks for a time, listing the doctor's slots when known.
func RenderTimeQuestion(doctor *directory.Doctor) string {
	q := Question(SlotTime)
	if doctor == nil || len(doctor.TimeSlots) == 0 {
		return q
	}
	return fmt.Sprintf("%s %s has openings at %s.", q, doctor.Name, strings.Join(doctor.TimeSlots, ", "))
}

// RenderQuickBookSummary describes an auto-selected appointment and asks for
// the patient's details.
func RenderQuickBookSummary(state State) string {
	var b strings.Builder
	b.WriteString("I found a great ")
	if state.Specialty != "" {
		b.WriteString(state.Specialty)
		b.WriteString(" ")
	}
	b.WriteString("appointment")
	if state.PreferredDate != "" {
		b.WriteString(" for ")
		b.WriteString(state.PreferredDate)
	}
	if state.PreferredTime != "" {
		b.WriteString(" at ")
		b.WriteString(state.PreferredTime)
	}
	b.WriteString(". I just need a few details to confirm.")
	return b.String()
}

func execute(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("booking: render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
