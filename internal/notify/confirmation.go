package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/wolfman30/doctor-booking-agent/internal/booking"
	"github.com/wolfman30/doctor-booking-agent/pkg/logging"
)

// ErrNoRecipient is returned when a confirmation carries no patient email.
var ErrNoRecipient = errors.New("notify: confirmation has no patient email")

var confirmationHTML = template.Must(template.New("confirmation_email").Parse(`<h2>Your appointment is confirmed</h2>
<p>Hi {{.Details.PatientName}},</p>
<table>
<tr><td>Appointment ID</td><td>{{.AppointmentID}}</td></tr>
<tr><td>Doctor</td><td>{{.Doctor.Name}} ({{.Details.Specialty}})</td></tr>
<tr><td>Date</td><td>{{.Details.PreferredDate}}</td></tr>
<tr><td>Time</td><td>{{.Details.PreferredTime}}</td></tr>
<tr><td>Type</td><td>{{.Details.ConsultationType.Label}}</td></tr>
<tr><td>Fee</td><td>${{.Doctor.Fee}}</td></tr>
</table>
<p>Need to reschedule? Just reply to the assistant.</p>`))

// ConfirmationNotifier emails the patient once a booking is confirmed.
type ConfirmationNotifier struct {
	sender EmailSender
	logger *logging.Logger
}

func NewConfirmationNotifier(sender EmailSender, logger *logging.Logger) *ConfirmationNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	if sender == nil {
		sender = NewStubEmailSender(logger)
	}
	return &ConfirmationNotifier{sender: sender, logger: logger}
}

func (n *ConfirmationNotifier) Notify(ctx context.Context, conf booking.Confirmation) error {
	msg, err := ConfirmationEmail(conf)
	if err != nil {
		return err
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: send confirmation %s: %w", conf.AppointmentID, err)
	}
	n.logger.Info("confirmation email sent", "appointment_id", conf.AppointmentID)
	return nil
}

// ConfirmationEmail builds the patient email for a confirmation.
func ConfirmationEmail(conf booking.Confirmation) (EmailMessage, error) {
	to := strings.TrimSpace(conf.Details.PatientEmail)
	if to == "" {
		return EmailMessage{}, ErrNoRecipient
	}
	var html bytes.Buffer
	if err := confirmationHTML.Execute(&html, conf); err != nil {
		return EmailMessage{}, fmt.Errorf("notify: render confirmation: %w", err)
	}
	return EmailMessage{
		To:      to,
		ToName:  conf.Details.PatientName,
		Subject: fmt.Sprintf("Appointment %s confirmed with %s", conf.AppointmentID, conf.Doctor.Name),
		Body:    strings.TrimSpace(strings.ReplaceAll(conf.Message, "**", "")),
		HTML:    html.String(),
	}, nil
}
