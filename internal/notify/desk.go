package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/wolfman30/doctor-booking-agent/internal/booking"
	"github.com/wolfman30/doctor-booking-agent/pkg/logging"
)

// Notifier delivers one confirmation. conversation.Notifier has the same shape.
type Notifier interface {
	Notify(ctx context.Context, conf booking.Confirmation) error
}

// DeskNotifier emails the clinic front desk a summary of every confirmed
// appointment so staff can prepare the visit.
type DeskNotifier struct {
	sender EmailSender
	to     string
	logger *logging.Logger
}

// NewDeskNotifier returns nil when no desk address is configured.
func NewDeskNotifier(sender EmailSender, deskEmail string, logger *logging.Logger) *DeskNotifier {
	deskEmail = strings.TrimSpace(deskEmail)
	if deskEmail == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if sender == nil {
		sender = NewStubEmailSender(logger)
	}
	return &DeskNotifier{sender: sender, to: deskEmail, logger: logger}
}

func (n *DeskNotifier) Notify(ctx context.Context, conf booking.Confirmation) error {
	msg := EmailMessage{
		To:      n.to,
		ToName:  "Front Desk",
		Subject: fmt.Sprintf("New appointment %s: %s with %s", conf.AppointmentID, valueOrNA(conf.Details.PatientName), conf.Doctor.Name),
		Body:    FormatDeskSummary(conf),
		HTML:    FormatDeskSummaryHTML(conf),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		n.logger.Error("desk notification failed",
			"error", err,
			"appointment_id", conf.AppointmentID,
			"to", n.to,
		)
		return fmt.Errorf("notify: desk summary %s: %w", conf.AppointmentID, err)
	}
	n.logger.Info("desk notification sent", "appointment_id", conf.AppointmentID, "to", n.to)
	return nil
}

// FormatDeskSummary generates the plain-text appointment summary for staff.
func FormatDeskSummary(conf booking.Confirmation) string {
	d := conf.Details
	var b strings.Builder

	fmt.Fprintf(&b, "Appointment: %s\n", conf.AppointmentID)
	fmt.Fprintf(&b, "Patient: %s\n", valueOrNA(d.PatientName))
	fmt.Fprintf(&b, "Phone: %s\n", valueOrNA(d.PatientPhone))
	if d.PatientEmail != "" {
		fmt.Fprintf(&b, "Email: %s\n", d.PatientEmail)
	}
	fmt.Fprintf(&b, "Doctor: %s (%s)\n", conf.Doctor.Name, valueOrNA(d.Specialty))
	fmt.Fprintf(&b, "When: %s\n", scheduleOf(d))
	fmt.Fprintf(&b, "Type: %s\n", d.ConsultationType.Label())
	if d.Symptoms != "" {
		fmt.Fprintf(&b, "Symptoms: %s\n", d.Symptoms)
	}
	fmt.Fprintf(&b, "Booked: %s\n", conf.CreatedAt.Format(time.RFC1123))

	return b.String()
}

// FormatDeskSummaryHTML generates the HTML appointment summary for staff email.
func FormatDeskSummaryHTML(conf booking.Confirmation) string {
	d := conf.Details
	row := func(label, value string) string {
		return fmt.Sprintf(`<tr><td style="padding:6px 12px;font-weight:bold;">%s</td><td style="padding:6px 12px;">%s</td></tr>`,
			label, html.EscapeString(value))
	}

	var b strings.Builder
	b.WriteString(`<div style="font-family:sans-serif;max-width:600px;">
<h2 style="color:#333;">New Appointment</h2>
<table style="border-collapse:collapse;width:100%;">
`)
	b.WriteString(row("Appointment", conf.AppointmentID) + "\n")
	b.WriteString(row("Patient", valueOrNA(d.PatientName)) + "\n")
	b.WriteString(fmt.Sprintf(`<tr><td style="padding:6px 12px;font-weight:bold;">Phone</td><td style="padding:6px 12px;"><a href="tel:%s">%s</a></td></tr>`,
		html.EscapeString(d.PatientPhone), html.EscapeString(valueOrNA(d.PatientPhone))) + "\n")
	if d.PatientEmail != "" {
		b.WriteString(row("Email", d.PatientEmail) + "\n")
	}
	b.WriteString(row("Doctor", conf.Doctor.Name) + "\n")
	b.WriteString(row("When", scheduleOf(d)) + "\n")
	b.WriteString(row("Type", d.ConsultationType.Label()) + "\n")
	if d.Symptoms != "" {
		b.WriteString(row("Symptoms", d.Symptoms) + "\n")
	}
	b.WriteString(`</table>
<p style="color:#666;font-size:12px;">Booked by the appointment assistant.</p>
</div>`)
	return b.String()
}

func scheduleOf(d booking.State) string {
	var parts []string
	if d.PreferredDate != "" {
		parts = append(parts, d.PreferredDate)
	}
	if d.PreferredTime != "" {
		parts = append(parts, d.PreferredTime)
	}
	return valueOrNA(strings.Join(parts, " at "))
}

func valueOrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// MultiNotifier fans a confirmation out to several notifiers. Every notifier
// is attempted; failures are joined.
type MultiNotifier []Notifier

// Multi drops nil notifiers, including typed nils from optional constructors.
func Multi(notifiers ...Notifier) MultiNotifier {
	out := make(MultiNotifier, 0, len(notifiers))
	for _, n := range notifiers {
		switch v := n.(type) {
		case nil:
		case *DeskNotifier:
			if v != nil {
				out = append(out, v)
			}
		case *ConfirmationNotifier:
			if v != nil {
				out = append(out, v)
			}
		default:
			out = append(out, n)
		}
	}
	return out
}

func (m MultiNotifier) Notify(ctx context.Context, conf booking.Confirmation) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, conf); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
