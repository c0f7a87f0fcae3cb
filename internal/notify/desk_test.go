package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/doctor-booking-agent/internal/booking"
)

func TestNewDeskNotifier_NilWithoutAddress(t *testing.T) {
	assert.Nil(t, NewDeskNotifier(&captureSender{}, "  ", nil))
}

func TestDeskNotifier_SendsSummary(t *testing.T) {
	sender := &captureSender{}
	n := NewDeskNotifier(sender, "desk@clinic.test", nil)
	conf := testConfirmation(t)
	conf.Details.Symptoms = "chest pain"

	require.NoError(t, n.Notify(context.Background(), conf))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "desk@clinic.test", msg.To)
	assert.Equal(t, "New appointment APT20250310090000: Asha <Rao> with Dr. Dr. Ranghaiah", msg.Subject)
	assert.Contains(t, msg.Body, "When: Monday at 10:00\n")
	assert.Contains(t, msg.Body, "Symptoms: chest pain\n")
	assert.Contains(t, msg.HTML, "Asha &lt;Rao&gt;")
	assert.Contains(t, msg.HTML, `<a href="tel:555">555</a>`)
}

func TestFormatDeskSummaryFillsBlanks(t *testing.T) {
	summary := FormatDeskSummary(booking.Confirmation{AppointmentID: "APT1"})
	assert.Contains(t, summary, "Patient: N/A\n")
	assert.Contains(t, summary, "When: N/A\n")
	assert.NotContains(t, summary, "Email:")
}

func TestDeskNotifier_WrapsSendError(t *testing.T) {
	sendErr := errors.New("smtp down")
	n := NewDeskNotifier(&captureSender{err: sendErr}, "desk@clinic.test", nil)
	assert.ErrorIs(t, n.Notify(context.Background(), testConfirmation(t)), sendErr)
}

func TestMultiNotifier(t *testing.T) {
	patient := &captureSender{}
	desk := &captureSender{err: errors.New("desk inbox full")}
	var missingDesk *DeskNotifier

	m := Multi(NewConfirmationNotifier(patient, nil), nil, missingDesk, NewDeskNotifier(desk, "desk@clinic.test", nil))
	require.Len(t, m, 2)

	err := m.Notify(context.Background(), testConfirmation(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "desk inbox full")
	assert.Len(t, patient.sent, 1, "patient email still goes out when the desk fails")
	assert.Len(t, desk.sent, 1)

	assert.NoError(t, Multi().Notify(context.Background(), testConfirmation(t)))
}
