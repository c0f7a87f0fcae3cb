package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/wolfman30/doctor-booking-agent/internal/directory"
)

var (
	// ErrIncomplete is returned when a required slot is still unset.
	ErrIncomplete = errors.New("booking: form is incomplete")
	// ErrDoctorNotFound is returned when the chosen doctor is not in the directory.
	ErrDoctorNotFound = errors.New("booking: selected doctor not found")
)

// DoctorLookup resolves doctor ids. *directory.Directory satisfies it.
type DoctorLookup interface {
	Get(id string) (directory.Doctor, bool)
}

// Confirmation is the record produced by finalizing a complete form.
type Confirmation struct {
	AppointmentID string           `json:"appointment_id"`
	Doctor        directory.Doctor `json:"doctor"`
	Details       State            `json:"booking_details"`
	Message       string           `json:"message"`
	CreatedAt     time.Time        `json:"created_at"`
}

// AppointmentID derives the appointment identifier from a timestamp.
func AppointmentID(now time.Time) string {
	return "APT" + now.Format("20060102150405")
}

// Finalize turns a complete form into a confirmation. It does not modify the
// state; callers reset the form separately once the confirmation is delivered.
func Finalize(state State, doctors DoctorLookup, now time.Time) (Confirmation, error) {
	if !state.IsComplete() {
		return Confirmation{}, ErrIncomplete
	}
	doctor, ok := doctors.Get(state.DoctorID)
	if !ok {
		return Confirmation{}, fmt.Errorf("%w: %s", ErrDoctorNotFound, state.DoctorID)
	}

	conf := Confirmation{
		AppointmentID: AppointmentID(now),
		Doctor:        doctor,
		Details:       state,
		CreatedAt:     now,
	}
	msg, err := RenderConfirmation(conf)
	if err != nil {
		return Confirmation{}, err
	}
	conf.Message = msg
	return conf, nil
}
