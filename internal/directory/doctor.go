package directory

import "strings"

// Doctor is an immutable provider record.
type Doctor struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Specialty    string   `json:"specialty"`
	Rating       float64  `json:"rating"`
	Fee          int      `json:"fee"`
	Availability []string `json:"availability"`
	TimeSlots    []string `json:"time_slots"`
	Languages    []string `json:"languages"`
}

// AvailableOn reports whether the doctor works on the named weekday.
func (d Doctor) AvailableOn(weekday string) bool {
	for _, day := range d.Availability {
		if strings.EqualFold(day, weekday) {
			return true
		}
	}
	return false
}

// DisplayName drops the honorific so names can be matched against free text.
func (d Doctor) DisplayName() string {
	name := strings.TrimSpace(d.Name)
	for {
		trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(name, "Dr."), "Dr "))
		if trimmed == name {
			return name
		}
		name = trimmed
	}
}

func (d Doctor) clone() Doctor {
	d.Availability = append([]string(nil), d.Availability...)
	d.TimeSlots = append([]string(nil), d.TimeSlots...)
	d.Languages = append([]string(nil), d.Languages...)
	return d
}

// Specialties is the closed list the specialty classifier chooses from.
var Specialties = []string{
	"Cardiology", "Dermatology", "Orthopedics", "Pediatrics",
	"Neurology", "General Medicine", "Gynecology", "ENT",
	"Ophthalmology", "Psychiatry",
}

// DefaultSpecialty is used when symptoms cannot be classified.
const DefaultSpecialty = "General Medicine"

// DefaultDoctors returns the built-in provider fixture.
func DefaultDoctors() []Doctor {
	return []Doctor{
		{
			ID:           "doc1",
			Name:         "Dr. Dr. Ranghaiah",
			Specialty:    "Cardiology",
			Rating:       4.9,
			Fee:          200,
			Availability: []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
			TimeSlots:    []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00"},
			Languages:    []string{"English", "Spanish"},
		},
		{
			ID:           "doc2",
			Name:         "Dr. James Chen",
			Specialty:    "Dermatology",
			Rating:       4.8,
			Fee:          150,
			Availability: []string{"Monday", "Wednesday", "Friday", "Saturday"},
			TimeSlots:    []string{"09:30", "10:30", "14:00", "15:00", "16:00"},
			Languages:    []string{"English", "Chinese"},
		},
		{
			ID:           "doc3",
			Name:         "Dr. Priya Sharma",
			Specialty:    "Pediatrics",
			Rating:       4.9,
			Fee:          120,
			Availability: []string{"Monday", "Tuesday", "Thursday", "Friday", "Saturday"},
			TimeSlots:    []string{"09:00", "10:00", "11:00", "14:30", "15:30", "16:30"},
			Languages:    []string{"English", "Hindi"},
		},
		{
			ID:           "doc4",
			Name:         "Dr. Robert Williams",
			Specialty:    "Orthopedics",
			Rating:       4.8,
			Fee:          180,
			Availability: []string{"Tuesday", "Wednesday", "Thursday", "Friday"},
			TimeSlots:    []string{"10:00", "11:00", "14:00", "15:00", "16:00"},
			Languages:    []string{"English"},
		},
		{
			ID:           "doc5",
			Name:         "Dr. Emily Rodriguez",
			Specialty:    "General Medicine",
			Rating:       4.9,
			Fee:          100,
			Availability: []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
			TimeSlots:    []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00", "17:00"},
			Languages:    []string{"English", "Spanish"},
		},
	}
}
