// Package directory holds the read-only set of bookable doctors.
package directory

import (
	"sort"
	"strconv"
	"strings"
)

// Directory is a read-only provider list. It is safe for concurrent use.
type Directory struct {
	doctors []Doctor
	byID    map[string]int
}

// New builds a directory from the given records, preserving their order.
func New(doctors []Doctor) *Directory {
	d := &Directory{
		doctors: make([]Doctor, 0, len(doctors)),
		byID:    make(map[string]int, len(doctors)),
	}
	for _, doc := range doctors {
		d.byID[doc.ID] = len(d.doctors)
		d.doctors = append(d.doctors, doc.clone())
	}
	return d
}

// Default returns a directory loaded with the built-in fixture.
func Default() *Directory {
	return New(DefaultDoctors())
}

// All returns every doctor in directory order.
func (d *Directory) All() []Doctor {
	out := make([]Doctor, 0, len(d.doctors))
	for _, doc := range d.doctors {
		out = append(out, doc.clone())
	}
	return out
}

// Get looks up a doctor by id.
func (d *Directory) Get(id string) (Doctor, bool) {
	idx, ok := d.byID[strings.TrimSpace(id)]
	if !ok {
		return Doctor{}, false
	}
	return d.doctors[idx].clone(), true
}

// FindDoctors filters by specialty (case-insensitive exact match) and by the
// weekday a free-text date resolves to, then orders by rating descending.
// Ties keep directory order. Empty criteria are ignored.
func (d *Directory) FindDoctors(specialty, date string) []Doctor {
	specialty = strings.TrimSpace(specialty)
	date = strings.TrimSpace(date)

	weekday := ""
	if date != "" {
		weekday = ResolveWeekday(date)
	}

	out := make([]Doctor, 0, len(d.doctors))
	for _, doc := range d.doctors {
		if specialty != "" && !strings.EqualFold(doc.Specialty, specialty) {
			continue
		}
		if weekday != "" && !doc.AvailableOn(weekday) {
			continue
		}
		out = append(out, doc.clone())
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rating > out[j].Rating
	})
	return out
}

var ordinals = map[string]int{
	"first":  1,
	"1st":    1,
	"second": 2,
	"2nd":    2,
	"third":  3,
	"3rd":    3,
	"fourth": 4,
	"4th":    4,
	"fifth":  5,
	"5th":    5,
}

// MatchDoctor resolves a user's pick against a candidate list. The pick may be
// a 1-based option number ("2", "option 2", "#2"), an ordinal ("the first one")
// or part of the doctor's name with or without the "Dr." prefix.
func MatchDoctor(pref string, candidates []Doctor) (Doctor, bool) {
	pref = strings.ToLower(strings.TrimSpace(pref))
	if pref == "" || len(candidates) == 0 {
		return Doctor{}, false
	}

	if n, ok := optionNumber(pref); ok {
		if n >= 1 && n <= len(candidates) {
			return candidates[n-1], true
		}
		return Doctor{}, false
	}
	return MatchDoctorName(pref, candidates)
}

// MatchDoctorName is MatchDoctor without option numbers, for lists the user
// has not been shown.
func MatchDoctorName(pref string, candidates []Doctor) (Doctor, bool) {
	pref = strings.ToLower(strings.TrimSpace(pref))
	name := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(pref, "dr."), "dr "))
	if len(name) < 3 {
		return Doctor{}, false
	}
	for _, doc := range candidates {
		short := strings.ToLower(doc.DisplayName())
		if name == short || strings.Contains(short, name) || strings.Contains(name, short) {
			return doc, true
		}
	}

	// Last resort: any single name token ("Chen", "Priya").
	for _, doc := range candidates {
		for _, token := range strings.Fields(strings.ToLower(doc.DisplayName())) {
			if len(token) > 2 && strings.Contains(name, token) {
				return doc, true
			}
		}
	}
	return Doctor{}, false
}

func optionNumber(pref string) (int, bool) {
	cleaned := strings.NewReplacer("#", " ", "option", " ", "number", " ", "no.", " ", "the", " ", "one", " ").Replace(pref)
	cleaned = strings.TrimSpace(cleaned)
	if n, err := strconv.Atoi(cleaned); err == nil {
		return n, true
	}
	for word, n := range ordinals {
		if cleaned == word {
			return n, true
		}
	}
	return 0, false
}

// Specialties lists the distinct specialties offered, in directory order.
func (d *Directory) Specialties() []string {
	seen := make(map[string]struct{}, len(d.doctors))
	out := make([]string, 0, len(d.doctors))
	for _, doc := range d.doctors {
		if _, ok := seen[doc.Specialty]; ok {
			continue
		}
		seen[doc.Specialty] = struct{}{}
		out = append(out, doc.Specialty)
	}
	return out
}
