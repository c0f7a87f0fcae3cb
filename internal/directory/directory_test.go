package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(doctors []Doctor) []string {
	out := make([]string, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, d.ID)
	}
	return out
}

func TestFindDoctorsNoCriteriaSortsByRatingStable(t *testing.T) {
	dir := Default()

	got := dir.FindDoctors("", "")

	// 4.9 ties keep fixture order (doc1, doc3, doc5), then the 4.8 ties (doc2, doc4).
	assert.Equal(t, []string{"doc1", "doc3", "doc5", "doc2", "doc4"}, ids(got))
}

func TestFindDoctorsBySpecialtyIsCaseInsensitiveExact(t *testing.T) {
	dir := Default()

	got := dir.FindDoctors("cardiology", "")
	require.Len(t, got, 1)
	assert.Equal(t, "Cardiology", got[0].Specialty)

	assert.Empty(t, dir.FindDoctors("Cardio", ""), "substring must not match")
	assert.Empty(t, dir.FindDoctors("Neurology", ""))
}

func TestFindDoctorsByDate(t *testing.T) {
	dir := Default()

	tests := []struct {
		name string
		date string
		want []string
	}{
		{"saturday name", "this saturday", []string{"doc3", "doc2"}},
		{"iso monday", "2025-03-10", []string{"doc1", "doc3", "doc5", "doc2"}},
		{"unparsable defaults to monday", "soon", []string{"doc1", "doc3", "doc5", "doc2"}},
		{"sunday nobody", "Sunday", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(dir.FindDoctors("", tt.date)))
		})
	}
}

func TestFindDoctorsCombinedCriteria(t *testing.T) {
	dir := Default()

	assert.Equal(t, []string{"doc4"}, ids(dir.FindDoctors("Orthopedics", "tuesday")))
	assert.Empty(t, dir.FindDoctors("Orthopedics", "monday"))
}

func TestFindDoctorsReturnsCopies(t *testing.T) {
	dir := Default()

	got := dir.FindDoctors("Cardiology", "")
	got[0].Name = "changed"
	got[0].Availability[0] = "Sunday"

	again, ok := dir.Get("doc1")
	require.True(t, ok)
	assert.Equal(t, "Dr. Dr. Ranghaiah", again.Name)
	assert.Equal(t, "Monday", again.Availability[0])
}

func TestGet(t *testing.T) {
	dir := Default()

	doc, ok := dir.Get(" doc2 ")
	require.True(t, ok)
	assert.Equal(t, "Dr. James Chen", doc.Name)

	_, ok = dir.Get("doc99")
	assert.False(t, ok)
}

func TestAllKeepsDirectoryOrder(t *testing.T) {
	assert.Equal(t, []string{"doc1", "doc2", "doc3", "doc4", "doc5"}, ids(Default().All()))
}

func TestResolveWeekday(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-03-10", "Monday"},
		{"2025-3-11", "Tuesday"},
		{"14/03/2025", "Friday"},
		{"03/13/2025", "Thursday"},
		{"next tuesday", "Tuesday"},
		{"THURSDAY afternoon", "Thursday"},
		{"soon", "Monday"},
		{"", "Monday"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveWeekday(tt.in))
		})
	}
}

func TestMatchDoctor(t *testing.T) {
	candidates := Default().FindDoctors("", "")

	tests := []struct {
		name   string
		pref   string
		wantID string
		wantOK bool
	}{
		{"number", "2", "doc3", true},
		{"option number", "option 3", "doc5", true},
		{"hash number", "#1", "doc1", true},
		{"ordinal", "the second one", "doc3", true},
		{"out of range", "9", "", false},
		{"full name", "Dr. James Chen", "doc2", true},
		{"surname", "chen", "doc2", true},
		{"first name in sentence", "I'd like to see Priya please", "doc3", true},
		{"double honorific", "Dr. Ranghaiah", "doc1", true},
		{"honorific only", "dr.", "", false},
		{"unknown", "Dr. House", "", false},
		{"empty", "  ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, ok := MatchDoctor(tt.pref, candidates)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, doc.ID)
			}
		})
	}
}

func TestDoctorDisplayName(t *testing.T) {
	assert.Equal(t, "Ranghaiah", Doctor{Name: "Dr. Dr. Ranghaiah"}.DisplayName())
	assert.Equal(t, "Emily Rodriguez", Doctor{Name: "Dr. Emily Rodriguez"}.DisplayName())
	assert.Equal(t, "Nurse Joy", Doctor{Name: "Nurse Joy"}.DisplayName())
}

func TestSpecialtiesAreDistinctInDirectoryOrder(t *testing.T) {
	dir := New(append(DefaultDoctors(), Doctor{ID: "doc6", Name: "Dr. Ana Lopez", Specialty: "Cardiology"}))
	assert.Equal(t, []string{"Cardiology", "Dermatology", "Pediatrics", "Orthopedics", "General Medicine"}, dir.Specialties())
}

func TestMatchDoctorNameIgnoresOptionNumbers(t *testing.T) {
	candidates := Default().All()

	_, ok := MatchDoctorName("2", candidates)
	assert.False(t, ok)

	doc, ok := MatchDoctorName("dr robert williams", candidates)
	require.True(t, ok)
	assert.Equal(t, "doc4", doc.ID)
}
