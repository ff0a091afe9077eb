package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssembleAssignsDenseIds(t *testing.T) {
	seq := NewSequence(1)
	raws := []RawCourse{
		{Department: "CS", Number: "1", Ways: []string{"FR"}},
		{Department: "ME", Number: "398"},
		{Department: "PHIL", Number: "2", Gers: []string{"DB-Hum"}},
	}

	var courses []Course
	for _, raw := range raws {
		courses = append(courses, Assemble(raw, seq))
	}
	require.Equal(t, 1, courses[0].ID)
	require.Equal(t, 2, courses[1].ID)
	require.Equal(t, 3, courses[2].ID)
	require.Equal(t, 4, seq.Peek())

	tagged := FilterTagged(courses)
	require.Len(t, tagged, 2)
	require.Equal(t, 1, tagged[0].ID)
	// the untagged course still consumed id 2
	require.Equal(t, 3, tagged[1].ID)
}

func TestAssembleCopies(t *testing.T) {
	raw := RawCourse{
		Department: "CS",
		Number:     "106A",
		MinUnits:   3,
		MaxUnits:   5,
		Ways:       []string{"FR"},
		Terms:      []string{"Aut"},
		Enrollment: map[Quarter]int{Autumn: 10},
	}
	course := Assemble(raw, NewSequence(7))

	raw.Ways[0] = "SI"
	raw.Terms[0] = "Win"
	raw.Enrollment[Autumn] = 99

	require.Equal(t, 7, course.ID)
	require.Equal(t, []string{"FR"}, course.Ways)
	require.Equal(t, []string{}, course.Gers)
	require.Equal(t, []string{"Aut"}, course.Terms)
	require.Equal(t, map[Quarter]int{Autumn: 10}, course.Enrollment)
	require.Equal(t, "3-5", course.Units())
	require.Equal(t, "CS 106A", course.FullName())
}

func TestCourseHelpers(t *testing.T) {
	course := Course{Number: "5", MinUnits: 4, MaxUnits: 4, Enrollment: map[Quarter]int{Spring: 0}}
	require.Equal(t, "4", course.Units())
	require.Equal(t, "5", course.FullName())
	require.False(t, course.Tagged())
	require.Equal(t, []string{"department", "title"}, course.MissingIdentity())

	n, ok := course.EnrollmentIn(Spring)
	require.True(t, ok)
	require.Equal(t, 0, n)
	_, ok = course.EnrollmentIn(Autumn)
	require.False(t, ok)

	require.Equal(t, "Autumn", Autumn.Season())
	require.Equal(t, "Unknown", Quarter("Fall").Season())
	require.Equal(t, Winter, QuarterFromSeason("Winter"))
	require.Equal(t, UnknownQuarter, QuarterFromSeason("Fall"))
}
