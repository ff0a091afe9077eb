package catalog

import (
	"maps"
	"slices"
)

// Sequence hands out course ids. it is owned by whoever assembles a run
// and is never shared between runs.
type Sequence struct {
	next int
}

func NewSequence(start int) *Sequence {
	return &Sequence{next: start}
}

func (s *Sequence) Next() int {
	id := s.next
	s.next++
	return id
}

// Peek returns the id the next call to Next will hand out.
func (s *Sequence) Peek() int {
	return s.next
}

// Assemble turns an extracted block into a Course, consuming exactly one
// id from `seq`. the course owns copies of every slice and map.
func Assemble(raw RawCourse, seq *Sequence) Course {
	ways := slices.Clone(raw.Ways)
	if ways == nil {
		ways = []string{}
	}
	gers := slices.Clone(raw.Gers)
	if gers == nil {
		gers = []string{}
	}
	enrollment := maps.Clone(raw.Enrollment)
	if enrollment == nil {
		enrollment = map[Quarter]int{}
	}

	return Course{
		ID:          seq.Next(),
		Department:  raw.Department,
		Number:      raw.Number,
		Title:       raw.Title,
		Description: raw.Description,
		MinUnits:    raw.MinUnits,
		MaxUnits:    raw.MaxUnits,
		Ways:        ways,
		Gers:        gers,
		Terms:       slices.Clone(raw.Terms),
		Enrollment:  enrollment,
	}
}

// FilterTagged keeps only courses with at least one WAYS or GER code.
func FilterTagged(courses []Course) []Course {
	tagged := make([]Course, 0, len(courses))
	for _, c := range courses {
		if c.Tagged() {
			tagged = append(tagged, c)
		}
	}
	return tagged
}
