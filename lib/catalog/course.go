package catalog

import (
	"strconv"
	"strings"
)

type Quarter string

const (
	Autumn         Quarter = "Aut"
	Winter         Quarter = "Win"
	Spring         Quarter = "Spr"
	Summer         Quarter = "Sum"
	UnknownQuarter Quarter = "Unknown"
)

// Quarters is the fixed academic quarter order used for output columns.
var Quarters = []Quarter{Autumn, Winter, Spring, Summer}

var quarterSeasons = map[Quarter]string{
	Autumn: "Autumn",
	Winter: "Winter",
	Spring: "Spring",
	Summer: "Summer",
}

// Season returns the human readable season name, "Unknown" for
// anything outside the four academic quarters.
func (q Quarter) Season() string {
	season, ok := quarterSeasons[q]
	if !ok {
		return string(UnknownQuarter)
	}
	return season
}

// QuarterFromSeason maps a season name ("Autumn") to its abbreviation.
func QuarterFromSeason(season string) Quarter {
	season = strings.TrimSpace(season)
	for q, name := range quarterSeasons {
		if name == season {
			return q
		}
	}
	return UnknownQuarter
}

// RawCourse is everything extracted from one course block, before an id
// has been assigned.
type RawCourse struct {
	// listing page index and the block's position on that page
	Page  int
	Block int

	Department  string
	Number      string
	Title       string
	Description string
	MinUnits    int
	MaxUnits    int
	Ways        []string
	Gers        []string
	Terms       []string
	Enrollment  map[Quarter]int
}

// Course is the canonical output record.
type Course struct {
	ID          int
	Department  string
	Number      string
	Title       string
	Description string
	MinUnits    int
	MaxUnits    int
	Ways        []string
	Gers        []string
	// nil when the catalog does not state terms
	Terms []string
	// a quarter missing from this map is not offered, it is never zero
	Enrollment map[Quarter]int
}

// FullName is the combined "DEPT NUMBER" form of the course.
func (c Course) FullName() string {
	if c.Department == "" {
		return c.Number
	}
	return c.Department + " " + c.Number
}

// Units renders the unit range the way the catalog writes it.
func (c Course) Units() string {
	if c.MinUnits == c.MaxUnits {
		return strconv.Itoa(c.MinUnits)
	}
	return strconv.Itoa(c.MinUnits) + "-" + strconv.Itoa(c.MaxUnits)
}

// Tagged reports whether the course carries at least one WAYS or GER code.
func (c Course) Tagged() bool {
	return len(c.Ways) > 0 || len(c.Gers) > 0
}

// EnrollmentIn returns the total enrollment for a quarter and whether the
// course has schedule data for it.
func (c Course) EnrollmentIn(q Quarter) (int, bool) {
	n, ok := c.Enrollment[q]
	return n, ok
}

// MissingIdentity lists identity fields that came out empty.
func (c Course) MissingIdentity() []string {
	var missing []string
	if c.Department == "" {
		missing = append(missing, "department")
	}
	if c.Number == "" {
		missing = append(missing, "number")
	}
	if c.Title == "" {
		missing = append(missing, "title")
	}
	return missing
}
