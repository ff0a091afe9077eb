package catalog

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func readPage(t testing.TB) string {
	contents, err := os.ReadFile("testdata/page.html")
	if err != nil {
		t.Fatal(err)
	}
	return string(contents)
}

func TestExtractPage(t *testing.T) {
	courses, err := ExtractPage(readPage(t))
	require.NoError(t, err)

	expected := []RawCourse{
		{
			Block:       0,
			Department:  "CS",
			Number:      "106A",
			Title:       "Programming Methodology",
			Description: "Introduction to the engineering of computer applications emphasizing modern software engineering principles.",
			MinUnits:    3,
			MaxUnits:    5,
			Ways:        []string{"FR", "AQR"},
			Gers:        []string{"DB-EngrAppSci"},
			Terms:       []string{"Aut", "Win", "Spr"},
			Enrollment:  map[Quarter]int{Autumn: 75, Winter: 300},
		},
		{
			Block:       1,
			Department:  "PHIL",
			Number:      "2",
			Title:       "Introduction to Moral Philosophy",
			Description: "What is the basis of moral judgment?",
			MinUnits:    5,
			MaxUnits:    5,
			Ways:        []string{"ER", "A-II"},
			Gers:        []string{"DB-Hum", "EC-EthicReas"},
			Terms:       []string{"Spr"},
			Enrollment:  map[Quarter]int{Spring: 33},
		},
		{
			Block:       2,
			Department:  "ME",
			Number:      "398",
			Title:       "Research",
			Description: "Independent research.",
			MinUnits:    1,
			MaxUnits:    15,
			Ways:        []string{},
			Gers:        []string{},
			Enrollment:  map[Quarter]int{},
		},
	}

	diff := cmp.Diff(expected, courses)
	require.Empty(t, diff)
}

func TestBlocksStopsEarly(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(readPage(t)))
	require.NoError(t, err)

	var visited []int
	for i := range Blocks(doc) {
		visited = append(visited, i)
		if i == 1 {
			break
		}
	}
	require.Equal(t, []int{0, 1}, visited)
}

func TestExtractPageWithoutCourses(t *testing.T) {
	courses, err := ExtractPage(`<html><body><p>No results</p></body></html>`)
	require.NoError(t, err)
	require.Empty(t, courses)
}

func TestExtractMissingUnits(t *testing.T) {
	markup := `
		<div class="courseInfo">
			<span class="courseNumber">HIST 1:</span>
			<span class="courseTitle">History</span>
			<div class="courseDescription">Past events.</div>
			<div class="courseAttributes">Terms: Aut | UG Reqs: WAY-SI</div>
		</div>`

	_, err := ExtractPage(markup)
	require.Error(t, err)

	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "units", missing.Field)
	require.Equal(t, 0, missing.Block)
	require.Equal(t, "HIST 1", missing.Course)
	require.Equal(t, []string{"Terms: Aut | UG Reqs: WAY-SI"}, missing.Fragments)
	require.Contains(t, err.Error(), "HIST 1")
}

func TestExtractInvalidUnits(t *testing.T) {
	markup := `
		<div class="courseInfo">
			<span class="courseNumber">HIST 2:</span>
			<span class="courseTitle">History</span>
			<div class="courseDescription">Past events.</div>
			<div class="courseAttributes">Units: TBD</div>
		</div>`

	_, err := ExtractPage(markup)
	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	require.Error(t, missing.Unwrap())
}

func TestExtractMissingStructure(t *testing.T) {
	markup := `
		<div class="courseInfo">
			<span class="courseNumber">HIST 3:</span>
			<div class="courseDescription">Past events.</div>
			<div class="courseAttributes">Units: 3</div>
		</div>`

	_, err := ExtractPage(markup)
	var structural *StructureError
	require.True(t, errors.As(err, &structural))
	require.Equal(t, ".courseTitle", structural.Selector)
}

func TestIdentityFields(t *testing.T) {
	require.Equal(t, "CS 106A", ParseFullName("  CS 106A: "))
	require.Equal(t, "CS 106A", ParseFullName("CS 106A"))

	testCases := []struct {
		fullName   string
		department string
		number     string
	}{
		{fullName: "CS 106A", department: "CS", number: "106A"},
		{fullName: "EARTHSYS 10 ", department: "EARTHSYS", number: "10"},
		{fullName: "MS&E  180", department: "MS&E", number: "180"},
		{fullName: "ORPHAN", department: "", number: "ORPHAN"},
	}
	for _, test := range testCases {
		department, number := SplitFullName(test.fullName)
		require.Equal(t, test.department, department, test.fullName)
		require.Equal(t, test.number, number, test.fullName)
	}

	require.Equal(t, "Programming Methodology", ParseTitle("Programming Methodology (ENGR 70A)"))
	require.Equal(t, "Plain Title", ParseTitle("Plain Title"))
	require.Equal(t, "", ParseTitle("(CS 1)"))

	require.Equal(t, "one two three  four", ParseDescription("one\ntwo\r\nthree  four"))
}
