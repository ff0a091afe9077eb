package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAttributesScenario(t *testing.T) {
	attrs := ParseAttributes([]string{"WAY-ER WAY-SI GER:DB-Hum Units: 3-5 Terms: Aut, Win"})

	require.Equal(t, []string{"ER", "SI"}, attrs.Ways)
	require.Equal(t, []string{"DB-Hum"}, attrs.Gers)
	require.Equal(t, "3-5", attrs.Units)
	require.Equal(t, []string{"Aut", "Win"}, attrs.Terms)

	min, max, err := ParseUnits(attrs.Units)
	require.NoError(t, err)
	require.Equal(t, 3, min)
	require.Equal(t, 5, max)
}

func TestParseAttributesAccumulation(t *testing.T) {
	testCases := []struct {
		name      string
		fragments []string
		ways      []string
		gers      []string
		units     string
		terms     []string
	}{
		{
			name:      "no fragments",
			fragments: nil,
			ways:      []string{},
			gers:      []string{},
		},
		{
			name:      "no codes",
			fragments: []string{"Units: 1-15 | Grading: Satisfactory/No Credit"},
			ways:      []string{},
			gers:      []string{},
			units:     "1-15",
		},
		{
			name: "codes accumulate across fragments without duplicates",
			fragments: []string{
				"WAY-SI, WAY-ER, WAY-SI",
				"GER:EC-Gender WAY-ER WAY-A-II",
				"GER:DB-SocSci GER:EC-Gender",
			},
			ways: []string{"SI", "ER", "A-II"},
			gers: []string{"EC-Gender", "DB-SocSci"},
		},
		{
			name: "first units and terms win",
			fragments: []string{
				"Instructors: Someone",
				"Terms: Spr | Units: 4",
				"Terms: Aut, Win | Units: 1-2",
			},
			ways:  []string{},
			gers:  []string{},
			units: "4",
			terms: []string{"Spr"},
		},
		{
			name:      "units stop at a separator",
			fragments: []string{"Units: 2|Grading: Letter"},
			ways:      []string{},
			gers:      []string{},
			units:     "2",
		},
		{
			name:      "trailing comma in terms",
			fragments: []string{"Terms: Aut, Sum, | Units: 3"},
			ways:      []string{},
			gers:      []string{},
			units:     "3",
			terms:     []string{"Aut", "Sum"},
		},
		{
			name:      "unknown codes are ignored",
			fragments: []string{"WAY-XYZ GER:DB-Art WAY-SMA"},
			ways:      []string{"SMA"},
			gers:      []string{},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			attrs := ParseAttributes(test.fragments)
			require.Equal(t, test.ways, attrs.Ways)
			require.Equal(t, test.gers, attrs.Gers)
			require.Equal(t, test.units, attrs.Units)
			require.Equal(t, test.terms, attrs.Terms)
		})
	}
}

func TestEveryCodeIsRecognized(t *testing.T) {
	for _, code := range WaysCodes {
		attrs := ParseAttributes([]string{"UG Reqs: WAY-" + code.Code + " | Units: 3"})
		require.Equal(t, []string{code.Code}, attrs.Ways, code.Name)
		require.Empty(t, attrs.Gers)
	}
	for _, code := range GerCodes {
		attrs := ParseAttributes([]string{"UG Reqs: GER:" + code.Code + " | Units: 3"})
		require.Equal(t, []string{code.Code}, attrs.Gers, code.Name)
		require.Empty(t, attrs.Ways)
	}
}

func TestParseUnits(t *testing.T) {
	testCases := []struct {
		units string
		min   int
		max   int
		fails bool
	}{
		{units: "5", min: 5, max: 5},
		{units: "0", min: 0, max: 0},
		{units: "3-5", min: 3, max: 5},
		{units: "1 - 15", min: 1, max: 15},
		{units: "12-12", min: 12, max: 12},
		{units: "", fails: true},
		{units: "five", fails: true},
		{units: "5-3", fails: true},
		{units: "-3", fails: true},
		{units: "2-", fails: true},
	}

	for _, test := range testCases {
		min, max, err := ParseUnits(test.units)
		if test.fails {
			require.Error(t, err, test.units)
			continue
		}
		require.NoError(t, err, test.units)
		require.Equal(t, test.min, min, test.units)
		require.Equal(t, test.max, max, test.units)
	}
}
