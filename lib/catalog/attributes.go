package catalog

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Attributes is what the free-text attribute fragments of one course
// block yield.
type Attributes struct {
	Ways []string
	Gers []string
	// raw units value, empty when no fragment stated one
	Units string
	Terms []string
}

// ParseAttributes scans every fragment independently. WAYS and GER codes
// accumulate across all fragments (deduplicated, first occurrence order),
// units and terms are taken from the first fragment that has them.
func ParseAttributes(fragments []string) Attributes {
	attrs := Attributes{
		Ways: []string{},
		Gers: []string{},
	}
	for _, fragment := range fragments {
		attrs.Ways = appendUnique(attrs.Ways, parseCodes(waysRegex, fragment)...)
		attrs.Gers = appendUnique(attrs.Gers, parseCodes(gerRegex, fragment)...)
		if attrs.Units == "" {
			attrs.Units = parseUnits(fragment)
		}
		if attrs.Terms == nil {
			attrs.Terms = parseTerms(fragment)
		}
	}
	return attrs
}

func parseCodes(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	codes := make([]string, 0, len(matches))
	for _, m := range matches {
		codes = append(codes, m[1])
	}
	return codes
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		if !slices.Contains(list, v) {
			list = append(list, v)
		}
	}
	return list
}

func parseUnits(text string) string {
	match := unitsRegex.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

func parseTerms(text string) []string {
	match := termsRegex.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	var terms []string
	for _, t := range strings.Split(match[1], ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		terms = append(terms, t)
	}
	return terms
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

// ParseUnits turns "3" into (3, 3) and "3-5" into (3, 5).
func ParseUnits(units string) (int, int, error) {
	units = whitespaceRegex.ReplaceAllString(units, "")
	if units == "" {
		return 0, 0, fmt.Errorf("empty units value")
	}

	low, high, isRange := strings.Cut(units, "-")
	if !isRange {
		high = low
	}
	min, err := strconv.Atoi(low)
	if err != nil {
		return 0, 0, fmt.Errorf("parse units '%s': %w", units, err)
	}
	max, err := strconv.Atoi(high)
	if err != nil {
		return 0, 0, fmt.Errorf("parse units '%s': %w", units, err)
	}
	if min < 0 || min > max {
		return 0, 0, fmt.Errorf("invalid units range '%s'", units)
	}
	return min, max, nil
}
