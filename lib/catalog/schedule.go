package catalog

import (
	"catalogscrape/lib/htmlutil"
	"fmt"
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

type SectionType string

const (
	Lecture        SectionType = "LEC"
	Discussion     SectionType = "DIS"
	UnknownSection SectionType = "Unknown"
)

// Section is one scheduled meeting pattern within a quarter.
type Section struct {
	Type SectionType
	// nil when the section does not state an enrolled count
	Enrolled *int
}

var (
	sectionHeadingRegex = regexp.MustCompile(`[0-9]{4}-[0-9]{4} (.+)`)
	sectionTypeRegex    = regexp.MustCompile(`(LEC|DIS)`)
	enrolledRegex       = regexp.MustCompile(`Students enrolled: ([0-9]+)`)
)

// ParseQuarterHeading reads headings like "2016-2017 Autumn".
func ParseQuarterHeading(heading string) Quarter {
	match := sectionHeadingRegex.FindStringSubmatch(heading)
	if match == nil {
		return UnknownQuarter
	}
	return QuarterFromSeason(match[1])
}

// ParseSection classifies the text of one section entry.
func ParseSection(text string) Section {
	text = htmlutil.NormalizeWhitespace(text)

	section := Section{Type: UnknownSection}
	if match := sectionTypeRegex.FindStringSubmatch(text); match != nil {
		section.Type = SectionType(match[1])
	}
	if match := enrolledRegex.FindStringSubmatch(text); match != nil {
		n, err := strconv.Atoi(match[1])
		if err == nil {
			section.Enrolled = &n
		}
	}
	return section
}

// ParseQuarterSections totals the enrollment of one quarter. The first
// section's type is authoritative: only sections of that type are summed,
// the rest are discarded. It returns false when there is nothing to total.
func ParseQuarterSections(sections []Section) (int, bool) {
	if len(sections) == 0 {
		return 0, false
	}

	authoritative := sections[0].Type
	total := 0
	counted := false
	for _, s := range sections {
		if s.Type != authoritative || s.Enrolled == nil {
			continue
		}
		total += *s.Enrolled
		counted = true
	}
	return total, counted
}

// ParseSchedule reads the nested schedule of the course block at `index`
// on its page into enrollment totals per quarter.
func ParseSchedule(block *goquery.Selection, index int) map[Quarter]int {
	schedule := map[Quarter]int{}

	scheduleNode := block.Find(fmt.Sprintf("#schedule_%d", index+1))
	if scheduleNode.Length() == 0 {
		return schedule
	}

	scheduleNode.Find(".sectionContainer").Each(func(_ int, container *goquery.Selection) {
		quarter := ParseQuarterHeading(htmlutil.Text(container.Find("h3").First()))
		if quarter == UnknownQuarter {
			return
		}

		var sections []Section
		container.Find("li.sectionDetails").Each(func(_ int, li *goquery.Selection) {
			sections = append(sections, ParseSection(htmlutil.Text(li)))
		})

		total, ok := ParseQuarterSections(sections)
		if !ok {
			return
		}
		schedule[quarter] += total
	})

	return schedule
}
