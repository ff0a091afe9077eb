package catalog

import (
	"catalogscrape/lib/htmlutil"
	"iter"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

const (
	blockSelector       = ".courseInfo"
	numberSelector      = ".courseNumber"
	titleSelector       = ".courseTitle"
	descriptionSelector = ".courseDescription"
	attributeSelector   = ".courseAttributes"
)

// Blocks yields the course blocks of a listing page in document order.
// the sequence is finite and is consumed once.
func Blocks(doc *goquery.Document) iter.Seq2[int, *goquery.Selection] {
	return func(yield func(int, *goquery.Selection) bool) {
		doc.Find(blockSelector).EachWithBreak(func(i int, block *goquery.Selection) bool {
			return yield(i, block)
		})
	}
}

// ExtractPage parses one listing page and extracts every course block on
// it, in order.
func ExtractPage(markup string) ([]RawCourse, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	var courses []RawCourse
	for i, block := range Blocks(doc) {
		course, err := Extract(block, i)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, nil
}

// Extract reads one course block. `index` is the block's position on its
// page, which locates the block's nested schedule.
func Extract(block *goquery.Selection, index int) (RawCourse, error) {
	fullName, err := requiredText(block, numberSelector, index)
	if err != nil {
		return RawCourse{}, err
	}
	title, err := requiredText(block, titleSelector, index)
	if err != nil {
		return RawCourse{}, err
	}
	description, err := requiredText(block, descriptionSelector, index)
	if err != nil {
		return RawCourse{}, err
	}

	fullName = ParseFullName(fullName)
	department, number := SplitFullName(fullName)

	var fragments []string
	block.Find(attributeSelector).Each(func(_ int, s *goquery.Selection) {
		fragments = append(fragments, strings.TrimSpace(htmlutil.Text(s)))
	})
	attrs := ParseAttributes(fragments)

	if attrs.Units == "" {
		return RawCourse{}, &MissingFieldError{
			Field:     "units",
			Block:     index,
			Course:    fullName,
			Fragments: fragments,
		}
	}
	minUnits, maxUnits, err := ParseUnits(attrs.Units)
	if err != nil {
		return RawCourse{}, &MissingFieldError{
			Field:     "units",
			Block:     index,
			Course:    fullName,
			Fragments: fragments,
			Err:       err,
		}
	}

	return RawCourse{
		Block:       index,
		Department:  department,
		Number:      number,
		Title:       ParseTitle(title),
		Description: ParseDescription(description),
		MinUnits:    minUnits,
		MaxUnits:    maxUnits,
		Ways:        attrs.Ways,
		Gers:        attrs.Gers,
		Terms:       attrs.Terms,
		Enrollment:  ParseSchedule(block, index),
	}, nil
}

func requiredText(block *goquery.Selection, selector string, index int) (string, error) {
	sel := block.Find(selector).First()
	if sel.Length() == 0 {
		return "", &StructureError{Block: index, Selector: selector}
	}
	return strings.TrimSpace(htmlutil.Text(sel)), nil
}

// ParseFullName strips the trailing colon the catalog puts after course
// numbers ("CS 106A:").
func ParseFullName(text string) string {
	text = strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, ":"))
}

// SplitFullName splits at the first whitespace, "CS 106A" becomes
// ("CS", "106A"). without whitespace the whole name is the number.
func SplitFullName(fullName string) (string, string) {
	fullName = strings.TrimSpace(fullName)
	i := strings.IndexFunc(fullName, unicode.IsSpace)
	if i < 0 {
		return "", fullName
	}
	return fullName[:i], strings.TrimLeftFunc(fullName[i:], unicode.IsSpace)
}

// ParseTitle removes cross-listing annotations, everything from the first
// "(" onward.
func ParseTitle(title string) string {
	before, _, found := strings.Cut(title, "(")
	if !found {
		return title
	}
	return strings.TrimSpace(before)
}

// ParseDescription replaces every newline sequence with a single space.
// other whitespace is left alone.
func ParseDescription(description string) string {
	return htmlutil.NewlinesToSpaces(description)
}
