package tabular

import (
	"catalogscrape/lib/catalog"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Header is the fixed column order of the courses file. the visualization
// layer reads columns by these names.
var Header = []string{
	"id",
	"dept",
	"number",
	"title",
	"description",
	"units",
	"ways",
	"gers",
	"terms",
	"enrollmentAut",
	"enrollmentWin",
	"enrollmentSpr",
	"enrollmentSum",
}

func enrollmentColumn(q catalog.Quarter) string {
	return "enrollment" + string(q)
}

// FileName is the conventional output name for an academic year starting
// in `year`.
func FileName(year int) string {
	return fmt.Sprintf("courses_%d_%d.csv", year, year+1)
}

// Row renders one course in Header order.
func Row(c catalog.Course) []string {
	row := []string{
		strconv.Itoa(c.ID),
		c.Department,
		c.Number,
		c.Title,
		c.Description,
		c.Units(),
		strings.Join(c.Ways, ","),
		strings.Join(c.Gers, ","),
		strings.Join(c.Terms, ","),
	}
	for _, q := range catalog.Quarters {
		n, ok := c.EnrollmentIn(q)
		if !ok {
			row = append(row, "")
			continue
		}
		row = append(row, strconv.Itoa(n))
	}
	return row
}

// Write encodes courses with a header row, one row per course in the
// order given.
func Write(w io.Writer, courses []catalog.Course) error {
	out := csv.NewWriter(w)
	err := out.Write(Header)
	if err != nil {
		return err
	}
	for _, c := range courses {
		err := out.Write(Row(c))
		if err != nil {
			return fmt.Errorf("write course %d: %w", c.ID, err)
		}
	}
	out.Flush()
	return out.Error()
}

// WriteFile writes the courses file at `path`, creating parent
// directories. the file is replaced atomically, readers never observe a
// partially written file.
func WriteFile(path string, courses []catalog.Course) error {
	dir := filepath.Dir(path)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	err = Write(tmp, courses)
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	err = os.Chmod(tmp.Name(), 0644)
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// DecodeError locates a cell that could not be coerced.
type DecodeError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("line %d, column '%s': invalid value '%s': %s", e.Line, e.Column, e.Value, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func splitList(cell string) []string {
	if cell == "" {
		return []string{}
	}
	return strings.Split(cell, ",")
}

// Decode reads a courses file back the way the visualization layer
// coerces it: numeric cells become numbers, units are split on "-" after
// whitespace is removed, multi valued cells are split on "," and empty
// enrollment cells are absent.
func Decode(r io.Reader) ([]catalog.Course, error) {
	in := csv.NewReader(r)
	in.FieldsPerRecord = -1

	header, err := in.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, err
	}
	columns := map[string]int{}
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range Header {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column '%s'", name)
		}
	}

	var courses []catalog.Course
	for line := 2; ; line++ {
		record, err := in.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		cell := func(name string) string {
			i := columns[name]
			if i >= len(record) {
				return ""
			}
			return record[i]
		}

		id, err := strconv.Atoi(strings.TrimSpace(cell("id")))
		if err != nil {
			return nil, &DecodeError{Line: line, Column: "id", Value: cell("id"), Err: err}
		}
		minUnits, maxUnits, err := catalog.ParseUnits(cell("units"))
		if err != nil {
			return nil, &DecodeError{Line: line, Column: "units", Value: cell("units"), Err: err}
		}

		course := catalog.Course{
			ID:          id,
			Department:  cell("dept"),
			Number:      cell("number"),
			Title:       cell("title"),
			Description: cell("description"),
			MinUnits:    minUnits,
			MaxUnits:    maxUnits,
			Ways:        splitList(cell("ways")),
			Gers:        splitList(cell("gers")),
			Enrollment:  map[catalog.Quarter]int{},
		}
		if terms := cell("terms"); terms != "" {
			course.Terms = strings.Split(terms, ",")
		}
		for _, q := range catalog.Quarters {
			name := enrollmentColumn(q)
			value := strings.TrimSpace(cell(name))
			if value == "" {
				continue
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, &DecodeError{Line: line, Column: name, Value: value, Err: err}
			}
			course.Enrollment[q] = n
		}

		courses = append(courses, course)
	}
	return courses, nil
}
