package catalog

import "fmt"

// StructureError means a course block is missing markup every block is
// expected to have. It invalidates the page it came from, not the run.
type StructureError struct {
	Block    int
	Selector string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("course block %d: no element matches '%s'", e.Block, e.Selector)
}

// MissingFieldError means a field with no safe default could not be
// extracted from a course block. It is fatal for the run.
type MissingFieldError struct {
	Field  string
	Block  int
	Course string
	// attribute fragments the field was searched in
	Fragments []string
	Err       error
}

func (e *MissingFieldError) Error() string {
	msg := fmt.Sprintf("course block %d (%s): missing required field '%s'", e.Block, e.Course, e.Field)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MissingFieldError) Unwrap() error {
	return e.Err
}
