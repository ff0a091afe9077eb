package db

import (
	_ "embed"
	"strings"
)

//go:embed schema.sql
var Schema string

// Statements splits Schema into individual statements, for drivers that
// execute one statement per call.
func Statements() []string {
	var out []string
	for _, stmt := range strings.Split(Schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
