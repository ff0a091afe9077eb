package catalog

import (
	"regexp"
	"slices"
	"strings"
)

// Code is one entry of a fixed requirement enumeration.
type Code struct {
	Code string
	Name string
}

// WaysCodes is the enumeration of WAYS requirement codes, matched in
// attribute text as "WAY-<code>".
var WaysCodes = []Code{
	{Code: "A-II", Name: "Aesthetic and Interpretive Inquiry"},
	{Code: "AQR", Name: "Applied Quantitative Reasoning"},
	{Code: "CE", Name: "Creative Expression"},
	{Code: "ED", Name: "Engaging Diversity"},
	{Code: "ER", Name: "Ethical Reasoning"},
	{Code: "FR", Name: "Formal Reasoning"},
	{Code: "SI", Name: "Social Inquiry"},
	{Code: "SMA", Name: "Scientific Method and Analysis"},
}

// GerCodes is the enumeration of legacy general education requirement
// codes, matched in attribute text as "GER:<code>".
var GerCodes = []Code{
	{Code: "DB-Hum", Name: "Disciplinary Breadth: Humanities"},
	{Code: "DB-Math", Name: "Disciplinary Breadth: Mathematics"},
	{Code: "DB-SocSci", Name: "Disciplinary Breadth: Social Sciences"},
	{Code: "DB-EngrAppSci", Name: "Disciplinary Breadth: Engineering and Applied Sciences"},
	{Code: "DB-NatSci", Name: "Disciplinary Breadth: Natural Sciences"},
	{Code: "EC-EthicReas", Name: "Education for Citizenship: Ethical Reasoning"},
	{Code: "EC-GlobalCom", Name: "Education for Citizenship: Global Community"},
	{Code: "EC-AmerCul", Name: "Education for Citizenship: American Cultures"},
	{Code: "EC-Gender", Name: "Education for Citizenship: Gender Studies"},
}

// alternation builds a regex alternation group out of literal values,
// longest first so that no value is shadowed by one of its prefixes.
func alternation(values []string) string {
	sorted := slices.Clone(values)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return len(b) - len(a)
	})
	quoted := make([]string, len(sorted))
	for i, v := range sorted {
		quoted[i] = regexp.QuoteMeta(v)
	}
	return "(" + strings.Join(quoted, "|") + ")"
}

func codeValues(codes []Code) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = c.Code
	}
	return out
}

func quarterValues() []string {
	out := make([]string, len(Quarters))
	for i, q := range Quarters {
		out[i] = string(q)
	}
	return out
}

var (
	waysRegex  = regexp.MustCompile(`WAY-` + alternation(codeValues(WaysCodes)))
	gerRegex   = regexp.MustCompile(`GER:` + alternation(codeValues(GerCodes)))
	unitsRegex = regexp.MustCompile(`Units: ([^\s|]+)`)
	termsRegex = regexp.MustCompile(
		`Terms: ((?:` + alternation(quarterValues()) + `(?:, )?)+)`,
	)
)
