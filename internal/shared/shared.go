// Package shared holds small string helpers used by the front ends.
package shared

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func Capitalize(s string) string {
	return cases.Title(language.Und).String(s)
}

func FirstLine(s string) string {
	before, _, ok := strings.Cut(s, "\n")
	if !ok {
		return s
	}
	return before
}

func NormalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// OneLine flattens text for single-row displays: line endings become
// spaces and surrounding blanks are dropped.
func OneLine(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(NormalizeLineEndings(s), "\n", " "))
}

func StringPtr(s string) *string { return &s }

func BoolPtr(b bool) *bool { return &b }

func UintPtr(u uint) *uint { return &u }
