package ai

import (
	"regexp"
	"strings"
)

var (
	fenceRe     = regexp.MustCompile("(?i)```json|```")
	bracketedRe = regexp.MustCompile(`(?s)\[.*\]`)
)

// StripCodeFences removes every markdown fence marker (```json or ```)
// anywhere in s and trims the result.
func StripCodeFences(s string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(s, ""))
}

// FindBracketed returns the span from the first '[' to the last ']' in s,
// or "" when there is none.
func FindBracketed(s string) string {
	return bracketedRe.FindString(s)
}
