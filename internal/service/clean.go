package service

import (
	"regexp"
	"strings"
)

var (
	innerSpace = regexp.MustCompile(`\s+`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,4}$`)
)

// CleanField trims the string and collapses internal whitespace runs to a
// single space.
func CleanField(s string) string {
	return innerSpace.ReplaceAllString(strings.TrimSpace(s), " ")
}

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}
