// Package normalize provides canonicalization helpers for user-supplied
// values before they are validated or stored.
//
// Stores call these so that lookups and uniqueness checks do not depend on
// how a value was typed into a form.
package normalize

import "strings"

// Email trims whitespace and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role trims and lowercases a role value ("admin", "institution", "member").
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status trims and lowercases a lifecycle status ("pending", "active", ...).
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MemberID trims and uppercases a member number so "zeh-0001" and
// "ZEH-0001" compare equal.
func MemberID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// QueryParam trims a free-text query parameter, preserving case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// InstitutionID trims an institution filter value; the sentinel "all"
// (any case) means no filter and normalizes to the empty string.
func InstitutionID(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}

// Phone strips spaces and hyphens from a contact number, keeping a leading
// plus sign if present.
func Phone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
