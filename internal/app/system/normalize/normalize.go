// Package normalize trims and case-folds user-supplied identifiers so stores
// and handlers compare them the same way.
package normalize

import "strings"

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name and collapses inner runs of whitespace,
// preserving case.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Status trims and lowercases an account or complaint status.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role trims and lowercases a role identifier.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ComplaintID trims and uppercases a public complaint reference, so
// "cmp-ab12" typed into the tracking form finds CMP-AB12.
func ComplaintID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// QueryParam trims a query parameter value, preserving case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
