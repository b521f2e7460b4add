// Package estimation implements the deterministic pricing and
// lead-qualification engine. Everything in this package is a pure function
// over a submission and a rules configuration: no I/O, no retries, no hidden
// state, safe to call concurrently.
package estimation

import "strings"

// Submission is a customer's quote request: selected services plus loosely
// structured free-form answers. Unknown service identifiers are allowed and
// degrade gracefully.
type Submission struct {
	Services         []string
	Answers          *Answers
	RemindersOptIn   *bool
	PreferredContact *string
}

// Answers holds the optional free-form fields of a submission. All fields
// are nullable; matching against them is case-insensitive substring search,
// deliberately fuzzy rather than exact enumeration.
type Answers struct {
	RoughSize       *string
	LastCleaned     *string
	SpecificDetails *string
	AccessNotes     *string
	PropertyType    *string
}

// PopulatedCount returns how many answer fields carry a non-blank value.
func (a *Answers) PopulatedCount() int {
	if a == nil {
		return 0
	}
	count := 0
	for _, field := range []*string{a.RoughSize, a.LastCleaned, a.SpecificDetails, a.AccessNotes, a.PropertyType} {
		if field != nil && strings.TrimSpace(*field) != "" {
			count++
		}
	}
	return count
}

// text dereferences an optional field to a lowercased string for matching.
func text(field *string) string {
	if field == nil {
		return ""
	}
	return strings.ToLower(*field)
}

// containsAny checks if s contains any of the keywords.
func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
