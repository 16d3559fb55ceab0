package sanitizer

import (
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

func dropControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeLocation cleans a pickup or dropoff address.
func SanitizeLocation(input string) string {
	p := Pipeline{
		dropControl,
		TrimAndNormalize,
	}
	return p.Apply(input)
}

// SanitizeNotes keeps line breaks but trims the text and strips control
// characters.
func SanitizeNotes(input string) string {
	p := Pipeline{
		dropControl,
		strings.TrimSpace,
	}
	return p.Apply(input)
}

// SanitizeOptionalID trims an optional reference.
func SanitizeOptionalID(id string) string {
	return strings.TrimSpace(id)
}
