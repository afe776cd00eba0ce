// Package format renders complaint fields for display.
package format

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"gnacomplaints/backend/internal/config"
	"gnacomplaints/backend/internal/models"
)

// Name lowercases s and capitalizes every space separated word.
func Name(s string) string {
	v := strings.TrimSpace(s)
	if v == "" {
		return config.PlaceholderOther
	}
	words := strings.Split(strings.ToLower(v), " ")
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// Code uppercases department, block and room codes.
func Code(s string) string {
	v := strings.TrimSpace(s)
	if v == "" {
		return config.PlaceholderOther
	}
	return strings.ToUpper(v)
}

func Issue(s string) string   { return FreeText(s, config.PlaceholderIssue) }
func Comment(s string) string { return FreeText(s, config.PlaceholderComment) }

// FreeText capitalizes the first character and leaves the rest as written.
func FreeText(s, placeholder string) string {
	v := strings.TrimSpace(s)
	if v == "" {
		return placeholder
	}
	return capitalize(v)
}

func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + w[size:]
}

// Layouts tried, in order, when rendering a reported date.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"Mon Jan 2 2006",
	time.RFC1123,
}

// Date renders a reported date as DD/MM/YYYY. A bare four digit year is kept,
// unparseable input is returned as is and empty input becomes "N/A".
func Date(s string) string {
	v := strings.TrimSpace(s)
	if v == "" || v == config.DefaultDate {
		return config.DefaultDate
	}
	if isYear(v) {
		return v
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return v
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// StatusLabel is the badge text for a status value.
func StatusLabel(status string) string {
	if strings.ToLower(status) == models.StatusCompleted {
		return "Completed"
	}
	return "Pending"
}
