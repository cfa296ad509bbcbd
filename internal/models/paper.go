// Package models defines the domain types for exhyte.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UnknownTopic is substituted when a paper carries no subject areas.
const UnknownTopic = "Unknown"

// Paper is the normalized form of one JSON paper summary.
type Paper struct {
	ID        string          `json:"id"`
	File      string          `json:"file"`
	Title     string          `json:"title"`
	Authors   string          `json:"authors"`
	Published Date            `json:"published"`
	Topics    []string        `json:"topics"`
	Link      string          `json:"link,omitempty"`
	Checksum  string          `json:"checksum"`
	Raw       json.RawMessage `json:"raw"`

	searchText string
}

// WithSearchText returns a copy of p whose keyword search runs against text.
// text is lower-cased here so callers can pass any canonical serialization.
func (p Paper) WithSearchText(text string) Paper {
	p.searchText = strings.ToLower(text)
	return p
}

// Matches reports whether keyword occurs, case-insensitively, anywhere in the
// paper's serialized payload. An empty keyword matches everything.
func (p Paper) Matches(keyword string) bool {
	if keyword == "" {
		return true
	}
	return strings.Contains(p.searchText, strings.ToLower(keyword))
}

// HasAnyTopic reports whether p is tagged with at least one of topics.
func (p Paper) HasAnyTopic(topics map[string]struct{}) bool {
	for _, t := range p.Topics {
		if _, ok := topics[t]; ok {
			return true
		}
	}
	return false
}

// Date is a best-effort publication date. Month and Day are zero when the
// source only carried a coarser precision; the zero Date means unresolved.
type Date struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
	Day   int `json:"day,omitempty"`
}

// IsZero reports whether no year could be resolved.
func (d Date) IsZero() bool { return d.Year == 0 }

// Compare orders dates chronologically: -1 if d is earlier than o, +1 if later.
// Missing month or day compares as earlier than any concrete value.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(d.Month, o.Month)
	default:
		return cmpInt(d.Day, o.Day)
	}
}

// String formats the date at its own precision: 2023, 2023-05 or 2023-05-01.
func (d Date) String() string {
	switch {
	case d.Year == 0:
		return ""
	case d.Month == 0:
		return fmt.Sprintf("%04d", d.Year)
	case d.Day == 0:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// LoadWarning records a file the loader could not turn into a Paper, or a
// recoverable anomaly such as an identifier collision. Skipped is false when
// the file still produced a Paper.
type LoadWarning struct {
	File    string `json:"file"`
	Error   string `json:"error"`
	Skipped bool   `json:"skipped"`
}

// TopicCount pairs a topic with the number of papers tagged with it.
type TopicCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
