package parser

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"

	"github.com/starford/exhyte/internal/models"
)

var (
	// 2023-05-01, 2023/5/1
	isoDateRe = regexp.MustCompile(`\b(\d{4})[-/](\d{1,2})[-/](\d{1,2})\b`)
	// 2023-05
	isoMonthRe = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})$`)
	// 2023
	bareYearRe = regexp.MustCompile(`^\d{4}$`)
	// any 19xx/20xx year embedded in free text
	embeddedYearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	digitRunRe     = regexp.MustCompile(`\d+`)
)

// "May 2023", "Sep. 2023", "January, 2023"
var monthYearLayouts = []string{"January 2006", "Jan 2006", "January, 2006", "Jan, 2006", "Jan. 2006"}

// ParseDate extracts a publication date from a JSON value. Numbers are read
// as a year; strings are tried as ISO dates, then through dateparse, then for
// any embedded 19xx/20xx year. Anything else yields the zero Date.
func ParseDate(v any) models.Date {
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return yearFromFloat(f)
		}
	case float64:
		return yearFromFloat(t)
	case int:
		return yearFromFloat(float64(t))
	case string:
		return parseDateString(t)
	}
	return models.Date{}
}

func yearFromFloat(f float64) models.Date {
	if f != math.Trunc(f) || !validYear(int(f)) {
		return models.Date{}
	}
	return models.Date{Year: int(f)}
}

func parseDateString(s string) models.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.Date{}
	}

	if bareYearRe.MatchString(s) {
		y, _ := strconv.Atoi(s)
		if validYear(y) {
			return models.Date{Year: y}
		}
		return models.Date{}
	}
	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		if d, ok := build(m[1], m[2], m[3]); ok {
			return d
		}
	}
	if m := isoMonthRe.FindStringSubmatch(s); m != nil {
		if d, ok := build(m[1], m[2], ""); ok {
			return d
		}
	}
	if d, ok := monthYear(s); ok {
		return d
	}
	if d, ok := viaDateparse(s); ok {
		return d
	}
	if m := embeddedYearRe.FindString(s); m != "" {
		y, _ := strconv.Atoi(m)
		return models.Date{Year: y}
	}
	return models.Date{}
}

func monthYear(s string) (models.Date, bool) {
	for _, layout := range monthYearLayouts {
		if t, err := time.Parse(layout, s); err == nil && validYear(t.Year()) {
			return models.Date{Year: t.Year(), Month: int(t.Month())}, true
		}
	}
	return models.Date{}, false
}

// viaDateparse handles free-form inputs such as "May 1, 2023" or
// "20230501". The day is kept only when the input spells one out: three
// numeric parts, two next to a month name, or a compact YYYYMMDD run.
func viaDateparse(s string) (d models.Date, ok bool) {
	defer func() {
		// dateparse has panicked on malformed input in the past.
		if recover() != nil {
			d, ok = models.Date{}, false
		}
	}()

	t, err := dateparse.ParseAny(s)
	if err != nil || !validYear(t.Year()) {
		return models.Date{}, false
	}
	d = models.Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
	if !hasDay(s) {
		d.Day = 0
	}
	return d, true
}

func hasDay(s string) bool {
	runs := digitRunRe.FindAllString(s, -1)
	switch len(runs) {
	case 0:
		return false
	case 1:
		return len(runs[0]) == 8
	case 2:
		return strings.IndexFunc(s, unicode.IsLetter) >= 0
	default:
		return true
	}
}

func build(year, month, day string) (models.Date, bool) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	if !validYear(y) || m < 1 || m > 12 {
		return models.Date{}, false
	}
	d := models.Date{Year: y, Month: m}
	if day != "" {
		dd, _ := strconv.Atoi(day)
		// time.Date normalizes Feb 30 into March; a changed day means it
		// does not exist in that month.
		if dd < 1 || time.Date(y, time.Month(m), dd, 0, 0, 0, 0, time.UTC).Day() != dd {
			return models.Date{}, false
		}
		d.Day = dd
	}
	return d, true
}

func validYear(y int) bool { return y >= 1000 && y <= 9999 }
