// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Sex is the closed set used for partitioning and filtering.
type Sex string

const (
	SexUnspecified Sex = ""
	SexMale        Sex = "MALE"
	SexFemale      Sex = "FEMALE"
)

// Labels seen in the wild, keyed upper-cased
var sexLabels = map[string]Sex{
	"MALE":   SexMale,
	"FEMALE": SexFemale,
	"ชาย":    SexMale,
	"หญิง":   SexFemale,
}

// ParseSex maps a free-text label onto the closed set. Anything unknown
// becomes SexUnspecified.
func ParseSex(raw string) Sex {
	return sexLabels[strings.ToUpper(strings.TrimSpace(raw))]
}

// UnmarshalJSON normalizes the label once, on ingestion.
func (s *Sex) UnmarshalJSON(data []byte) error {
	var c Cell
	if err := c.UnmarshalJSON(data); err != nil {
		return err
	}
	*s = ParseSex(string(c))
	return nil
}

// Remark is a screening knockout or exam result marker.
type Remark string

const (
	RemarkNone Remark = ""
	RemarkPass Remark = "PASS"
	RemarkHold Remark = "HOLD"
	RemarkFail Remark = "FAIL"
)

// ParseRemark trims and upper-cases a remark. Unknown text is kept.
func ParseRemark(raw string) Remark {
	return Remark(strings.ToUpper(strings.TrimSpace(raw)))
}

func (r *Remark) UnmarshalJSON(data []byte) error {
	var c Cell
	if err := c.UnmarshalJSON(data); err != nil {
		return err
	}
	*r = ParseRemark(string(c))
	return nil
}

// Cell is a spreadsheet-style value: the store may send it as a JSON
// string, number, boolean or null. It is always held as text.
type Cell string

func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*c = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Cell(s)
	default:
		if !json.Valid(data) {
			return fmt.Errorf("invalid cell value %q", data)
		}
		*c = Cell(data)
	}
	return nil
}

// PadSequence left-pads a registration or test number with zeros to three
// characters. Blank stays blank; longer values are kept.
func PadSequence(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if n := utf8.RuneCountInString(s); n < 3 {
		s = strings.Repeat("0", 3-n) + s
	}
	return s
}

// DateLayout is the ISO calendar date used on the wire.
const DateLayout = "2006-01-02"

var dateLayouts = []string{DateLayout, time.RFC3339Nano, time.RFC3339, "02/01/2006"}

// ParseDate reads a calendar date in any of the layouts the store has used.
// The result is midnight UTC of that calendar day.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// NormalizeDate rewrites raw as YYYY-MM-DD when it parses and returns the
// trimmed input otherwise.
func NormalizeDate(raw string) string {
	if t, ok := ParseDate(raw); ok {
		return t.Format(DateLayout)
	}
	return strings.TrimSpace(raw)
}

// FormatDayMonthYear renders a date as dd/mm/yyyy for printed lists.
func FormatDayMonthYear(raw string) string {
	if t, ok := ParseDate(raw); ok {
		return t.Format("02/01/2006")
	}
	return strings.TrimSpace(raw)
}

// AgeAt returns the age in whole years on the given day.
func AgeAt(dob string, at time.Time) (int, bool) {
	birth, ok := ParseDate(dob)
	if !ok {
		return 0, false
	}
	age := at.Year() - birth.Year()
	if at.Month() < birth.Month() || (at.Month() == birth.Month() && at.Day() < birth.Day()) {
		age--
	}
	return age, true
}
