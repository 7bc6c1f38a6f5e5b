// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"strings"

	"github.com/danielhkuo/exam-intake/scoring"
)

// SheetCandidate is the only sheet the reference store serves.
const SheetCandidate = "candidate"

// SourceLocation addresses a record inside the external store. It is the
// only key an update may target.
type SourceLocation struct {
	Sheet string `json:"sourceSheet,omitempty"`
	Row   int    `json:"rowIndex,omitempty"`
}

// IsZero reports whether the location is unset (a new, unsaved record).
func (l SourceLocation) IsZero() bool {
	return l.Row <= 0
}

// CandidateRecord is one person's registration for one exam date.
type CandidateRecord struct {
	SourceLocation

	Passport string `json:"passport"`
	ExamDate string `json:"examDate"`
	RegNo    Cell   `json:"regNo"`
	TestNo   Cell   `json:"testNo"`
	FullName string `json:"fullName"`
	DOB      string `json:"dob,omitempty"`
	Sex      Sex    `json:"gender"`
	Employer string `json:"employer"`
	Position string `json:"position"`
	JobLine  string `json:"jobLine"`
}

// Normalize applies the ingestion rules: identifiers and free text are
// trimmed and upper-cased, sequence numbers are zero-padded and dates are
// rewritten as ISO calendar dates when they parse.
func (c CandidateRecord) Normalize() CandidateRecord {
	c.Passport = NormalizeIdentifier(c.Passport)
	c.FullName = upper(c.FullName)
	c.Employer = upper(c.Employer)
	c.Position = upper(c.Position)
	c.JobLine = upper(c.JobLine)
	c.RegNo = Cell(PadSequence(string(c.RegNo)))
	c.TestNo = Cell(PadSequence(string(c.TestNo)))
	c.ExamDate = NormalizeDate(c.ExamDate)
	c.DOB = NormalizeDate(c.DOB)
	return c
}

// NormalizeIdentifier trims and upper-cases a travel-document number.
func NormalizeIdentifier(raw string) string {
	return upper(raw)
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Score sheet component identifiers
type Component int

const (
	ComponentEnglish Component = iota
	ComponentPersonality
	ComponentExperience
)

// ScoreSheetRow is one candidate's row in a screening session.
type ScoreSheetRow struct {
	SourceLocation

	RegNo     Cell    `json:"regNo"`
	TestNo    Cell    `json:"testNo"`
	FullName  string  `json:"fullName"`
	Sex       Sex     `json:"gender"`
	Passport  string  `json:"passport"`
	ScoreEng  Cell    `json:"scoreEng"`
	ScorePers Cell    `json:"scorePers"`
	ScoreExp  Cell    `json:"scoreExp"`
	Total     float64 `json:"scoreTotal"`
	Remark    Remark  `json:"remark"`
}

// UnmarshalJSON decodes a row and re-derives Total from the components;
// whatever total the store sent is ignored.
func (r *ScoreSheetRow) UnmarshalJSON(data []byte) error {
	type alias ScoreSheetRow
	var wire struct {
		alias
		Total Cell `json:"scoreTotal"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*r = ScoreSheetRow(wire.alias)
	r.Recompute()
	return nil
}

// SetComponent stores a component score and re-derives the total.
func (r *ScoreSheetRow) SetComponent(c Component, value string) {
	switch c {
	case ComponentEnglish:
		r.ScoreEng = Cell(value)
	case ComponentPersonality:
		r.ScorePers = Cell(value)
	case ComponentExperience:
		r.ScoreExp = Cell(value)
	}
	r.Recompute()
}

// Recompute re-derives Total from the three components.
func (r *ScoreSheetRow) Recompute() {
	r.Total = scoring.Total(string(r.ScoreEng), string(r.ScorePers), string(r.ScoreExp))
}

// ResultRecord is a finalized exam-results row.
type ResultRecord struct {
	SourceLocation

	TestNo   Cell   `json:"testNo"`
	FullName string `json:"fullName"`
	Sex      Sex    `json:"gender"`
	Position string `json:"position"`
	JobLine  string `json:"jobLine"`
	Remark   Remark `json:"remark"`
	DOB      string `json:"dob,omitempty"`
	Passport string `json:"passport,omitempty"`
	ExamDate string `json:"examDate,omitempty"`

	// Dirty marks a local edit that has not been saved yet
	Dirty bool `json:"-"`
}

// Options are the suggestion lists offered during registration.
type Options struct {
	Employers []string `json:"employers"`
	Positions []string `json:"positions"`
	JobLines  []string `json:"jobLines"`
}

// Report types

// AgeBuckets lists the fixed age ranges in display order.
var AgeBuckets = []string{"20-25", "26-30", "31-35", "36-40", "41-45"}

// RawReport is the store's getReport payload. Nil sections were absent.
type RawReport struct {
	Males     int           `json:"males"`
	Females   int           `json:"females"`
	AgeGroups OrderedCounts `json:"ageGroups,omitempty"`
	Positions OrderedCounts `json:"positions,omitempty"`
}

// ReportBucket is the derived, read-only report view.
type ReportBucket struct {
	Males         int           `json:"males"`
	Females       int           `json:"females"`
	MalePercent   int           `json:"malePercent"`
	FemalePercent int           `json:"femalePercent"`
	AgeGroups     OrderedCounts `json:"ageGroups"`
	Positions     OrderedCounts `json:"positions"`
	Total         int           `json:"total"`
}
