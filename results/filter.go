// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package results

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/danielhkuo/exam-intake/models"
	"github.com/danielhkuo/exam-intake/scoring"
)

// Filter sentinels for the exact-match fields
const (
	FilterAll   = "ALL"   // pass-through
	FilterEmpty = "EMPTY" // remark is blank
)

// SortKey names a ResultRecord column.
type SortKey string

const (
	SortTestNo   SortKey = "testNo"
	SortFullName SortKey = "fullName"
	SortSex      SortKey = "gender"
	SortPosition SortKey = "position"
	SortJobLine  SortKey = "jobLine"
	SortRemark   SortKey = "remark"
	SortDOB      SortKey = "dob"
	SortPassport SortKey = "passport"
	SortExamDate SortKey = "examDate"
)

// ParseSortKey validates a column name. Blank means SortTestNo.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortTestNo, nil
	}
	k := SortKey(s)
	switch k {
	case SortTestNo, SortFullName, SortSex, SortPosition, SortJobLine,
		SortRemark, SortDOB, SortPassport, SortExamDate:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown sort key %q", models.ErrValidation, s)
}

// Filter selects rows. Blank fields pass everything.
type Filter struct {
	TestNo   string // substring, case-insensitive
	Position string // substring, case-insensitive
	JobLine  string // substring, case-insensitive
	Remark   string // exact; FilterAll, FilterEmpty or a remark
	Sex      string // exact; FilterAll or a sex label
}

// Query is a filter plus an ordering.
type Query struct {
	Filter     Filter
	SortKey    SortKey
	Descending bool
}

// DefaultQuery shows everything ordered by test number.
func DefaultQuery() Query {
	return Query{
		Filter:  Filter{Remark: FilterAll, Sex: FilterAll},
		SortKey: SortTestNo,
	}
}

// Match reports whether rec satisfies every active filter field.
func (f Filter) Match(rec models.ResultRecord) bool {
	if !containsFold(string(rec.TestNo), f.TestNo) ||
		!containsFold(rec.Position, f.Position) ||
		!containsFold(rec.JobLine, f.JobLine) {
		return false
	}

	switch remark := strings.TrimSpace(f.Remark); strings.ToUpper(remark) {
	case "", FilterAll:
	case FilterEmpty:
		if rec.Remark != models.RemarkNone {
			return false
		}
	default:
		if rec.Remark != models.ParseRemark(remark) {
			return false
		}
	}

	switch sex := strings.TrimSpace(f.Sex); strings.ToUpper(sex) {
	case "", FilterAll:
	default:
		if rec.Sex != models.ParseSex(sex) {
			return false
		}
	}

	return true
}

func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Apply filters and sorts a copy of raw. raw is never modified, so
// applying the same query twice gives the same result.
func Apply(raw []models.ResultRecord, q Query) []models.ResultRecord {
	out := make([]models.ResultRecord, 0, len(raw))
	for _, rec := range raw {
		if q.Filter.Match(rec) {
			out = append(out, rec)
		}
	}

	key := q.SortKey
	if key == "" {
		key = SortTestNo
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := compareValues(field(out[i], key), field(out[j], key))
		if q.Descending {
			return c > 0
		}
		return c < 0
	})

	return slices.Clip(out)
}

func field(rec models.ResultRecord, key SortKey) string {
	switch key {
	case SortTestNo:
		return string(rec.TestNo)
	case SortFullName:
		return rec.FullName
	case SortSex:
		return string(rec.Sex)
	case SortPosition:
		return rec.Position
	case SortJobLine:
		return rec.JobLine
	case SortRemark:
		return string(rec.Remark)
	case SortDOB:
		return rec.DOB
	case SortPassport:
		return rec.Passport
	case SortExamDate:
		return rec.ExamDate
	}
	return ""
}

// compareValues orders numerically when both sides read as numbers and
// as case-sensitive text otherwise.
func compareValues(a, b string) int {
	if scoring.IsNumeric(a) && scoring.IsNumeric(b) {
		na, nb := scoring.ParseScore(a), scoring.ParseScore(b)
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}
