// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package intake

import "github.com/danielhkuo/exam-intake/models"

// HasSameDayEntry reports whether a candidate's prior records already hold
// an entry on examDate. Only the calendar day is compared; the identifier,
// employer and the rest of the record are not.
func HasSameDayEntry(history []models.CandidateRecord, examDate string) bool {
	want := models.NormalizeDate(examDate)
	if want == "" {
		return false
	}
	for _, rec := range history {
		if models.NormalizeDate(rec.ExamDate) == want {
			return true
		}
	}
	return false
}
