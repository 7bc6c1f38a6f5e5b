// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ranking

import (
	"fmt"
	"slices"
	"sort"

	"github.com/danielhkuo/exam-intake/models"
)

// GroupOrder names which sex group comes first in the combined sheet.
// It only affects presentation; numbering is per group either way.
type GroupOrder int

const (
	MaleFirst GroupOrder = iota
	FemaleFirst
)

// String returns the flag spelling of the order.
func (o GroupOrder) String() string {
	if o == FemaleFirst {
		return "female-first"
	}
	return "male-first"
}

// ParseGroupOrder accepts "male-first" or "female-first". Blank means MaleFirst.
func ParseGroupOrder(s string) (GroupOrder, error) {
	switch s {
	case "", "male-first":
		return MaleFirst, nil
	case "female-first":
		return FemaleFirst, nil
	}
	return MaleFirst, fmt.Errorf("unknown group order %q", s)
}

// Batch is a ranked sheet together with the exam date chosen for it.
// The date is written back once with the batch, not per row.
type Batch struct {
	Rows     []models.ScoreSheetRow
	ExamDate string
}

// Rank partitions rows by sex, orders each group by total descending with
// registration number as the tie-break, and re-issues test numbers from
// "001" within each group. Totals are recomputed from the component scores
// first. Rows with no recognised sex are appended after both groups with
// their test numbers untouched. The input slice is not modified.
func Rank(rows []models.ScoreSheetRow, examDate string, order GroupOrder) Batch {
	var males, females, rest []models.ScoreSheetRow
	for _, row := range rows {
		row.Recompute()
		switch row.Sex {
		case models.SexMale:
			males = append(males, row)
		case models.SexFemale:
			females = append(females, row)
		default:
			rest = append(rest, row)
		}
	}

	rankGroup(males)
	rankGroup(females)

	first, second := males, females
	if order == FemaleFirst {
		first, second = females, males
	}

	out := make([]models.ScoreSheetRow, 0, len(rows))
	out = append(out, first...)
	out = append(out, second...)
	out = append(out, rest...)

	return Batch{Rows: out, ExamDate: examDate}
}

// rankGroup sorts one partition in place and numbers it.
func rankGroup(group []models.ScoreSheetRow) {
	// Sort by ranking criteria (lexicographic order)
	sort.SliceStable(group, func(i, j int) bool {
		a, b := group[i], group[j]

		// 1. Higher total wins
		if a.Total != b.Total {
			return a.Total > b.Total
		}

		// 2. Registration number as text, ascending
		return a.RegNo < b.RegNo
	})

	for i := range group {
		group[i].TestNo = models.Cell(fmt.Sprintf("%03d", i+1))
	}
}

// Updates converts a ranked batch into the score-save payload. Rows without
// a store location are skipped since there is nothing to write them to.
func (b Batch) Updates() []models.ScoreUpdate {
	updates := make([]models.ScoreUpdate, 0, len(b.Rows))
	for _, row := range b.Rows {
		if row.IsZero() {
			continue
		}
		updates = append(updates, models.ScoreUpdate{
			Row:      row.Row,
			Eng:      row.ScoreEng,
			Personal: row.ScorePers,
			Exp:      row.ScoreExp,
			Total:    row.Total,
			TestNo:   row.TestNo,
		})
	}
	return slices.Clip(updates)
}
