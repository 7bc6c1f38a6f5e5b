// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package screening

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/exam-intake/models"
	"github.com/danielhkuo/exam-intake/ranking"
)

var (
	// ErrNoRow is returned when an edit addresses a row not in the sheet.
	ErrNoRow = errors.New("row not in score sheet")
	// ErrNothingToSave is returned when a save has no pending changes.
	ErrNothingToSave = errors.New("nothing to save")
)

// Store is the slice of the external store a screening session uses.
type Store interface {
	GetScreeningData(ctx context.Context, start, end string) ([]models.ScoreSheetRow, error)
	SaveScreeningScore(ctx context.Context, updates []models.ScoreUpdate, examDate string) (string, error)
	SaveScreeningKnockout(ctx context.Context, updates []models.KnockoutUpdate) (string, error)
}

// Session holds one operator's score sheet between load and save.
type Session struct {
	store Store
	order ranking.GroupOrder

	rows    []models.ScoreSheetRow
	index   map[int]int // store row -> position in rows
	pending *ranking.Batch

	knockout map[int]bool // rows with an unsaved remark
}

// NewSession returns an empty session.
func NewSession(store Store, order ranking.GroupOrder) *Session {
	return &Session{store: store, order: order, knockout: map[int]bool{}}
}

// Load replaces the sheet with the rows registered between start and end.
// Unsaved edits are discarded.
func (s *Session) Load(ctx context.Context, start, end string) error {
	rows, err := s.store.GetScreeningData(ctx, start, end)
	if err != nil {
		return fmt.Errorf("load screening data: %w", err)
	}
	s.setRows(rows)
	s.pending = nil
	s.knockout = map[int]bool{}
	slog.Info("screening sheet loaded", "start", start, "end", end, "rows", len(rows))
	return nil
}

func (s *Session) setRows(rows []models.ScoreSheetRow) {
	s.rows = rows
	s.index = make(map[int]int, len(rows))
	for i, r := range rows {
		s.index[r.Row] = i
	}
}

// Rows returns the sheet in its current order.
func (s *Session) Rows() []models.ScoreSheetRow {
	out := make([]models.ScoreSheetRow, len(s.rows))
	copy(out, s.rows)
	return out
}

func (s *Session) lookup(row int) (*models.ScoreSheetRow, error) {
	i, ok := s.index[row]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoRow, row)
	}
	return &s.rows[i], nil
}

// SetScore edits one component score. The total is re-derived at once.
func (s *Session) SetScore(row int, c models.Component, value string) error {
	r, err := s.lookup(row)
	if err != nil {
		return err
	}
	r.SetComponent(c, value)
	return nil
}

// SetRemark edits a row's knockout remark and marks it for SaveKnockout.
func (s *Session) SetRemark(row int, remark models.Remark) error {
	r, err := s.lookup(row)
	if err != nil {
		return err
	}
	r.Remark = remark
	s.knockout[row] = true
	return nil
}

// Rank orders the sheet and stages the result for SaveScores. The sheet
// shown by Rows takes the ranked order immediately.
func (s *Session) Rank(examDate string) (ranking.Batch, error) {
	if _, ok := models.ParseDate(examDate); !ok {
		return ranking.Batch{}, fmt.Errorf("%w: exam date %q is not a date", models.ErrValidation, examDate)
	}
	batch := ranking.Rank(s.rows, models.NormalizeDate(examDate), s.order)
	s.setRows(batch.Rows)
	s.pending = &batch
	return batch, nil
}

// Pending reports whether a ranked batch is waiting to be saved.
func (s *Session) Pending() bool {
	return s.pending != nil
}

// SaveScores writes the staged batch in one request. The batch stays
// staged if the write fails so it can be retried as a whole.
func (s *Session) SaveScores(ctx context.Context) (string, error) {
	if s.pending == nil {
		return "", ErrNothingToSave
	}
	msg, err := s.store.SaveScreeningScore(ctx, s.pending.Updates(), s.pending.ExamDate)
	if err != nil {
		return "", fmt.Errorf("save scores: %w", err)
	}
	slog.Info("screening scores saved", "rows", len(s.pending.Rows), "exam_date", s.pending.ExamDate)
	s.pending = nil
	return msg, nil
}

// DirtyRemarks returns how many remarks are waiting for SaveKnockout.
func (s *Session) DirtyRemarks() int {
	return len(s.knockout)
}

// SaveKnockout writes every edited remark in one request. Dirty markers
// are cleared only when the write succeeds.
func (s *Session) SaveKnockout(ctx context.Context) (string, error) {
	if len(s.knockout) == 0 {
		return "", ErrNothingToSave
	}
	updates := make([]models.KnockoutUpdate, 0, len(s.knockout))
	for _, r := range s.rows {
		if s.knockout[r.Row] {
			updates = append(updates, models.KnockoutUpdate{Row: r.Row, Remark: r.Remark})
		}
	}
	msg, err := s.store.SaveScreeningKnockout(ctx, updates)
	if err != nil {
		return "", fmt.Errorf("save knockout: %w", err)
	}
	slog.Info("knockout remarks saved", "rows", len(updates))
	s.knockout = map[int]bool{}
	return msg, nil
}
