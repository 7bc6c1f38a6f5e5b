// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package results

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/danielhkuo/exam-intake/models"
)

var (
	// ErrNoRow is returned when an edit addresses a row not in the result set.
	ErrNoRow = errors.New("row not in result set")
	// ErrNothingToSave is returned by BulkSave when no row is dirty.
	ErrNothingToSave = errors.New("nothing to save")
)

// Store is the slice of the external store a results session uses.
type Store interface {
	GetExamResults(ctx context.Context, start, end string) ([]models.ResultRecord, error)
	BulkUpdateResult(ctx context.Context, updates []models.ResultUpdate) (string, error)
}

// Session holds the raw result set and the current view query.
type Session struct {
	store Store

	raw   []models.ResultRecord
	Query Query

	Start, End string
}

// NewSession returns a session with the default query.
func NewSession(store Store) *Session {
	return &Session{store: store, Query: DefaultQuery()}
}

// Load fetches results for the date range. Unsaved edits are discarded.
func (s *Session) Load(ctx context.Context, start, end string) error {
	rows, err := s.store.GetExamResults(ctx, start, end)
	if err != nil {
		return fmt.Errorf("load exam results: %w", err)
	}
	s.raw = rows
	s.Start, s.End = start, end
	slog.Info("exam results loaded", "start", start, "end", end, "rows", len(rows))
	return nil
}

// Raw returns a copy of the unfiltered result set.
func (s *Session) Raw() []models.ResultRecord {
	return slices.Clone(s.raw)
}

// View is the raw set with the current query applied.
func (s *Session) View() []models.ResultRecord {
	return Apply(s.raw, s.Query)
}

// MarkResult sets a row's result locally and flags it dirty.
func (s *Session) MarkResult(row int, result models.Remark) error {
	for i := range s.raw {
		if s.raw[i].Row == row {
			s.raw[i].Remark = result
			s.raw[i].Dirty = true
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrNoRow, row)
}

// Dirty returns the rows with unsaved results.
func (s *Session) Dirty() []models.ResultRecord {
	var out []models.ResultRecord
	for _, r := range s.raw {
		if r.Dirty {
			out = append(out, r)
		}
	}
	return out
}

// BulkSave writes every dirty row in one request. Dirty flags are cleared
// only when the write succeeds.
func (s *Session) BulkSave(ctx context.Context) (string, error) {
	dirty := s.Dirty()
	if len(dirty) == 0 {
		return "", ErrNothingToSave
	}

	updates := make([]models.ResultUpdate, len(dirty))
	for i, r := range dirty {
		updates[i] = models.ResultUpdate{Row: r.Row, Result: r.Remark}
	}

	msg, err := s.store.BulkUpdateResult(ctx, updates)
	if err != nil {
		return "", fmt.Errorf("bulk save results: %w", err)
	}

	for i := range s.raw {
		s.raw[i].Dirty = false
	}
	slog.Info("exam results saved", "rows", len(updates))
	return msg, nil
}
