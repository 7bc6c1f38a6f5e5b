// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/exam-intake/models"
)

// DefaultInterval is how often the background refresh runs.
const DefaultInterval = 60 * time.Second

// ErrNoSnapshot is returned by Snapshot before the first good fetch.
var ErrNoSnapshot = errors.New("no report snapshot yet")

// FetchFunc loads raw report counts for a date range.
type FetchFunc func(ctx context.Context, start, end string) (models.RawReport, error)

// Snapshot is the last report fetched without error.
type Snapshot struct {
	Bucket    models.ReportBucket
	Start     string
	End       string
	FetchedAt time.Time
}

// Refresher keeps a last-good report snapshot current in the background.
// A failed background fetch is logged and leaves the snapshot alone.
type Refresher struct {
	fetch    FetchFunc
	interval time.Duration

	mu       sync.RWMutex
	start    string
	end      string
	snapshot *Snapshot
}

// NewRefresher returns a refresher for the given date range.
func NewRefresher(fetch FetchFunc, start, end string, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Refresher{fetch: fetch, interval: interval, start: start, end: end}
}

// SetRange changes the date range used by subsequent fetches.
func (r *Refresher) SetRange(start, end string) {
	r.mu.Lock()
	r.start, r.end = start, end
	r.mu.Unlock()
}

// Snapshot returns the last good snapshot.
func (r *Refresher) Snapshot() (Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.snapshot == nil {
		return Snapshot{}, ErrNoSnapshot
	}
	return *r.snapshot, nil
}

// Refresh fetches now and returns the error to the caller. The snapshot is
// replaced only on success.
func (r *Refresher) Refresh(ctx context.Context) (Snapshot, error) {
	r.mu.RLock()
	start, end := r.start, r.end
	r.mu.RUnlock()

	raw, err := r.fetch(ctx, start, end)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch report: %w", err)
	}

	snap := Snapshot{Bucket: Aggregate(raw), Start: start, End: end, FetchedAt: time.Now()}

	r.mu.Lock()
	// A range change while fetching makes this result stale.
	if r.start == start && r.end == end {
		r.snapshot = &snap
	}
	r.mu.Unlock()

	return snap, nil
}

// Run refreshes on every tick until ctx is done. It fetches once
// immediately.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.background(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.background(ctx)
		}
	}
}

func (r *Refresher) background(ctx context.Context) {
	if _, err := r.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Warn("background report refresh failed, keeping last snapshot", "error", err)
	}
}
