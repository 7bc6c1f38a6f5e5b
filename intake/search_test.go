// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package intake

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/exam-intake/models"
)

// gatedLookup blocks each query until its gate is released.
type gatedLookup struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	calls   []string
	started chan string
}

func newGatedLookup(queries ...string) *gatedLookup {
	g := &gatedLookup{gates: map[string]chan struct{}{}, started: make(chan string, 16)}
	for _, q := range queries {
		g.gates[q] = make(chan struct{})
	}
	return g
}

func (g *gatedLookup) release(query string) {
	close(g.gates[query])
}

func (g *gatedLookup) lookup(ctx context.Context, passport string) ([]models.CandidateRecord, error) {
	g.mu.Lock()
	g.calls = append(g.calls, passport)
	gate := g.gates[passport]
	g.mu.Unlock()

	g.started <- passport
	if gate != nil {
		<-gate
	}
	return []models.CandidateRecord{{Passport: passport, FullName: "HIT " + passport}}, nil
}

func TestSearchNowStaleResponseDiscarded(t *testing.T) {
	g := newGatedLookup("ABCD", "ABCDE")
	c := NewCoordinator(context.Background(), g.lookup, time.Hour)

	c.SearchNow("abcd")
	<-g.started
	c.SearchNow("abcde")
	<-g.started

	// Newer lookup returns first, then the older one
	g.release("ABCDE")
	g.release("ABCD")
	c.Wait()

	state := c.State()
	if state.Seq != 2 {
		t.Fatalf("Expected seq 2, got %d", state.Seq)
	}
	if state.Applied != 2 {
		t.Errorf("Expected applied seq 2, got %d", state.Applied)
	}
	if state.Busy {
		t.Error("Expected coordinator to be idle")
	}
	if len(state.Results) != 1 || state.Results[0].Passport != "ABCDE" {
		t.Errorf("Expected results for ABCDE, got %+v", state.Results)
	}
}

func TestSearchNowOlderResponseAfterNewer(t *testing.T) {
	g := newGatedLookup("ABCD", "ABCDE")
	c := NewCoordinator(context.Background(), g.lookup, time.Hour)

	c.SearchNow("ABCD")
	<-g.started
	c.SearchNow("ABCDE")
	<-g.started

	g.release("ABCD")
	g.release("ABCDE")
	c.Wait()

	state := c.State()
	if len(state.Results) != 1 || state.Results[0].Passport != "ABCDE" {
		t.Errorf("Expected results for ABCDE, got %+v", state.Results)
	}
}

func TestShortInputClearsAndFencesInflight(t *testing.T) {
	g := newGatedLookup("ABCD")
	c := NewCoordinator(context.Background(), g.lookup, time.Hour)

	c.SearchNow("ABCD")
	<-g.started

	c.Input("AB")
	state := c.State()
	if state.Busy || state.Results != nil || state.NotFound {
		t.Fatalf("Expected cleared idle state, got %+v", state)
	}

	g.release("ABCD")
	c.Wait()

	state = c.State()
	if state.Results != nil {
		t.Errorf("Expected in-flight response to be discarded, got %+v", state.Results)
	}
	if state.Applied != state.Seq {
		t.Errorf("Expected applied %d to equal seq %d", state.Applied, state.Seq)
	}
}

func TestInputWhileInflightFencesResponse(t *testing.T) {
	g := newGatedLookup("ABCD")
	c := NewCoordinator(context.Background(), g.lookup, time.Hour)

	c.SearchNow("ABCD")
	<-g.started

	c.Input("ABCDE")
	g.release("ABCD")
	c.Wait()

	state := c.State()
	if state.Query != "ABCDE" {
		t.Errorf("Expected query ABCDE, got %q", state.Query)
	}
	if state.Results != nil {
		t.Errorf("Expected ABCD response to be discarded, got %+v", state.Results)
	}
	if state.Applied == state.Seq {
		t.Errorf("Expected applied %d to trail seq %d until ABCDE is searched", state.Applied, state.Seq)
	}
	c.Stop()
	if c.State().Busy {
		t.Error("Expected Stop to clear busy once nothing current is in flight")
	}
}

func TestInputSameQueryKeepsInflight(t *testing.T) {
	g := newGatedLookup("ABCD")
	c := NewCoordinator(context.Background(), g.lookup, time.Hour)

	c.SearchNow("ABCD")
	<-g.started

	c.Input("abcd")
	c.Stop()
	g.release("ABCD")
	c.Wait()

	state := c.State()
	if len(state.Results) != 1 || state.Results[0].Passport != "ABCD" {
		t.Errorf("Expected results for ABCD, got %+v", state.Results)
	}
}

func TestNotificationsInStateOrder(t *testing.T) {
	instant := func(ctx context.Context, passport string) ([]models.CandidateRecord, error) {
		return []models.CandidateRecord{{Passport: passport}}, nil
	}
	c := NewCoordinator(context.Background(), instant, time.Hour)

	var mu sync.Mutex
	var seen []SearchState
	c.OnChange(func(s SearchState) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.SearchNow(fmt.Sprintf("ABC%03d", i))
		}(i)
	}
	wg.Wait()
	c.Wait()

	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(seen); i++ {
		if seen[i].Seq < seen[i-1].Seq || (seen[i].Seq == seen[i-1].Seq && seen[i].Applied < seen[i-1].Applied) {
			t.Fatalf("Expected notifications in order, got seq %d/%d after %d/%d",
				seen[i].Seq, seen[i].Applied, seen[i-1].Seq, seen[i-1].Applied)
		}
	}
	last := seen[len(seen)-1]
	if final := c.State(); last.Seq != final.Seq || last.Applied != final.Applied {
		t.Errorf("Expected last notification to match final state %+v, got %+v", final, last)
	}
}

func TestOnChangeMayReenter(t *testing.T) {
	c := NewCoordinator(context.Background(), newGatedLookup().lookup, time.Hour)

	var calls int
	c.OnChange(func(s SearchState) {
		calls++
		if calls == 1 {
			c.Input("AB")
		}
	})

	done := make(chan struct{})
	go func() {
		c.Input("A")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out: callback re-entry deadlocked")
	}
	if calls != 2 {
		t.Errorf("Expected 2 notifications, got %d", calls)
	}
}

func TestInputDebounces(t *testing.T) {
	g := newGatedLookup()
	c := NewCoordinator(context.Background(), g.lookup, 20*time.Millisecond)

	done := make(chan SearchState, 4)
	c.OnChange(func(s SearchState) {
		if !s.Busy && s.Applied == s.Seq && s.Seq > 0 {
			done <- s
		}
	})

	c.Input("ABC1")
	c.Input("ABC12")
	c.Input("ABC123")

	select {
	case s := <-done:
		if len(s.Results) != 1 || s.Results[0].Passport != "ABC123" {
			t.Errorf("Expected results for ABC123, got %+v", s.Results)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for debounced search")
	}
	c.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.calls) != 1 || g.calls[0] != "ABC123" {
		t.Errorf("Expected a single lookup for ABC123, got %v", g.calls)
	}
}

func TestLookupErrorIsNotFound(t *testing.T) {
	failing := func(ctx context.Context, passport string) ([]models.CandidateRecord, error) {
		return nil, errors.New("store unreachable")
	}
	c := NewCoordinator(context.Background(), failing, time.Hour)

	c.SearchNow("ZZ9999")
	c.Wait()

	state := c.State()
	if !state.NotFound {
		t.Error("Expected a failed lookup to read as not found")
	}
	if state.Busy {
		t.Error("Expected coordinator to be idle")
	}
}

func TestStopCancelsPendingSearch(t *testing.T) {
	g := newGatedLookup()
	c := NewCoordinator(context.Background(), g.lookup, 10*time.Millisecond)

	c.Input("ABCD")
	c.Stop()
	time.Sleep(50 * time.Millisecond)
	c.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.calls) != 0 {
		t.Errorf("Expected no lookup after Stop, got %v", g.calls)
	}
}
