// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package intake handles candidate registration: identifier lookup while
typing, same-day duplicate detection and the submit/update flow.

# Search Coordination

A Coordinator debounces lookups for one identifier field and fences their
responses with a sequence number:

	c := intake.NewCoordinator(ctx, client.Search, intake.DefaultDebounce)
	c.OnChange(render)
	c.Input("AB12")      // debounced, fires after 400ms
	c.SearchNow("AB123") // immediate

Every lookup takes the next sequence number. A response is applied only if
its number is still the current one; older responses are dropped without
an error. Typing a different query while a lookup is in flight advances
the number at once, so that lookup's response is dropped too. Input
shorter than MinQueryLength clears the results at once. A failed lookup
reads as "not found".

OnChange callbacks arrive oldest state first and never run concurrently
with each other.

# Duplicate Guard

HasSameDayEntry reports whether the candidate's history already holds an
entry on the proposed exam date. It is advisory: Registration.Submit
returns ErrConfirmationRequired and the caller resubmits with
allowDuplicate set once the operator confirms. Updates of an existing
record (an edit target chosen with UseRecord(rec, UseFull)) skip the guard.
*/
package intake
