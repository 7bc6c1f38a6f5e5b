// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package results filters, sorts, edits and exports final exam results.

# Filter and Sort

Apply is a pure function of the raw result set and a Query. Text filters
(test number, position, job line) match substrings case-insensitively.
Remark and sex match exactly; FilterAll passes everything and FilterEmpty
selects rows with a blank remark. All active filters must hold.

Rows are then stable-sorted by the query's key. Two values that both read
as numbers compare numerically ("9" before "10"); otherwise they compare
as case-sensitive text.

# Editing

A Session keeps the raw set. MarkResult changes a row locally and flags
it dirty; BulkSave sends every dirty row in a single bulkUpdateResult
request and clears the flags only on success.

# Export

NameList.Write renders the current view as an xlsx name list:

	Row 1   employer header (optional)
	Row 2   Date: dd/mm/yyyy
	Row 3   blank
	Row 4   Test No. | FULLNAME | Age | DOB | Passport No. | Remark
	Row 5+  one row per candidate, "-" for a missing test number or age
*/
package results
