// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scoring combines screening component scores.

	total := scoring.Total("8", "", "abc") // 8

Each component is parsed as a decimal number; anything that does not
parse (blank cells, free text) counts as zero. Total is total over its
inputs and never returns an error. Callers own the write-back: whenever a
component of a score sheet row changes, the row's total is re-derived
with Total.
*/
package scoring
