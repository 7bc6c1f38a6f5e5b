// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ranking orders a screening score sheet and re-issues test numbers.

# Algorithm

Rank is a pure function over a copy of the sheet:

 1. Partition the rows into male and female groups. Rows whose sex is
    unspecified are carried through unranked with their test number
    untouched.
 2. Stable-sort each group by total score, highest first. Equal totals
    are broken by comparing registration numbers as plain strings,
    ascending, so "001" precedes "002" and "10" precedes "9".
 3. Number each group from "001", zero-padded to three digits. The
    numbering restarts for the second group.
 4. Concatenate: first group, second group, unranked rows. GroupOrder
    decides which group is first; MaleFirst is the default.

The returned Batch carries the exam date chosen by the operator. It is
written back once with the whole batch (see Batch.Updates and the
saveScreeningScore action).

Empty groups produce no rows and consume no numbers.
*/
package ranking
