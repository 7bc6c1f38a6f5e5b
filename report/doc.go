// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package report turns the store's raw counts into the dashboard view.

Aggregate computes male and female percentages of the combined total,
rounded half up (1 male and 2 females give 33% and 67%; the two need not
sum to 100). Age groups always carry the five fixed buckets, zero when the
store omitted them. Positions are sorted by count, highest first, with
ties kept in the order the store sent them.

Refresher polls the store every DefaultInterval and keeps the last report
that was fetched without error. Callers read it with Snapshot; an explicit
Refresh returns its error instead of logging it.
*/
package report
