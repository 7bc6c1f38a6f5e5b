// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package screening keeps a score sheet in memory between loading it from
// the store and writing back ranked scores and knockout remarks. Both
// writes are single batched requests; a failed write leaves every pending
// change in place for a wholesale retry.
package screening
