// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the store database and creates its schema.

# Drivers

Two database types are supported:

  - sqlite (default): modernc.org/sqlite, pure Go. Limited to one open
    connection.
  - postgres: github.com/lib/pq.

Open connects, pings and creates the schema in one call:

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

# Schema Creation

CreateSchema is safe to call multiple times - uses IF NOT EXISTS for all
tables and indexes. The only dialect difference is the candidate id column
(INTEGER AUTOINCREMENT on sqlite, BIGSERIAL on postgres).

# Tables

  - candidate: one row per registration. Holds the intake fields, the
    screening scores and knockout remark, and the final exam result.
    Its id is the rowIndex of a source location.
  - score_batch: one row per saved ranking (uuid, exam date, row count).

Dates are stored as ISO YYYY-MM-DD text so that range filters compare
lexically the same way on both databases.

# Indexes

  - candidate.passport
  - candidate.exam_date
  - score_batch.exam_date
*/
package db
