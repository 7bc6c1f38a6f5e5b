// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Driver names registered by the blank imports in open.go
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if dbType == DriverPostgres {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}

	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(strings.ReplaceAll(stmt, "{{id}}", idColumn))
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// Dates are ISO YYYY-MM-DD text so range filters compare the same way on
// both dialects.
const schema = `
-- Candidates: one row per registration (person + exam date)
CREATE TABLE IF NOT EXISTS candidate (
    id {{id}},
    passport TEXT NOT NULL,
    exam_date TEXT NOT NULL,
    reg_no TEXT NOT NULL DEFAULT '',
    test_no TEXT NOT NULL DEFAULT '',
    full_name TEXT NOT NULL,
    dob TEXT NOT NULL DEFAULT '',
    gender TEXT NOT NULL DEFAULT '',
    employer TEXT NOT NULL DEFAULT '',
    position TEXT NOT NULL DEFAULT '',
    job_line TEXT NOT NULL DEFAULT '',
    score_eng TEXT NOT NULL DEFAULT '',
    score_pers TEXT NOT NULL DEFAULT '',
    score_exp TEXT NOT NULL DEFAULT '',
    score_total REAL NOT NULL DEFAULT 0,
    screening_remark TEXT NOT NULL DEFAULT '',
    result TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_candidate_passport ON candidate(passport);
CREATE INDEX IF NOT EXISTS idx_candidate_exam_date ON candidate(exam_date);

-- Score batches: audit trail of saved rankings
CREATE TABLE IF NOT EXISTS score_batch (
    id TEXT PRIMARY KEY,
    exam_date TEXT NOT NULL,
    row_count INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_score_batch_exam_date ON score_batch(exam_date);
`
