// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"testing"
)

func TestOpen_SQLite(t *testing.T) {
	conn, err := Open(context.Background(), DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer conn.Close()

	for _, table := range []string{"candidate", "score_batch"} {
		var n int
		err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = $1", table).Scan(&n)
		if err != nil {
			t.Fatalf("Failed to inspect schema: %v", err)
		}
		if n != 1 {
			t.Errorf("Expected table %s to exist", table)
		}
	}

	// Safe to run again
	if err := CreateSchema(conn, DriverSQLite); err != nil {
		t.Errorf("Expected CreateSchema to be idempotent, got %v", err)
	}
}

func TestCandidateDefaults(t *testing.T) {
	conn, err := Open(context.Background(), DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer conn.Close()

	var id int
	err = conn.QueryRow(`INSERT INTO candidate (passport, exam_date, full_name) VALUES ($1, $2, $3) RETURNING id`,
		"AB1234", "2024-06-14", "TEST").Scan(&id)
	if err != nil {
		t.Fatalf("Failed to insert candidate: %v", err)
	}

	var remark, result string
	var total float64
	err = conn.QueryRow("SELECT screening_remark, result, score_total FROM candidate WHERE id = $1", id).
		Scan(&remark, &result, &total)
	if err != nil {
		t.Fatalf("Failed to read candidate: %v", err)
	}
	if remark != "" || result != "" || total != 0 {
		t.Errorf("Expected blank defaults, got remark=%q result=%q total=%v", remark, result, total)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "oracle", "whatever"); err == nil {
		t.Error("Expected error for unknown driver")
	}
}
