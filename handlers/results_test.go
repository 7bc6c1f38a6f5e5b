// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/exam-intake/models"
	"github.com/danielhkuo/exam-intake/testutil"
)

func TestGetExamResults(t *testing.T) {
	h, db := newTestHandler(t)

	pass := testutil.CreateTestCandidate(t, db, testutil.TestCandidate{
		Passport: "A1", ExamDate: "2024-06-14", TestNo: "002", Result: "pass", Position: "WELDER",
	})
	hold := testutil.CreateTestCandidate(t, db, testutil.TestCandidate{
		Passport: "A2", ExamDate: "2024-06-14", TestNo: "001", ScreeningRemark: "HOLD",
	})
	testutil.CreateTestCandidate(t, db, testutil.TestCandidate{
		Passport: "A3", ExamDate: "2024-06-14", TestNo: "003", ScreeningRemark: "FAIL",
	})
	testutil.CreateTestCandidate(t, db, testutil.TestCandidate{Passport: "A4", ExamDate: "2024-05-01"})

	_, resp := testutil.Exec(t, h.Exec, testutil.ActionBody(models.ActionGetExamResults, map[string]any{
		"startDate": "2024-06-14",
		"endDate":   "2024-06-14",
	}))
	if resp.Status != models.StatusSuccess {
		t.Fatalf("Expected success, got %s (%s)", resp.Status, resp.Message)
	}

	var rows []models.ResultRecord
	decodeData(t, resp, &rows)

	// Knocked-out candidates and out-of-range dates are excluded
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].Row != hold || rows[1].Row != pass {
		t.Errorf("Expected rows [%d %d] by test number, got [%d %d]", hold, pass, rows[0].Row, rows[1].Row)
	}
	if rows[1].Remark != models.RemarkPass {
		t.Errorf("Expected result PASS, got %q", rows[1].Remark)
	}
	if rows[0].Remark != models.RemarkNone {
		t.Errorf("Expected screening remark not to leak into result, got %q", rows[0].Remark)
	}
}

func TestGetExamResults_OpenRange(t *testing.T) {
	h, db := newTestHandler(t)

	testutil.CreateTestCandidate(t, db, testutil.TestCandidate{Passport: "A1", ExamDate: "2023-01-01"})
	testutil.CreateTestCandidate(t, db, testutil.TestCandidate{Passport: "A2", ExamDate: "2025-01-01"})

	_, resp := testutil.Exec(t, h.Exec, testutil.ActionBody(models.ActionGetExamResults, nil))

	var rows []models.ResultRecord
	decodeData(t, resp, &rows)
	if len(rows) != 2 {
		t.Errorf("Expected blank bounds to match every date, got %d rows", len(rows))
	}
}

func TestBulkUpdateResult(t *testing.T) {
	h, db := newTestHandler(t)

	a := testutil.CreateTestCandidate(t, db, testutil.TestCandidate{Passport: "A1", ExamDate: "2024-06-14"})
	b := testutil.CreateTestCandidate(t, db, testutil.TestCandidate{Passport: "A2", ExamDate: "2024-06-14"})

	_, resp := testutil.Exec(t, h.Exec, testutil.ActionBody(models.ActionBulkUpdateResult, map[string]any{
		"updates": []map[string]any{
			{"rowIndex": a, "result": "pass"},
			{"rowIndex": b, "result": "FAIL"},
		},
	}))
	if resp.Status != models.StatusSuccess {
		t.Fatalf("Expected success, got %s (%s)", resp.Status, resp.Message)
	}

	for id, want := range map[int]string{a: "PASS", b: "FAIL"} {
		var result string
		if err := db.QueryRow("SELECT result FROM candidate WHERE id = $1", id).Scan(&result); err != nil {
			t.Fatalf("Failed to read candidate: %v", err)
		}
		if result != want {
			t.Errorf("Row %d: expected result %q, got %q", id, want, result)
		}
	}
}

func TestBulkUpdateResult_UnknownRow(t *testing.T) {
	h, db := newTestHandler(t)

	a := testutil.CreateTestCandidate(t, db, testutil.TestCandidate{Passport: "A1", ExamDate: "2024-06-14"})

	_, resp := testutil.Exec(t, h.Exec, testutil.ActionBody(models.ActionBulkUpdateResult, map[string]any{
		"updates": []map[string]any{
			{"rowIndex": a, "result": "PASS"},
			{"rowIndex": 4242, "result": "PASS"},
		},
	}))
	if resp.Status != models.StatusError {
		t.Fatalf("Expected error, got %s", resp.Status)
	}
	if !strings.Contains(resp.Message, "4242") {
		t.Errorf("Expected message naming row 4242, got %q", resp.Message)
	}

	var result string
	db.QueryRow("SELECT result FROM candidate WHERE id = $1", a).Scan(&result)
	if result != "" {
		t.Errorf("Expected batch rolled back, got result %q", result)
	}
}

func TestGetReport(t *testing.T) {
	h, db := newTestHandler(t)
	h.now = func() time.Time { return time.Date(2024, 6, 14, 9, 0, 0, 0, time.UTC) }

	seed := []testutil.TestCandidate{
		{Passport: "A1", ExamDate: "2024-06-14", Gender: "MALE", DOB: "2000-01-01", Position: "COOK"},     // 24
		{Passport: "A2", ExamDate: "2024-06-14", Gender: "MALE", DOB: "1990-06-15", Position: "WELDER"},   // 33
		{Passport: "A3", ExamDate: "2024-06-14", Gender: "FEMALE", DOB: "1990-06-14", Position: "WELDER"}, // 34
		{Passport: "A4", ExamDate: "2024-06-14", Gender: "", DOB: "1950-01-01", Position: ""},             // 74
		{Passport: "A5", ExamDate: "2024-01-01", Gender: "FEMALE", DOB: "2000-01-01", Position: "COOK"},   // out of range
	}
	for _, c := range seed {
		testutil.CreateTestCandidate(t, db, c)
	}

	_, resp := testutil.Exec(t, h.Exec, testutil.ActionBody(models.ActionGetReport, map[string]any{
		"startDate": "2024-06-01",
		"endDate":   "2024-06-30",
	}))
	if resp.Status != models.StatusSuccess {
		t.Fatalf("Expected success, got %s (%s)", resp.Status, resp.Message)
	}

	var raw models.RawReport
	decodeData(t, resp, &raw)

	if raw.Males != 2 || raw.Females != 1 {
		t.Errorf("Expected 2 males and 1 female, got %d and %d", raw.Males, raw.Females)
	}

	if len(raw.AgeGroups) != len(models.AgeBuckets) {
		t.Fatalf("Expected every age bucket present, got %d", len(raw.AgeGroups))
	}
	for i, bucket := range models.AgeBuckets {
		if raw.AgeGroups[i].Key != bucket {
			t.Errorf("Expected bucket %d to be %q, got %q", i, bucket, raw.AgeGroups[i].Key)
		}
	}
	if raw.AgeGroups.Get("20-25") != 1 || raw.AgeGroups.Get("31-35") != 2 || raw.AgeGroups.Sum() != 3 {
		t.Errorf("Unexpected age groups: %+v", raw.AgeGroups)
	}

	if len(raw.Positions) != 2 || raw.Positions[0].Key != "COOK" || raw.Positions.Get("WELDER") != 2 {
		t.Errorf("Expected positions COOK:1 WELDER:2 in encounter order, got %+v", raw.Positions)
	}
}
