// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"strings"
	"testing"

	"github.com/danielhkuo/exam-intake/models"
	"github.com/danielhkuo/exam-intake/testutil"
)

func TestGetScreeningData(t *testing.T) {
	h, db := newTestHandler(t)

	a := testutil.CreateTestCandidate(t, db, testutil.TestCandidate{
		Passport: "A1", ExamDate: "2024-06-14", RegNo: "002", Gender: "MALE",
		ScoreEng: "10", ScorePers: "5.5", ScoreExp: "x",
	})
	b := testutil.CreateTestCandidate(t, db, testutil.TestCandidate{
		Passport: "A2", ExamDate: "2024-06-14", RegNo: "001", Gender: "หญิง",
		ScreeningRemark: "fail",
	})
	testutil.CreateTestCandidate(t, db, testutil.TestCandidate{Passport: "A3", ExamDate: "2024-07-01", RegNo: "001"})

	_, resp := testutil.Exec(t, h.Exec, testutil.ActionBody(models.ActionGetScreeningData, map[string]any{
		"startDate": "2024-06-01",
		"endDate":   "2024-06-30",
	}))
	if resp.Status != models.StatusSuccess {
		t.Fatalf("Expected success, got %s (%s)", resp.Status, resp.Message)
	}

	var rows []models.ScoreSheetRow
	decodeData(t, resp, &rows)

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows in range, got %d", len(rows))
	}
	// Ordered by registration number within the date
	if rows[0].Row != b || rows[1].Row != a {
		t.Errorf("Expected rows [%d %d], got [%d %d]", b, a, rows[0].Row, rows[1].Row)
	}
	if rows[0].Sex != models.SexFemale {
		t.Errorf("Expected FEMALE from label, got %q", rows[0].Sex)
	}
	if rows[0].Remark != models.RemarkFail {
		t.Errorf("Expected remark FAIL, got %q", rows[0].Remark)
	}
	if rows[1].Total != 15.5 {
		t.Errorf("Expected total 15.5, got %v", rows[1].Total)
	}
}

func TestSaveScreeningScore(t *testing.T) {
	h, db := newTestHandler(t)

	a := testutil.CreateTestCandidate(t, db, testutil.TestCandidate{Passport: "A1", ExamDate: "2024-06-14"})
	b := testutil.CreateTestCandidate(t, db, testutil.TestCandidate{Passport: "A2", ExamDate: "2024-06-14"})

	_, resp := testutil.Exec(t, h.Exec, testutil.ActionBody(models.ActionSaveScreeningScore, map[string]any{
		"examDate": "15/06/2024",
		"updates": []map[string]any{
			{"rowIndex": a, "eng": 40, "personal": "30", "exp": "", "total": 999, "testNo": "1"},
			{"rowIndex": b, "eng": "20", "personal": "", "exp": "5", "total": 25, "testNo": "002"},
		},
	}))
	if resp.Status != models.StatusSuccess {
		t.Fatalf("Expected success, got %s (%s)", resp.Status, resp.Message)
	}

	var data map[string]string
	decodeData(t, resp, &data)
	if data["batchId"] == "" {
		t.Error("Expected a batchId in the reply")
	}

	var eng, testNo, examDate string
	var total float64
	err := db.QueryRow("SELECT score_eng, test_no, exam_date, score_total FROM candidate WHERE id = $1", a).
		Scan(&eng, &testNo, &examDate, &total)
	if err != nil {
		t.Fatalf("Failed to read candidate: %v", err)
	}

	if eng != "40" {
		t.Errorf("Expected score_eng '40', got %q", eng)
	}
	if testNo != "001" {
		t.Errorf("Expected test_no '001', got %q", testNo)
	}
	if examDate != "2024-06-15" {
		t.Errorf("Expected exam_date '2024-06-15', got %q", examDate)
	}
	// The client's total is not trusted
	if total != 70 {
		t.Errorf("Expected score_total 70, got %v", total)
	}

	var batches, rowCount int
	if err := db.QueryRow("SELECT COUNT(*), MAX(row_count) FROM score_batch WHERE id = $1", data["batchId"]).Scan(&batches, &rowCount); err != nil {
		t.Fatalf("Failed to read score batch: %v", err)
	}
	if batches != 1 || rowCount != 2 {
		t.Errorf("Expected one batch of 2 rows, got %d batches of %d", batches, rowCount)
	}
}

func TestSaveScreeningScore_RollsBackWholeBatch(t *testing.T) {
	h, db := newTestHandler(t)

	a := testutil.CreateTestCandidate(t, db, testutil.TestCandidate{Passport: "A1", ExamDate: "2024-06-14"})

	_, resp := testutil.Exec(t, h.Exec, testutil.ActionBody(models.ActionSaveScreeningScore, map[string]any{
		"examDate": "2024-06-14",
		"updates": []map[string]any{
			{"rowIndex": a, "eng": "40", "testNo": "001"},
			{"rowIndex": 999, "eng": "20", "testNo": "002"},
		},
	}))
	if resp.Status != models.StatusError {
		t.Fatalf("Expected error, got %s", resp.Status)
	}
	if !strings.Contains(resp.Message, "row 999 not found") {
		t.Errorf("Expected message naming row 999, got %q", resp.Message)
	}

	var eng string
	if err := db.QueryRow("SELECT score_eng FROM candidate WHERE id = $1", a).Scan(&eng); err != nil {
		t.Fatalf("Failed to read candidate: %v", err)
	}
	if eng != "" {
		t.Errorf("Expected first row rolled back, got score_eng %q", eng)
	}

	var batches int
	db.QueryRow("SELECT COUNT(*) FROM score_batch").Scan(&batches)
	if batches != 0 {
		t.Errorf("Expected no score batch, got %d", batches)
	}
}

func TestSaveScreeningScore_Rejected(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name   string
		fields map[string]any
	}{
		{"no updates", map[string]any{"examDate": "2024-06-14", "updates": []any{}}},
		{"bad date", map[string]any{"examDate": "soon", "updates": []map[string]any{{"rowIndex": 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp := testutil.Exec(t, h.Exec, testutil.ActionBody(models.ActionSaveScreeningScore, tt.fields))
			if resp.Status != models.StatusError {
				t.Errorf("Expected status error, got %s", resp.Status)
			}
		})
	}
}

func TestSaveScreeningKnockout(t *testing.T) {
	h, db := newTestHandler(t)

	a := testutil.CreateTestCandidate(t, db, testutil.TestCandidate{Passport: "A1", ExamDate: "2024-06-14"})
	b := testutil.CreateTestCandidate(t, db, testutil.TestCandidate{Passport: "A2", ExamDate: "2024-06-14", ScreeningRemark: "FAIL"})

	_, resp := testutil.Exec(t, h.Exec, testutil.ActionBody(models.ActionSaveScreeningKnockout, map[string]any{
		"updates": []map[string]any{
			{"rowIndex": a, "remark": "fail "},
			{"rowIndex": b, "remark": ""},
		},
	}))
	if resp.Status != models.StatusSuccess {
		t.Fatalf("Expected success, got %s (%s)", resp.Status, resp.Message)
	}

	for id, want := range map[int]string{a: "FAIL", b: ""} {
		var remark string
		if err := db.QueryRow("SELECT screening_remark FROM candidate WHERE id = $1", id).Scan(&remark); err != nil {
			t.Fatalf("Failed to read candidate: %v", err)
		}
		if remark != want {
			t.Errorf("Row %d: expected remark %q, got %q", id, want, remark)
		}
	}
}
