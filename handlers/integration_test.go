// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/exam-intake/intake"
	"github.com/danielhkuo/exam-intake/models"
	"github.com/danielhkuo/exam-intake/ranking"
	"github.com/danielhkuo/exam-intake/report"
	"github.com/danielhkuo/exam-intake/results"
	"github.com/danielhkuo/exam-intake/screening"
	"github.com/danielhkuo/exam-intake/storeclient"
	"github.com/danielhkuo/exam-intake/testutil"
	"github.com/xuri/excelize/v2"
)

// TestFullExamWorkflow drives one exam day end to end through the HTTP client:
// 1. Register candidates (with a refused and a confirmed duplicate)
// 2. Score and rank the screening sheet
// 3. Knock one candidate out
// 4. Record final results
// 5. Export the name list
// 6. Build the report
func TestFullExamWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewStoreHandler(db, testutil.GetTestConfig())
	h.now = func() time.Time { return time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC) }

	server := httptest.NewServer(http.HandlerFunc(h.Exec))
	defer server.Close()

	ctx := context.Background()
	client := storeclient.New(server.URL, 5*time.Second)
	if !client.Reachable(ctx) {
		t.Fatal("Store not reachable")
	}

	const examDate = "2024-06-14"

	// Step 1: register three candidates
	register := func(passport, name string, sex models.Sex, dob string) {
		t.Helper()
		reg := intake.NewRegistration(client, examDate)
		if err := reg.LoadOptions(ctx); err != nil {
			t.Fatalf("Step 1 - load options: %v", err)
		}
		reg.SetIdentifier(passport)
		history, err := client.Search(ctx, passport)
		if err != nil {
			t.Fatalf("Step 1 - search %s: %v", passport, err)
		}
		reg.SetHistory(history)

		reg.Form.FullName = name
		reg.Form.Sex = sex
		reg.Form.DOB = dob
		reg.Form.Position = "welder"
		if _, err := reg.Submit(ctx, false); err != nil {
			t.Fatalf("Step 1 - submit %s: %v", passport, err)
		}
	}
	register("M0001", "first male", models.SexMale, "1990-06-15")
	register("M0002", "second male", models.SexMale, "1998-01-01")
	register("F0001", "first female", models.SexFemale, "1995-03-03")

	// Same-day re-registration needs confirmation on both sides
	reg := intake.NewRegistration(client, examDate)
	reg.SetIdentifier("m0001")
	history, err := client.Search(ctx, "m0001")
	if err != nil || len(history) != 1 {
		t.Fatalf("Step 1 - expected one prior entry, got %d (%v)", len(history), err)
	}
	reg.SetHistory(history)
	reg.UseRecord(history[0], intake.UsePersonal)
	if _, err := reg.Submit(ctx, false); !errors.Is(err, intake.ErrConfirmationRequired) {
		t.Fatalf("Step 1 - expected ErrConfirmationRequired, got %v", err)
	}
	if _, err := client.Submit(ctx, reg.Form, false); !errors.Is(err, storeclient.ErrDuplicate) {
		t.Fatalf("Step 1 - expected ErrDuplicate from store, got %v", err)
	}

	// Fix the first male's position through an update instead
	reg.UseRecord(history[0], intake.UseFull)
	reg.Form.Position = "painter"
	if _, err := reg.Submit(ctx, false); err != nil {
		t.Fatalf("Step 1 - update: %v", err)
	}
	t.Log("Step 1 - registered 3 candidates")

	// Step 2: score and rank
	sheet := screening.NewSession(client, ranking.MaleFirst)
	if err := sheet.Load(ctx, examDate, examDate); err != nil {
		t.Fatalf("Step 2 - load: %v", err)
	}
	rows := sheet.Rows()
	if len(rows) != 3 {
		t.Fatalf("Step 2 - expected 3 rows, got %d", len(rows))
	}

	byPassport := map[string]int{}
	for _, r := range rows {
		byPassport[r.Passport] = r.Row
	}
	scores := map[string][3]string{
		"M0001": {"20", "20", "10"}, // 50
		"M0002": {"30", "30", "10"}, // 70
		"F0001": {"10", "10", "10"}, // 30
	}
	for passport, s := range scores {
		row := byPassport[passport]
		for c, v := range s {
			if err := sheet.SetScore(row, models.Component(c), v); err != nil {
				t.Fatalf("Step 2 - set score: %v", err)
			}
		}
	}

	batch, err := sheet.Rank(examDate)
	if err != nil {
		t.Fatalf("Step 2 - rank: %v", err)
	}
	if batch.Rows[0].Passport != "M0002" || batch.Rows[1].Passport != "M0001" || batch.Rows[2].Passport != "F0001" {
		t.Fatalf("Step 2 - unexpected ranked order: %s %s %s",
			batch.Rows[0].Passport, batch.Rows[1].Passport, batch.Rows[2].Passport)
	}
	if _, err := sheet.SaveScores(ctx); err != nil {
		t.Fatalf("Step 2 - save scores: %v", err)
	}

	wantTestNo := map[string]string{"M0002": "001", "M0001": "002", "F0001": "001"}
	for passport, want := range wantTestNo {
		var testNo string
		var total float64
		if err := db.QueryRow("SELECT test_no, score_total FROM candidate WHERE id = $1", byPassport[passport]).Scan(&testNo, &total); err != nil {
			t.Fatalf("Step 2 - read back: %v", err)
		}
		if testNo != want {
			t.Errorf("Step 2 - %s: expected test no %s, got %s", passport, want, testNo)
		}
	}

	// Step 3: knock the lower male out
	if err := sheet.SetRemark(byPassport["M0001"], models.RemarkFail); err != nil {
		t.Fatalf("Step 3 - set remark: %v", err)
	}
	if _, err := sheet.SaveKnockout(ctx); err != nil {
		t.Fatalf("Step 3 - save knockout: %v", err)
	}
	if sheet.DirtyRemarks() != 0 {
		t.Error("Step 3 - expected remarks clean after save")
	}

	// Step 4: final results
	res := results.NewSession(client)
	if err := res.Load(ctx, examDate, examDate); err != nil {
		t.Fatalf("Step 4 - load: %v", err)
	}
	if len(res.Raw()) != 2 {
		t.Fatalf("Step 4 - expected knocked-out candidate excluded, got %d rows", len(res.Raw()))
	}
	if err := res.MarkResult(byPassport["M0002"], models.RemarkPass); err != nil {
		t.Fatalf("Step 4 - mark: %v", err)
	}
	if _, err := res.BulkSave(ctx); err != nil {
		t.Fatalf("Step 4 - save: %v", err)
	}

	if err := res.Load(ctx, examDate, examDate); err != nil {
		t.Fatalf("Step 4 - reload: %v", err)
	}
	res.Query.Filter.Remark = string(models.RemarkPass)
	view := res.View()
	if len(view) != 1 || view[0].Row != byPassport["M0002"] {
		t.Fatalf("Step 4 - expected only M0002 to pass, got %+v", view)
	}

	// Step 5: export
	var buf bytes.Buffer
	list := results.NameList{Date: examDate, AgeAt: h.now()}
	if err := list.Write(&buf, view); err != nil {
		t.Fatalf("Step 5 - export: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("Step 5 - reopen workbook: %v", err)
	}
	defer f.Close()
	sheetRows, err := f.GetRows(results.NameListSheet)
	if err != nil || len(sheetRows) == 0 {
		t.Fatalf("Step 5 - read workbook: %v", err)
	}
	last := sheetRows[len(sheetRows)-1]
	if len(last) < 2 || last[1] != "SECOND MALE" {
		t.Errorf("Step 5 - expected last row for SECOND MALE, got %v", last)
	}

	// Step 6: report
	refresher := report.NewRefresher(client.GetReport, examDate, examDate, time.Minute)
	snap, err := refresher.Refresh(ctx)
	if err != nil {
		t.Fatalf("Step 6 - refresh: %v", err)
	}
	if snap.Bucket.Total != 3 || snap.Bucket.Males != 2 || snap.Bucket.MalePercent != 67 || snap.Bucket.FemalePercent != 33 {
		t.Errorf("Step 6 - unexpected bucket: %+v", snap.Bucket)
	}
	if len(snap.Bucket.Positions) == 0 || snap.Bucket.Positions[0].Key != "WELDER" {
		t.Errorf("Step 6 - expected WELDER to lead positions, got %+v", snap.Bucket.Positions)
	}
	t.Log("Step 6 - report built")
}
