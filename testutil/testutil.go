// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/danielhkuo/exam-intake/cliparse"
	"github.com/danielhkuo/exam-intake/db"
	"github.com/danielhkuo/exam-intake/models"
)

// TestDBURL is the connection string for the test database
const TestDBURL = ":memory:"

// SetupTestDB creates a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), db.DriverSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  TestDBURL,
		DatabaseType: cliparse.DatabaseSQLite,
		AllowOrigin:  "*",
	}
}

// TestCandidate describes a row to seed. Blank fields are stored blank.
type TestCandidate struct {
	Passport        string
	ExamDate        string
	RegNo           string
	TestNo          string
	FullName        string
	DOB             string
	Gender          string
	Position        string
	JobLine         string
	ScoreEng        string
	ScorePers       string
	ScoreExp        string
	ScreeningRemark string
	Result          string
}

// CreateTestCandidate inserts a candidate row and returns its row id
func CreateTestCandidate(t *testing.T, conn *sql.DB, c TestCandidate) int {
	t.Helper()

	if c.FullName == "" {
		c.FullName = "TEST CANDIDATE"
	}

	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Insert("candidate").
		Columns("passport", "exam_date", "reg_no", "test_no", "full_name", "dob", "gender",
			"employer", "position", "job_line", "score_eng", "score_pers", "score_exp",
			"screening_remark", "result").
		Values(c.Passport, c.ExamDate, c.RegNo, c.TestNo, c.FullName, c.DOB, c.Gender,
			"TEST EMPLOYER", c.Position, c.JobLine, c.ScoreEng, c.ScorePers, c.ScoreExp,
			c.ScreeningRemark, c.Result).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		t.Fatalf("Failed to build insert: %v", err)
	}

	var id int
	if err := conn.QueryRow(query, args...).Scan(&id); err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
	return id
}

// ActionBody builds an /exec request body from an action name and fields
func ActionBody(action string, fields map[string]any) map[string]any {
	body := map[string]any{"action": action}
	for k, v := range fields {
		body[k] = v
	}
	return body
}

// Exec posts an action to handler and decodes the store reply
func Exec(t *testing.T, handler http.HandlerFunc, body any) (*httptest.ResponseRecorder, models.RawStoreResponse) {
	t.Helper()

	w := httptest.NewRecorder()
	handler(w, MakeRequest("POST", "/exec", body, nil))

	var resp models.RawStoreResponse
	if w.Code == http.StatusOK || w.Code == http.StatusInternalServerError {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode JSON response: %v. Body: %s", err, w.Body.String())
		}
	}
	return w, resp
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
