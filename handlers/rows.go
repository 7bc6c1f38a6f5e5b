// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/danielhkuo/exam-intake/models"
)

var candidateColumns = []string{
	"id", "passport", "exam_date", "reg_no", "test_no", "full_name", "dob",
	"gender", "employer", "position", "job_line",
	"score_eng", "score_pers", "score_exp", "screening_remark", "result",
}

// candidateRow is one candidate table row as stored.
type candidateRow struct {
	ID              int
	Passport        string
	ExamDate        string
	RegNo           string
	TestNo          string
	FullName        string
	DOB             string
	Gender          string
	Employer        string
	Position        string
	JobLine         string
	ScoreEng        string
	ScorePers       string
	ScoreExp        string
	ScreeningRemark string
	Result          string
}

func (c *candidateRow) scan(rows *sql.Rows) error {
	return rows.Scan(
		&c.ID, &c.Passport, &c.ExamDate, &c.RegNo, &c.TestNo, &c.FullName, &c.DOB,
		&c.Gender, &c.Employer, &c.Position, &c.JobLine,
		&c.ScoreEng, &c.ScorePers, &c.ScoreExp, &c.ScreeningRemark, &c.Result,
	)
}

func (c candidateRow) location() models.SourceLocation {
	return models.SourceLocation{Sheet: models.SheetCandidate, Row: c.ID}
}

func (c candidateRow) candidate() models.CandidateRecord {
	return models.CandidateRecord{
		SourceLocation: c.location(),
		Passport:       c.Passport,
		ExamDate:       c.ExamDate,
		RegNo:          models.Cell(c.RegNo),
		TestNo:         models.Cell(c.TestNo),
		FullName:       c.FullName,
		DOB:            c.DOB,
		Sex:            models.ParseSex(c.Gender),
		Employer:       c.Employer,
		Position:       c.Position,
		JobLine:        c.JobLine,
	}
}

func (c candidateRow) scoreRow() models.ScoreSheetRow {
	row := models.ScoreSheetRow{
		SourceLocation: c.location(),
		RegNo:          models.Cell(c.RegNo),
		TestNo:         models.Cell(c.TestNo),
		FullName:       c.FullName,
		Sex:            models.ParseSex(c.Gender),
		Passport:       c.Passport,
		ScoreEng:       models.Cell(c.ScoreEng),
		ScorePers:      models.Cell(c.ScorePers),
		ScoreExp:       models.Cell(c.ScoreExp),
		Remark:         models.ParseRemark(c.ScreeningRemark),
	}
	row.Recompute()
	return row
}

func (c candidateRow) result() models.ResultRecord {
	return models.ResultRecord{
		SourceLocation: c.location(),
		TestNo:         models.Cell(c.TestNo),
		FullName:       c.FullName,
		Sex:            models.ParseSex(c.Gender),
		Position:       c.Position,
		JobLine:        c.JobLine,
		Remark:         models.ParseRemark(c.Result),
		DOB:            c.DOB,
		Passport:       c.Passport,
		ExamDate:       c.ExamDate,
	}
}

// queryCandidates runs a select over candidateColumns.
func (h *StoreHandler) queryCandidates(ctx context.Context, q sq.SelectBuilder) ([]candidateRow, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var out []candidateRow
	for rows.Next() {
		var c candidateRow
		if err := c.scan(rows); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (h *StoreHandler) selectCandidates() sq.SelectBuilder {
	return h.qb.Select(candidateColumns...).From("candidate")
}
