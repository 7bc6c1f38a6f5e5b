// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/danielhkuo/exam-intake/intake"
	"github.com/danielhkuo/exam-intake/models"
)

// testConnection handles action "testConnection"
func (h *StoreHandler) testConnection(ctx context.Context, body []byte) (models.StoreResponse, error) {
	if err := h.db.PingContext(ctx); err != nil {
		return models.StoreResponse{}, fmt.Errorf("ping: %w", err)
	}
	return success("connected", nil), nil
}

// getOptions handles action "getOptions"
func (h *StoreHandler) getOptions(ctx context.Context, body []byte) (models.StoreResponse, error) {
	var opts models.Options
	var err error

	if opts.Employers, err = h.distinct(ctx, "employer"); err != nil {
		return models.StoreResponse{}, err
	}
	if opts.Positions, err = h.distinct(ctx, "position"); err != nil {
		return models.StoreResponse{}, err
	}
	if opts.JobLines, err = h.distinct(ctx, "job_line"); err != nil {
		return models.StoreResponse{}, err
	}

	return success("", opts), nil
}

func (h *StoreHandler) distinct(ctx context.Context, column string) ([]string, error) {
	query, args, err := h.qb.Select(column).Distinct().
		From("candidate").
		Where(sq.NotEq{column: ""}).
		OrderBy(column).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (h *StoreHandler) history(ctx context.Context, passport string) ([]models.CandidateRecord, error) {
	rows, err := h.queryCandidates(ctx, h.selectCandidates().
		Where(sq.Eq{"passport": passport}).
		OrderBy("exam_date DESC", "id DESC"))
	if err != nil {
		return nil, err
	}
	out := make([]models.CandidateRecord, len(rows))
	for i, c := range rows {
		out[i] = c.candidate()
	}
	return out, nil
}

// search handles action "search"
func (h *StoreHandler) search(ctx context.Context, body []byte) (models.StoreResponse, error) {
	var req models.SearchRequest
	if bad := decode(body, &req); bad != nil {
		return *bad, nil
	}

	passport := models.NormalizeIdentifier(req.Passport)
	if passport == "" {
		return errorReply("passport is required"), nil
	}

	hits, err := h.history(ctx, passport)
	if err != nil {
		return models.StoreResponse{}, err
	}
	if len(hits) == 0 {
		return models.StoreResponse{Status: models.StatusNotFound, Message: "no record for " + passport}, nil
	}
	return models.StoreResponse{Status: models.StatusFound, Data: hits}, nil
}

// validRecord decodes and checks a submit/update body.
func validRecord(body []byte) (models.SubmitRequest, *models.StoreResponse) {
	var req models.SubmitRequest
	if bad := decode(body, &req); bad != nil {
		return req, bad
	}
	req.CandidateRecord = req.CandidateRecord.Normalize()
	if err := intake.Validate(req.CandidateRecord); err != nil {
		resp := errorReply("%s", validationMessage(err))
		return req, &resp
	}
	return req, nil
}

// validationMessage strips the ErrValidation prefix for the operator.
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), models.ErrValidation.Error()+": ")
}

// submit handles action "submit"
func (h *StoreHandler) submit(ctx context.Context, body []byte) (models.StoreResponse, error) {
	req, bad := validRecord(body)
	if bad != nil {
		return *bad, nil
	}
	rec := req.CandidateRecord

	if !req.AllowDuplicate {
		history, err := h.history(ctx, rec.Passport)
		if err != nil {
			return models.StoreResponse{}, err
		}
		if intake.HasSameDayEntry(history, rec.ExamDate) {
			return models.StoreResponse{
				Status:  models.StatusDuplicate,
				Message: fmt.Sprintf("%s is already registered on %s", rec.Passport, rec.ExamDate),
			}, nil
		}
	}

	query, args, err := h.qb.Insert("candidate").
		Columns("passport", "exam_date", "reg_no", "test_no", "full_name", "dob",
			"gender", "employer", "position", "job_line").
		Values(rec.Passport, rec.ExamDate, string(rec.RegNo), string(rec.TestNo), rec.FullName, rec.DOB,
			string(rec.Sex), rec.Employer, rec.Position, rec.JobLine).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return models.StoreResponse{}, err
	}

	var id int
	if err := h.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return models.StoreResponse{}, fmt.Errorf("insert candidate: %w", err)
	}

	slog.Info("candidate registered", "row", id, "passport", rec.Passport, "exam_date", rec.ExamDate, "duplicate_allowed", req.AllowDuplicate)
	return success("saved", models.SourceLocation{Sheet: models.SheetCandidate, Row: id}), nil
}

// update handles action "update"
func (h *StoreHandler) update(ctx context.Context, body []byte) (models.StoreResponse, error) {
	req, bad := validRecord(body)
	if bad != nil {
		return *bad, nil
	}
	rec := req.CandidateRecord

	if rec.IsZero() {
		return errorReply("rowIndex is required for update"), nil
	}
	if rec.Sheet != "" && rec.Sheet != models.SheetCandidate {
		return errorReply("unknown sheet %q", rec.Sheet), nil
	}

	q := h.qb.Update("candidate").SetMap(map[string]any{
		"passport":  rec.Passport,
		"exam_date": rec.ExamDate,
		"reg_no":    string(rec.RegNo),
		"test_no":   string(rec.TestNo),
		"full_name": rec.FullName,
		"dob":       rec.DOB,
		"gender":    string(rec.Sex),
		"employer":  rec.Employer,
		"position":  rec.Position,
		"job_line":  rec.JobLine,
	})
	if err := updateRow(ctx, h.db, q, rec.Row); err != nil {
		var rej *rejection
		if errors.As(err, &rej) {
			return errorReply("%s", rej.message), nil
		}
		return models.StoreResponse{}, err
	}

	slog.Info("candidate updated", "row", rec.Row, "passport", rec.Passport)
	return success("updated", rec.SourceLocation), nil
}
