// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/danielhkuo/exam-intake/cliparse"
	"github.com/danielhkuo/exam-intake/middleware"
	"github.com/danielhkuo/exam-intake/models"
)

// maxBodyBytes bounds a single action request.
const maxBodyBytes = 1 << 20

// actionFunc handles one decoded action. A non-nil error is an internal
// failure; business outcomes are reported through the response status.
type actionFunc func(ctx context.Context, body []byte) (models.StoreResponse, error)

// rejection is a business refusal raised inside a transaction.
type rejection struct {
	message string
}

func (r *rejection) Error() string { return r.message }

func reject(format string, args ...any) error {
	return &rejection{message: fmt.Sprintf(format, args...)}
}

type StoreHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	qb      sq.StatementBuilderType
	actions map[string]actionFunc
	now     func() time.Time
}

func NewStoreHandler(db *sql.DB, cfg cliparse.Config) *StoreHandler {
	h := &StoreHandler{
		db:  db,
		cfg: cfg,
		qb:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		now: time.Now,
	}
	h.actions = map[string]actionFunc{
		models.ActionTestConnection:        h.testConnection,
		models.ActionGetOptions:            h.getOptions,
		models.ActionSearch:                h.search,
		models.ActionSubmit:                h.submit,
		models.ActionUpdate:                h.update,
		models.ActionGetScreeningData:      h.getScreeningData,
		models.ActionSaveScreeningScore:    h.saveScreeningScore,
		models.ActionSaveScreeningKnockout: h.saveScreeningKnockout,
		models.ActionGetExamResults:        h.getExamResults,
		models.ActionBulkUpdateResult:      h.bulkUpdateResult,
		models.ActionGetReport:             h.getReport,
	}
	return h
}

// Exec handles POST /exec
func (h *StoreHandler) Exec(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var body json.RawMessage
	if err := middleware.ParseJSONBody(r, &body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.StoreError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		middleware.StoreError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var req models.ActionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		middleware.StoreError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	handle, ok := h.actions[req.Action]
	if !ok {
		middleware.ObserveAction("unknown", models.StatusError, time.Since(start))
		middleware.JSONResponse(w, http.StatusOK, errorReply("unknown action %q", req.Action))
		return
	}

	resp, err := handle(r.Context(), body)
	statusCode := http.StatusOK
	if err != nil {
		slog.Error("store action failed",
			"action", req.Action,
			"request_id", middleware.RequestID(r.Context()),
			"error", err,
		)
		resp = models.StoreResponse{Status: models.StatusError, Message: "Database error"}
		statusCode = http.StatusInternalServerError
	}

	middleware.ObserveAction(req.Action, resp.Status, time.Since(start))
	middleware.JSONResponse(w, statusCode, resp)
}

func success(message string, data any) models.StoreResponse {
	return models.StoreResponse{Status: models.StatusSuccess, Message: message, Data: data}
}

func errorReply(format string, args ...any) models.StoreResponse {
	return models.StoreResponse{Status: models.StatusError, Message: fmt.Sprintf(format, args...)}
}

// decode unmarshals the typed request. A bad shape is the caller's fault.
func decode(body []byte, v any) *models.StoreResponse {
	if err := json.Unmarshal(body, v); err != nil {
		resp := errorReply("invalid request: %v", err)
		return &resp
	}
	return nil
}

// withTx runs fn in a transaction. A rejection from fn rolls back and
// becomes a business error reply.
func (h *StoreHandler) withTx(ctx context.Context, fn func(tx *sql.Tx) (models.StoreResponse, error)) (models.StoreResponse, error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return models.StoreResponse{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	resp, err := fn(tx)
	if err != nil {
		var rej *rejection
		if errors.As(err, &rej) {
			return errorReply("%s", rej.message), nil
		}
		return models.StoreResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.StoreResponse{}, fmt.Errorf("commit: %w", err)
	}
	return resp, nil
}

// dateRange adds inclusive exam_date bounds. Blank bounds are open.
func dateRange(q sq.SelectBuilder, start, end string) sq.SelectBuilder {
	if start = models.NormalizeDate(start); start != "" {
		q = q.Where(sq.GtOrEq{"exam_date": start})
	}
	if end = models.NormalizeDate(end); end != "" {
		q = q.Where(sq.LtOrEq{"exam_date": end})
	}
	return q
}

// runner is satisfied by both *sql.DB and *sql.Tx.
type runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// updateRow runs an UPDATE of one candidate row and rejects unknown rows.
func updateRow(ctx context.Context, db runner, q sq.UpdateBuilder, row int) error {
	query, args, err := q.Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).Where(sq.Eq{"id": row}).ToSql()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update row %d: %w", row, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return reject("row %d not found", row)
	}
	return nil
}
