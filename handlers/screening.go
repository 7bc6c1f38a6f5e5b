// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/exam-intake/models"
	"github.com/danielhkuo/exam-intake/scoring"
	"github.com/google/uuid"
)

// getScreeningData handles action "getScreeningData"
func (h *StoreHandler) getScreeningData(ctx context.Context, body []byte) (models.StoreResponse, error) {
	var req models.DateRangeRequest
	if bad := decode(body, &req); bad != nil {
		return *bad, nil
	}

	rows, err := h.queryCandidates(ctx, dateRange(h.selectCandidates(), req.StartDate, req.EndDate).
		OrderBy("exam_date", "reg_no", "id"))
	if err != nil {
		return models.StoreResponse{}, err
	}

	sheet := make([]models.ScoreSheetRow, len(rows))
	for i, c := range rows {
		sheet[i] = c.scoreRow()
	}
	return success("", sheet), nil
}

// saveScreeningScore handles action "saveScreeningScore"
func (h *StoreHandler) saveScreeningScore(ctx context.Context, body []byte) (models.StoreResponse, error) {
	var req models.SaveScoreRequest
	if bad := decode(body, &req); bad != nil {
		return *bad, nil
	}
	if len(req.Updates) == 0 {
		return errorReply("no updates"), nil
	}
	if _, ok := models.ParseDate(req.ExamDate); !ok {
		return errorReply("examDate %q is not a date", req.ExamDate), nil
	}
	examDate := models.NormalizeDate(req.ExamDate)
	batchID := uuid.NewString()

	resp, err := h.withTx(ctx, func(tx *sql.Tx) (models.StoreResponse, error) {
		for _, u := range req.Updates {
			// Total is re-derived here; the client's figure is advisory.
			total := scoring.Total(string(u.Eng), string(u.Personal), string(u.Exp))
			q := h.qb.Update("candidate").SetMap(map[string]any{
				"score_eng":   string(u.Eng),
				"score_pers":  string(u.Personal),
				"score_exp":   string(u.Exp),
				"score_total": total,
				"test_no":     models.PadSequence(string(u.TestNo)),
				"exam_date":   examDate,
			})
			if err := updateRow(ctx, tx, q, u.Row); err != nil {
				return models.StoreResponse{}, err
			}
		}

		query, args, err := h.qb.Insert("score_batch").
			Columns("id", "exam_date", "row_count").
			Values(batchID, examDate, len(req.Updates)).
			ToSql()
		if err != nil {
			return models.StoreResponse{}, err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return models.StoreResponse{}, fmt.Errorf("insert score batch: %w", err)
		}

		return success(fmt.Sprintf("saved %d rows", len(req.Updates)), map[string]string{"batchId": batchID}), nil
	})
	if err == nil && resp.Status == models.StatusSuccess {
		slog.Info("score batch saved", "batch_id", batchID, "exam_date", examDate, "rows", len(req.Updates))
	}
	return resp, err
}

// saveScreeningKnockout handles action "saveScreeningKnockout"
func (h *StoreHandler) saveScreeningKnockout(ctx context.Context, body []byte) (models.StoreResponse, error) {
	var req models.SaveKnockoutRequest
	if bad := decode(body, &req); bad != nil {
		return *bad, nil
	}
	if len(req.Updates) == 0 {
		return errorReply("no updates"), nil
	}

	return h.withTx(ctx, func(tx *sql.Tx) (models.StoreResponse, error) {
		for _, u := range req.Updates {
			q := h.qb.Update("candidate").Set("screening_remark", string(u.Remark))
			if err := updateRow(ctx, tx, q, u.Row); err != nil {
				return models.StoreResponse{}, err
			}
		}
		slog.Info("knockout remarks saved", "rows", len(req.Updates))
		return success(fmt.Sprintf("saved %d remarks", len(req.Updates)), nil), nil
	})
}
