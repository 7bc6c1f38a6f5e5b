// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/danielhkuo/exam-intake/models"
	"github.com/danielhkuo/exam-intake/report"
)

// getExamResults handles action "getExamResults"
// Candidates knocked out at screening are not part of the result set.
func (h *StoreHandler) getExamResults(ctx context.Context, body []byte) (models.StoreResponse, error) {
	var req models.DateRangeRequest
	if bad := decode(body, &req); bad != nil {
		return *bad, nil
	}

	rows, err := h.queryCandidates(ctx, dateRange(h.selectCandidates(), req.StartDate, req.EndDate).
		Where(sq.NotEq{"screening_remark": string(models.RemarkFail)}).
		OrderBy("exam_date", "test_no", "id"))
	if err != nil {
		return models.StoreResponse{}, err
	}

	out := make([]models.ResultRecord, len(rows))
	for i, c := range rows {
		out[i] = c.result()
	}
	return success("", out), nil
}

// bulkUpdateResult handles action "bulkUpdateResult"
func (h *StoreHandler) bulkUpdateResult(ctx context.Context, body []byte) (models.StoreResponse, error) {
	var req models.BulkResultRequest
	if bad := decode(body, &req); bad != nil {
		return *bad, nil
	}
	if len(req.Updates) == 0 {
		return errorReply("no updates"), nil
	}

	return h.withTx(ctx, func(tx *sql.Tx) (models.StoreResponse, error) {
		for _, u := range req.Updates {
			q := h.qb.Update("candidate").Set("result", string(u.Result))
			if err := updateRow(ctx, tx, q, u.Row); err != nil {
				return models.StoreResponse{}, err
			}
		}
		slog.Info("exam results saved", "rows", len(req.Updates))
		return success(fmt.Sprintf("saved %d results", len(req.Updates)), nil), nil
	})
}

// getReport handles action "getReport"
// Ages are taken on the day the report is requested.
func (h *StoreHandler) getReport(ctx context.Context, body []byte) (models.StoreResponse, error) {
	var req models.DateRangeRequest
	if bad := decode(body, &req); bad != nil {
		return *bad, nil
	}

	rows, err := h.queryCandidates(ctx, dateRange(h.selectCandidates(), req.StartDate, req.EndDate).
		OrderBy("id"))
	if err != nil {
		return models.StoreResponse{}, err
	}

	raw := models.RawReport{
		AgeGroups: make(models.OrderedCounts, len(models.AgeBuckets)),
		Positions: models.OrderedCounts{},
	}
	for i, bucket := range models.AgeBuckets {
		raw.AgeGroups[i] = models.Count{Key: bucket}
	}
	positions := map[string]int{}

	today := h.now()
	for _, c := range rows {
		switch models.ParseSex(c.Gender) {
		case models.SexMale:
			raw.Males++
		case models.SexFemale:
			raw.Females++
		}

		if age, ok := models.AgeAt(c.DOB, today); ok {
			if bucket := report.AgeBucket(age); bucket != "" {
				for i := range raw.AgeGroups {
					if raw.AgeGroups[i].Key == bucket {
						raw.AgeGroups[i].Count++
					}
				}
			}
		}

		if c.Position == "" {
			continue
		}
		if i, seen := positions[c.Position]; seen {
			raw.Positions[i].Count++
			continue
		}
		positions[c.Position] = len(raw.Positions)
		raw.Positions = append(raw.Positions, models.Count{Key: c.Position, Count: 1})
	}

	return success("", raw), nil
}
