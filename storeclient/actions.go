// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storeclient

import (
	"context"

	"github.com/danielhkuo/exam-intake/models"
)

// TestConnection asks the store to answer at all.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.call(ctx, models.ActionTestConnection, actionOnly(models.ActionTestConnection), nil)
	return err
}

// Reachable reports whether TestConnection succeeds.
func (c *Client) Reachable(ctx context.Context) bool {
	return c.TestConnection(ctx) == nil
}

// GetOptions returns the registration suggestion lists.
func (c *Client) GetOptions(ctx context.Context) (models.Options, error) {
	var opts models.Options
	_, err := c.call(ctx, models.ActionGetOptions, actionOnly(models.ActionGetOptions), &opts)
	return opts, err
}

// Search returns every record with the identifier. Not found is a nil
// slice and a nil error.
func (c *Client) Search(ctx context.Context, passport string) ([]models.CandidateRecord, error) {
	req := models.SearchRequest{
		ActionRequest: actionOnly(models.ActionSearch),
		Passport:      models.NormalizeIdentifier(passport),
	}
	var hits []models.CandidateRecord
	resp, err := c.call(ctx, models.ActionSearch, req, &hits, models.StatusFound, models.StatusNotFound)
	if err != nil {
		return nil, err
	}
	if resp.Status == models.StatusNotFound {
		return nil, nil
	}
	return hits, nil
}

// Submit writes a new record. The store answers a same-day duplicate with
// an error matching ErrDuplicate unless allowDuplicate is set.
func (c *Client) Submit(ctx context.Context, rec models.CandidateRecord, allowDuplicate bool) (string, error) {
	rec.SourceLocation = models.SourceLocation{}
	req := models.SubmitRequest{
		ActionRequest:   actionOnly(models.ActionSubmit),
		CandidateRecord: rec,
		AllowDuplicate:  allowDuplicate,
	}
	resp, err := c.call(ctx, models.ActionSubmit, req, nil)
	return resp.Message, err
}

// Update overwrites the record at rec's source location.
func (c *Client) Update(ctx context.Context, rec models.CandidateRecord) (string, error) {
	req := models.SubmitRequest{
		ActionRequest:   actionOnly(models.ActionUpdate),
		CandidateRecord: rec,
	}
	resp, err := c.call(ctx, models.ActionUpdate, req, nil)
	return resp.Message, err
}

// GetScreeningData returns the score sheet for a date range.
func (c *Client) GetScreeningData(ctx context.Context, start, end string) ([]models.ScoreSheetRow, error) {
	var rows []models.ScoreSheetRow
	_, err := c.call(ctx, models.ActionGetScreeningData, dateRange(models.ActionGetScreeningData, start, end), &rows)
	return rows, err
}

// SaveScreeningScore writes a ranked batch and its exam date.
func (c *Client) SaveScreeningScore(ctx context.Context, updates []models.ScoreUpdate, examDate string) (string, error) {
	req := models.SaveScoreRequest{
		ActionRequest: actionOnly(models.ActionSaveScreeningScore),
		Updates:       updates,
		ExamDate:      examDate,
	}
	resp, err := c.call(ctx, models.ActionSaveScreeningScore, req, nil)
	return resp.Message, err
}

// SaveScreeningKnockout writes knockout remarks.
func (c *Client) SaveScreeningKnockout(ctx context.Context, updates []models.KnockoutUpdate) (string, error) {
	req := models.SaveKnockoutRequest{
		ActionRequest: actionOnly(models.ActionSaveScreeningKnockout),
		Updates:       updates,
	}
	resp, err := c.call(ctx, models.ActionSaveScreeningKnockout, req, nil)
	return resp.Message, err
}

// GetExamResults returns the result set for a date range.
func (c *Client) GetExamResults(ctx context.Context, start, end string) ([]models.ResultRecord, error) {
	var rows []models.ResultRecord
	_, err := c.call(ctx, models.ActionGetExamResults, dateRange(models.ActionGetExamResults, start, end), &rows)
	return rows, err
}

// BulkUpdateResult writes final results.
func (c *Client) BulkUpdateResult(ctx context.Context, updates []models.ResultUpdate) (string, error) {
	req := models.BulkResultRequest{
		ActionRequest: actionOnly(models.ActionBulkUpdateResult),
		Updates:       updates,
	}
	resp, err := c.call(ctx, models.ActionBulkUpdateResult, req, nil)
	return resp.Message, err
}

// GetReport returns raw dashboard counts for a date range.
func (c *Client) GetReport(ctx context.Context, start, end string) (models.RawReport, error) {
	var raw models.RawReport
	_, err := c.call(ctx, models.ActionGetReport, dateRange(models.ActionGetReport, start, end), &raw)
	return raw, err
}
