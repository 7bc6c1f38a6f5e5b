// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "encoding/json"

// Store actions
const (
	ActionTestConnection        = "testConnection"
	ActionGetOptions            = "getOptions"
	ActionSearch                = "search"
	ActionSubmit                = "submit"
	ActionUpdate                = "update"
	ActionGetScreeningData      = "getScreeningData"
	ActionSaveScreeningScore    = "saveScreeningScore"
	ActionSaveScreeningKnockout = "saveScreeningKnockout"
	ActionGetExamResults        = "getExamResults"
	ActionBulkUpdateResult      = "bulkUpdateResult"
	ActionGetReport             = "getReport"
)

// Store response statuses
const (
	StatusSuccess   = "success"
	StatusFound     = "found"
	StatusNotFound  = "notFound"
	StatusDuplicate = "duplicate"
	StatusError     = "error"
)

// Request types

// ActionRequest carries only the discriminator; every request embeds it.
type ActionRequest struct {
	Action string `json:"action"`
}

type SearchRequest struct {
	ActionRequest
	Passport string `json:"passport"`
}

// SubmitRequest serves both submit (new record) and update (SourceLocation set).
type SubmitRequest struct {
	ActionRequest
	CandidateRecord
	AllowDuplicate bool `json:"allowDuplicate,omitempty"`
}

type DateRangeRequest struct {
	ActionRequest
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type ScoreUpdate struct {
	Row      int     `json:"rowIndex"`
	Eng      Cell    `json:"eng"`
	Personal Cell    `json:"personal"`
	Exp      Cell    `json:"exp"`
	Total    float64 `json:"total"`
	TestNo   Cell    `json:"testNo"`
}

type SaveScoreRequest struct {
	ActionRequest
	Updates  []ScoreUpdate `json:"updates"`
	ExamDate string        `json:"examDate"`
}

type KnockoutUpdate struct {
	Row    int    `json:"rowIndex"`
	Remark Remark `json:"remark"`
}

type SaveKnockoutRequest struct {
	ActionRequest
	Updates []KnockoutUpdate `json:"updates"`
}

type ResultUpdate struct {
	Row    int    `json:"rowIndex"`
	Result Remark `json:"result"`
}

type BulkResultRequest struct {
	ActionRequest
	Updates []ResultUpdate `json:"updates"`
}

// Response types

// StoreResponse is the envelope of every store reply.
type StoreResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// RawStoreResponse is StoreResponse with the payload left undecoded.
type RawStoreResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
