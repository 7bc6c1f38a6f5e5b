// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, wire and report types shared by the store
server, the store client and the session packages.

# Domain Types

  - CandidateRecord: one registration for one exam date
  - ScoreSheetRow: one screening row; Total is always re-derived
  - ResultRecord: one finalized result row with a local Dirty flag
  - SourceLocation: sheet + row address, the only update key
  - RawReport / ReportBucket: report input and derived view

# Normalization

Free-text enums are normalized once, when decoded:

	ParseSex("ชาย")     // SexMale
	ParseSex("female")  // SexFemale
	ParseRemark(" pass") // RemarkPass

Cell accepts JSON strings, numbers and null, since spreadsheet-backed
stores send numeric-looking cells as numbers:

	{"regNo": 1}   → RegNo == "1"
	PadSequence("1") → "001"

OrderedCounts keeps the key order of a JSON object, which the report's
"ties keep encounter order" rule depends on.

# Wire Protocol

Every store request is a JSON object with an "action" discriminator:

	ActionSearch, ActionSubmit, ActionUpdate, ActionGetScreeningData,
	ActionSaveScreeningScore, ActionSaveScreeningKnockout,
	ActionGetExamResults, ActionBulkUpdateResult, ActionGetReport,
	ActionGetOptions, ActionTestConnection

Every reply carries a "status":

	StatusSuccess, StatusFound, StatusNotFound, StatusDuplicate, StatusError
*/
package models
