// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP handler of the candidate store.

# Handler Types

StoreHandler is a struct with database and config dependencies, created
via a constructor that accepts *sql.DB and Config:

	storeHandler := handlers.NewStoreHandler(db, cfg)

# Action Endpoint

Every operation is a POST /exec with a JSON body whose "action" field
selects the handler:

	testConnection        → ping the database
	getOptions            → distinct employers, positions, job lines
	search                → all records for a passport (found | notFound)
	submit                → insert (duplicate when same exam date on file)
	update                → overwrite the record at rowIndex
	getScreeningData      → score sheet for a date range
	saveScreeningScore    → batch: scores, test numbers, exam date
	saveScreeningKnockout → batch: screening remarks
	getExamResults        → result set, FAIL knockouts excluded
	bulkUpdateResult      → batch: final results
	getReport             → sex, age bucket and position counts

The reply is always {"status", "message", "data"}. Business outcomes,
including refusals, are HTTP 200 with a status of success, found,
notFound, duplicate or error. Malformed JSON is a 400 and a body over
1 MiB a 413. A database failure is a 500. All of these carry status error.

# Source Locations

A record's location is {"sourceSheet": "candidate", "rowIndex": id}, the
id being the candidate table's primary key. update and every batch action
address rows only by rowIndex.

# Batches

saveScreeningScore, saveScreeningKnockout and bulkUpdateResult run in a
single transaction. An unknown rowIndex rejects the whole batch and
nothing is written. saveScreeningScore re-derives each total from the
three components, pads test numbers, writes the batch exam date onto every
row, and records the batch in score_batch under a new uuid.

# Duplicate Check

submit without allowDuplicate loads the passport's history and answers
status duplicate if any record shares the exam date. The check compares
the date only.

# Query Building

SQL is built with squirrel using $n placeholders, which both lib/pq and
modernc.org/sqlite accept.
*/
package handlers
