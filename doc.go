// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the exam-intake store server.

exam-intake registers candidates for recruitment exams, ranks them after
screening, records final results and reports on the pool. This binary is
the record store: a single POST /exec endpoint that accepts JSON actions
and replies with a {status, message, data} envelope. The operator side is
cmd/intakectl.

# Starting the Server

With no configuration the server uses a local SQLite file:

	go run .

Or against PostgreSQL:

	DATABASE_TYPE=postgres DATABASE_URL=postgres://... go run .

Or with flags:

	go run . -p 3318 -t sqlite -d "file:exam-intake.db"

# Configuration

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): connection string (required for postgres)
  - ALLOW_ORIGIN (-origin): CORS origin (default: echo the request Origin)

A .env file is read first when present (-env selects another path).

# Architecture

  - handlers: the action dispatcher and one handler per action
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, request ids, metrics, JSON helpers
  - models: wire types and value normalization
  - db: connection setup and schema creation
  - cliparse: Configuration parsing
  - scoring, ranking, intake, screening, results, report: domain logic
    shared with the client
  - storeclient: typed HTTP client for the actions

See package documentation for each component.
*/
package main
