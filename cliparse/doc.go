// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns the store server's Config:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

ParseClientFlags returns intakectl's ClientConfig and the remaining
arguments (subcommand first):

	cfg, args, err := cliparse.ParseClientFlags(os.Args[1:])

# Server Flags

	-p       Server port (default: 3318)
	-d       Database URL (default for sqlite: file:exam-intake.db)
	-t       Database type: sqlite (default) or postgres
	-origin  Allowed CORS origin
	-env     Environment file (default: .env)

# Client Flags

	-store    Store URL (default: http://localhost:3318/exec)
	-timeout  Per-call timeout (default: 15s)
	-order    Ranked sheet order: male-first (default) or female-first
	-v        Debug logging

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	ALLOW_ORIGIN  → -origin
	STORE_URL     → -store
	TIMEOUT       → -timeout
	GROUP_ORDER   → -order

Variables may also come from the -env file, loaded with godotenv. Values
already in the environment win over the file, and CLI flags win over both.
A missing file is ignored.

# Validation

ParseFlags returns an error if:

  - the database type is neither sqlite nor postgres
  - postgres is selected without a DATABASE_URL
  - PORT is not a number
*/
package cliparse
