// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the candidate store.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

	GET  /health  - 200 "OK" when the database answers a ping
	GET  /metrics - Prometheus metrics
	POST /exec    - store actions (see package handlers)
	GET  /        - banner

/exec is wrapped with request-id tagging and request logging. CORS is
applied around the whole mux in main.go.
*/
package router
