// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request IDs

WithRequestID reads X-Request-ID from the request, or generates a uuid, and
stores it in the request context and the response header:

	mux.HandleFunc("POST /exec", middleware.WithRequestID(middleware.WithLogging(h)))

RequestID(ctx) returns it to handlers and log calls.

# Request Logging

WithLogging logs request start (method, path, remote, request_id) and
completion (duration_ms).

# Metrics

ObserveAction counts store actions by action and reply status and records
their latency. MetricsHandler serves Registry, which also carries the Go
runtime and process collectors:

	mux.Handle("GET /metrics", middleware.MetricsHandler())

# CORS Middleware

Enable cross-origin requests for browser front ends:

	server := http.Server{
		Handler: middleware.CORS(cfg.AllowOrigin)(mux),
	}

An empty origin echoes the caller's Origin header. Allows GET, POST and
OPTIONS with Content-Type and X-Request-ID.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, "not found")
	middleware.StoreError(w, http.StatusBadRequest, "Invalid JSON")

ErrorResponse writes models.ErrorResponse; StoreError writes the store
envelope with status "error".

Parse request bodies:

	var req models.SearchRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.StoreError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP

GetClientIP checks X-Forwarded-For, then X-Real-IP, then RemoteAddr.
*/
package middleware
