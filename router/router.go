// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/exam-intake/cliparse"
	"github.com/danielhkuo/exam-intake/handlers"
	"github.com/danielhkuo/exam-intake/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	storeHandler := handlers.NewStoreHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			middleware.ErrorResponse(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Metrics
	mux.Handle("GET /metrics", middleware.MetricsHandler())

	// Store actions
	mux.HandleFunc("POST /exec", middleware.WithRequestID(middleware.WithLogging(storeHandler.Exec)))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			middleware.ErrorResponse(w, http.StatusNotFound, "no route for "+r.URL.Path)
			return
		}
		w.Write([]byte("exam-intake store v1"))
	})

	return mux
}
