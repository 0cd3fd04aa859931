// Package api is the serverless entry. The platform invokes Handler for
// every request; the router is built once per instance.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"

	"github.com/tagonlink/tagonlink/internal/app"
	"github.com/tagonlink/tagonlink/internal/config"
	"github.com/tagonlink/tagonlink/internal/handler/dto"
)

// Only a successful init is kept; a failed one is retried on the next
// request.
var (
	mu      sync.Mutex
	handler http.Handler
)

func setup() (http.Handler, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := app.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		return nil, err
	}
	return a.Handler, nil
}

func current() (http.Handler, error) {
	mu.Lock()
	defer mu.Unlock()

	if handler != nil {
		return handler, nil
	}

	h, err := setup()
	if err != nil {
		return nil, err
	}
	handler = h
	return handler, nil
}

// Handler serves one request through the shared router.
func Handler(w http.ResponseWriter, r *http.Request) {
	h, err := current()
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "service unavailable", Code: "INIT_FAILED"})
		return
	}
	h.ServeHTTP(w, r)
}
