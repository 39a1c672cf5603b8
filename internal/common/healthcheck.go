package common

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/pulseboard/pulseboard/params"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// StartHealthCheckServer serves liveness and readiness probes on a side port,
// separate from the API listener. Readiness requires both MySQL and Redis to
// answer a ping; the response body names the dependency that failed.
func StartHealthCheckServer(ctx context.Context, done chan struct{}, rdb redis.UniversalClient, db *gorm.DB) {
	defer close(done)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{"mysql": "ok", "redis": "ok"}
		healthy := true

		if sqlDB, err := db.DB(); err != nil {
			checks["mysql"] = err.Error()
			healthy = false
		} else if err := sqlDB.PingContext(r.Context()); err != nil {
			checks["mysql"] = err.Error()
			healthy = false
		}
		if err := rdb.Ping(r.Context()).Err(); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}

		w.Header().Set("Content-Type", "application/json")
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(checks)
	})

	server := &http.Server{
		Addr:    params.HealthCheckServerAddr,
		Handler: mux,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Health check server shutdown failed", "error", err)
		}
	case err := <-serverErr:
		slog.Error("Health check server stopped", "error", err)
	}
}
