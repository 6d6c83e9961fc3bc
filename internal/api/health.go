package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"dispatch-app/backend/internal/models/entities"
)

type pinger interface {
	Ping(ctx context.Context) error
}

const healthTimeout = 2 * time.Second

// HealthCheck handles GET /healthCheck. Answers 503 when a dependency is down.
func (h *Handlers) HealthCheck(upSince time.Time) http.HandlerFunc {
	checks := map[string]pinger{
		"database": h.deps.Repo.DriverLoad,
		"cache":    h.deps.Services.Cache,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := entities.HealthCheckResponse{
			Services: make(map[string]entities.ServiceStatus, len(checks)),
			UpSince:  upSince,
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		}
		for name, p := range checks {
			status := entities.ServiceStatus{Status: "ok"}
			if err := p.Ping(ctx); err != nil {
				status = entities.ServiceStatus{Status: "down", Details: err.Error()}
			}
			resp.Services[name] = status
		}

		code := http.StatusOK
		resp.Status = "ok"
		if !resp.Healthy() {
			resp.Status = "down"
			code = http.StatusServiceUnavailable
		}
		writeHealth(w, code, resp)
	}
}

// writeHealth encodes the bare health document, outside the API envelope.
func writeHealth(w http.ResponseWriter, code int, resp entities.HealthCheckResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
