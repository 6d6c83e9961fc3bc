package entities

import "time"

type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}

type HealthCheckResponse struct {
	Status   string                   `json:"status"`
	Services map[string]ServiceStatus `json:"services"`
	UpSince  time.Time                `json:"up_since"`
	Uptime   string                   `json:"uptime"`
}

// Healthy reports whether every dependency answered.
func (h *HealthCheckResponse) Healthy() bool {
	for _, s := range h.Services {
		if s.Status != "ok" {
			return false
		}
	}
	return true
}
