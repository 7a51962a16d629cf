package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"
	"videotube-api/logger"
)

// HealthCheck probes one dependency; a nil error means healthy.
type HealthCheck func(ctx context.Context) error

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewHealthHandler godoc
// @Summary      Show the status of server
// @Description  Reports the API status and the result of each dependency probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  handler.healthResponse
// @Failure      503  {object}  handler.healthResponse
// @Router       /health [get]
func NewHealthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "API is healthy and running"}
		code := http.StatusOK
		for _, name := range names {
			if resp.Checks == nil {
				resp.Checks = make(map[string]string, len(names))
			}
			if err := checks[name](ctx); err != nil {
				logger.Log.WithError(err).WithField("dependency", name).Error("Health check failed")
				resp.Checks[name] = "unavailable"
				resp.Status = "API is degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(resp)
	}
}
