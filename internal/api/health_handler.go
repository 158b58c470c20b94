package api

import (
	"encoding/json"
	"net/http"
	"time"

	"machflow/pkg/factory"
	"machflow/pkg/logger"
)

type HealthHandler struct {
	factory factory.Factory
	logger  logger.Logger
}

type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Services  map[string]interface{} `json:"services"`
	Version   string                 `json:"version"`
}

func NewHealthHandler(factory factory.Factory, logger logger.Logger) *HealthHandler {
	return &HealthHandler{
		factory: factory,
		logger:  logger,
	}
}

func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	services := make(map[string]interface{})
	services["store"] = h.checkStoreHealth()
	services["cache"] = h.checkCacheHealth(r)
	services["dispatcher"] = map[string]interface{}{
		"status":  "healthy",
		"dropped": h.factory.GetDispatcher().Dropped(),
	}

	status := "healthy"
	for _, service := range services {
		if serviceMap, ok := service.(map[string]interface{}); ok {
			if serviceStatus, exists := serviceMap["status"]; exists {
				if serviceStatus == "unhealthy" {
					status = "degraded"
					break
				}
			}
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Services:  services,
		Version:   "1.0.0",
	}

	if status == "healthy" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(response)
}

func (h *HealthHandler) checkStoreHealth() map[string]interface{} {
	st := h.factory.GetStore()
	if st == nil {
		return map[string]interface{}{
			"status": "unhealthy",
			"error":  "store is nil",
		}
	}

	if err := st.Ping(); err != nil {
		return map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}
	}

	return map[string]interface{}{
		"status": "healthy",
	}
}

// checkCacheHealth treats a missing Redis as disabled, not broken; the
// process runs fine without it.
func (h *HealthHandler) checkCacheHealth(r *http.Request) map[string]interface{} {
	c := h.factory.GetCache()
	if c == nil {
		return map[string]interface{}{
			"status": "disabled",
		}
	}

	if err := c.Ping(r.Context()); err != nil {
		return map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}
	}

	return map[string]interface{}{
		"status": "healthy",
	}
}

func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now(),
	})
}

func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ready := true
	issues := make([]string, 0)

	if st := h.factory.GetStore(); st != nil {
		if err := st.Ping(); err != nil {
			ready = false
			issues = append(issues, "store: "+err.Error())
		}
	} else {
		ready = false
		issues = append(issues, "store: connection is nil")
	}

	response := map[string]interface{}{
		"timestamp": time.Now(),
	}

	if ready {
		response["status"] = "ready"
		w.WriteHeader(http.StatusOK)
	} else {
		response["status"] = "not_ready"
		response["issues"] = issues
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(response)
}

func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /health/live", h.LivenessCheck)
	mux.HandleFunc("GET /health/ready", h.ReadinessCheck)
}
