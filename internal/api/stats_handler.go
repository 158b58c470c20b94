package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"machflow/internal/domain"
	"machflow/internal/service"
	"machflow/pkg/logger"
)

type StatsHandler struct {
	service    domain.StatsService
	reconciler *service.Reconciler
	logger     logger.Logger
}

func NewStatsHandler(statsService domain.StatsService, reconciler *service.Reconciler, logger logger.Logger) *StatsHandler {
	return &StatsHandler{
		service:    statsService,
		reconciler: reconciler,
		logger:     logger,
	}
}

func (h *StatsHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.DashboardStats()
	if err != nil {
		h.logger.Error("İstatistikler hesaplanamadı", map[string]interface{}{"error": err.Error()})
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (h *StatsHandler) ChartData(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.ChartData()
	if err != nil {
		h.logger.Error("Grafik verisi hesaplanamadı", map[string]interface{}{"error": err.Error()})
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *StatsHandler) MapMarkers(w http.ResponseWriter, r *http.Request) {
	markers, err := h.service.MapMarkers()
	if err != nil {
		h.logger.Error("Harita işaretçileri hesaplanamadı", map[string]interface{}{"error": err.Error()})
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(markers)
}

// RentalHistory returns a user's interactions. Orphaned interactions of a
// deleted user stay reachable here.
func (h *StatsHandler) RentalHistory(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		http.Error(w, "ID parametresi eksik", http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "Geçersiz ID formatı", http.StatusBadRequest)
		return
	}

	history := h.service.RentalHistory(id)
	if history == nil {
		history = []*domain.Interaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(history)
}

// Cities returns the selectable city locations for user placement.
func (h *StatsHandler) Cities(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(domain.EthiopianCities)
}

// ReconcileStats exposes the polling loop counters for diagnostics.
func (h *StatsHandler) ReconcileStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.reconciler.Stats())
}

func (h *StatsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/stats", h.DashboardStats)
	mux.HandleFunc("GET /api/stats/charts", h.ChartData)
	mux.HandleFunc("GET /api/stats/markers", h.MapMarkers)
	mux.HandleFunc("GET /api/stats/reconcile", h.ReconcileStats)
	mux.HandleFunc("GET /api/users/history", h.RentalHistory)
	mux.HandleFunc("GET /api/cities", h.Cities)
}
