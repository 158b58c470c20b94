package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"machflow/internal/domain"
	"machflow/pkg/logger"
)

type OrderHandler struct {
	service domain.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service domain.OrderService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders()
	if err != nil {
		h.logger.Error("Siparişler okunamadı", map[string]interface{}{"error": err.Error()})
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

// RejectOrder is destructive and requires confirm=true in the body, the API
// counterpart of the confirmation dialog.
func (h *OrderHandler) RejectOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID      string `json:"id"`
		Reason  string `json:"reason"`
		Confirm bool   `json:"confirm"`
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Error("İstek gövdesi decode edilemedi", map[string]interface{}{"error": err.Error()})
		http.Error(w, "Geçersiz istek gövdesi", http.StatusBadRequest)
		return
	}

	if body.ID == "" {
		http.Error(w, "Sipariş ID'si eksik", http.StatusBadRequest)
		return
	}
	if !body.Confirm {
		http.Error(w, "Onay gerekli", http.StatusBadRequest)
		return
	}

	order, err := h.service.RejectOrder(body.ID, body.Reason)
	if err != nil {
		h.writeOrderError(w, body.ID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

func (h *OrderHandler) MarkAsPaid(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Error("İstek gövdesi decode edilemedi", map[string]interface{}{"error": err.Error()})
		http.Error(w, "Geçersiz istek gövdesi", http.StatusBadRequest)
		return
	}

	if body.ID == "" {
		http.Error(w, "Sipariş ID'si eksik", http.StatusBadRequest)
		return
	}

	order, err := h.service.MarkAsPaid(body.ID)
	if err != nil {
		h.writeOrderError(w, body.ID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

func (h *OrderHandler) ReviewCounterOffer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID     string `json:"id"`
		Accept bool   `json:"accept"`
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Error("İstek gövdesi decode edilemedi", map[string]interface{}{"error": err.Error()})
		http.Error(w, "Geçersiz istek gövdesi", http.StatusBadRequest)
		return
	}

	if body.ID == "" {
		http.Error(w, "Sipariş ID'si eksik", http.StatusBadRequest)
		return
	}

	order, err := h.service.ReviewCounterOffer(body.ID, body.Accept)
	if err != nil {
		h.writeOrderError(w, body.ID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

func (h *OrderHandler) writeOrderError(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrOrderTerminal), errors.Is(err, domain.ErrCounterOfferNotPending):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error("Sipariş işlemi hatası", map[string]interface{}{"id": id, "error": err.Error()})
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/orders", h.ListOrders)
	mux.HandleFunc("POST /api/orders/reject", h.RejectOrder)
	mux.HandleFunc("POST /api/orders/pay", h.MarkAsPaid)
	mux.HandleFunc("POST /api/orders/counter-offer", h.ReviewCounterOffer)
}
