package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"machflow/internal/domain"
	"machflow/pkg/logger"
)

type UserHandler struct {
	service domain.UserService
	logger  logger.Logger
}

func NewUserHandler(service domain.UserService, logger logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

// ListUsers returns every user, optionally filtered by a search term and a
// role. role=All (or absent) matches everything.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	role := r.URL.Query().Get("role")

	var users []*domain.User
	if term == "" && (role == "" || role == domain.RoleFilterAll) {
		users = h.service.ListUsers()
	} else {
		users = h.service.SearchUsers(term, role)
	}

	if users == nil {
		users = []*domain.User{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	users := h.service.SearchUsers(r.URL.Query().Get("term"), r.URL.Query().Get("role"))
	if users == nil {
		users = []*domain.User{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

func (h *UserHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending := h.service.ListPending()
	if pending == nil {
		pending = []*domain.User{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pending)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user domain.User

	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		h.logger.Error("İstek gövdesi decode edilemedi", map[string]interface{}{"error": err.Error()})
		http.Error(w, "Geçersiz istek gövdesi", http.StatusBadRequest)
		return
	}

	if user.Name == "" || user.Email == "" {
		http.Error(w, "İsim ve e-posta zorunlu", http.StatusBadRequest)
		return
	}

	if err := h.service.CreateUser(&user); err != nil {
		h.logger.Error("Kullanıcı oluşturma hatası", map[string]interface{}{"error": err.Error()})
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID int64 `json:"id"`
		domain.UserPatch
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Error("İstek gövdesi decode edilemedi", map[string]interface{}{"error": err.Error()})
		http.Error(w, "Geçersiz istek gövdesi", http.StatusBadRequest)
		return
	}

	if body.ID == 0 {
		http.Error(w, "Kullanıcı ID'si eksik", http.StatusBadRequest)
		return
	}

	user, err := h.service.UpdateUser(body.ID, body.UserPatch)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("Kullanıcı güncelleme hatası", map[string]interface{}{"id": body.ID, "error": err.Error()})
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// DeleteUser is destructive and requires confirm=true, the API counterpart of
// the confirmation dialog.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
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

	if r.URL.Query().Get("confirm") != "true" {
		http.Error(w, "Onay gerekli", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteUser(id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("Kullanıcı silme hatası", map[string]interface{}{"id": id, "error": err.Error()})
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ApproveUser activates a pending user without a confirmation step; approval
// is not destructive and the workflow favors speed here.
func (h *UserHandler) ApproveUser(w http.ResponseWriter, r *http.Request) {
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

	user, err := h.service.ApproveUser(id)
	if err != nil {
		h.logger.Error("Kullanıcı onaylama hatası", map[string]interface{}{"id": id, "error": err.Error()})
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if user == nil {
		// Unknown id is a no-op, mirrored as 204.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func (h *UserHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/users", h.ListUsers)
	mux.HandleFunc("POST /api/users", h.CreateUser)
	mux.HandleFunc("PUT /api/users", h.UpdateUser)
	mux.HandleFunc("DELETE /api/users", h.DeleteUser)
	mux.HandleFunc("GET /api/users/search", h.SearchUsers)
	mux.HandleFunc("GET /api/users/pending", h.ListPending)
	mux.HandleFunc("POST /api/users/approve", h.ApproveUser)
}
