package settings

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stockware/stockroom/pkg/logger"
)

// Handler exposes the settings store over HTTP
type Handler struct {
	store *Store
}

// NewHandler creates a new settings handler
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

type response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// List handles GET /api/settings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.All(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list settings")
		respondJSON(w, http.StatusInternalServerError, response{
			Success: false,
			Error:   "Failed to list settings",
		})
		return
	}
	respondJSON(w, http.StatusOK, response{Success: true, Data: settings})
}

// Get handles GET /api/settings/{key}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	value, err := h.store.Get(r.Context(), key)
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("key", key).Msg("Failed to read setting")
		respondJSON(w, http.StatusInternalServerError, response{
			Success: false,
			Error:   "Failed to read setting",
		})
		return
	}
	respondJSON(w, http.StatusOK, response{
		Success: true,
		Data:    map[string]string{"key": key, "value": value},
	})
}

// Set handles PUT /api/settings/{key}
func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if err := h.store.Set(r.Context(), key, req.Value); err != nil {
		logger.Error(r.Context()).Err(err).Str("key", key).Msg("Failed to write setting")
		respondJSON(w, http.StatusInternalServerError, response{
			Success: false,
			Error:   "Failed to write setting",
		})
		return
	}
	respondJSON(w, http.StatusOK, response{Success: true})
}

// RegisterRoutes registers all settings routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/settings", h.List).Methods("GET")
	router.HandleFunc("/api/settings/{key}", h.Get).Methods("GET")
	router.HandleFunc("/api/settings/{key}", h.Set).Methods("PUT")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
