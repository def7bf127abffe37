package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/stockware/stockroom/internal/engine"
	"github.com/stockware/stockroom/internal/knife/usecase/command"
	"github.com/stockware/stockroom/internal/knife/usecase/query"
	"github.com/stockware/stockroom/kafka"
	"github.com/stockware/stockroom/pkg/logger"
)

// KnifeHandler handles HTTP requests for the knife lifecycle
type KnifeHandler struct {
	setStatus          *command.SetStatusHandler
	sharpenBatch       *command.SharpenBatchHandler
	toggleSharp        *command.ToggleSharpHandler
	toggleInstallation *command.ToggleInstallationHandler
	deleteSharpenEntry *command.DeleteSharpenEntryHandler
	deleteStatusEntry  *command.DeleteStatusEntryHandler
	listKnives         *query.ListKnivesHandler
	sharpenHistory     *query.SharpenHistoryHandler
	operationsHistory  *query.OperationsHistoryHandler
	publisher          *kafka.Publisher
}

// NewKnifeHandler creates a new knife handler
func NewKnifeHandler(
	setStatus *command.SetStatusHandler,
	sharpenBatch *command.SharpenBatchHandler,
	toggleSharp *command.ToggleSharpHandler,
	toggleInstallation *command.ToggleInstallationHandler,
	deleteSharpenEntry *command.DeleteSharpenEntryHandler,
	deleteStatusEntry *command.DeleteStatusEntryHandler,
	listKnives *query.ListKnivesHandler,
	sharpenHistory *query.SharpenHistoryHandler,
	operationsHistory *query.OperationsHistoryHandler,
	publisher *kafka.Publisher,
) *KnifeHandler {
	return &KnifeHandler{
		setStatus:          setStatus,
		sharpenBatch:       sharpenBatch,
		toggleSharp:        toggleSharp,
		toggleInstallation: toggleInstallation,
		deleteSharpenEntry: deleteSharpenEntry,
		deleteStatusEntry:  deleteStatusEntry,
		listKnives:         listKnives,
		sharpenHistory:     sharpenHistory,
		operationsHistory:  operationsHistory,
		publisher:          publisher,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Changed []string    `json:"changed,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ListKnives handles GET /api/knives
func (h *KnifeHandler) ListKnives(w http.ResponseWriter, r *http.Request) {
	views, err := h.listKnives.Handle(r.Context(), query.ListKnivesQuery{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list knives")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list knives",
		})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: views})
}

// SetStatus handles PATCH /api/knives/{part_id}/status
func (h *KnifeHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	partID, ok := pathID(w, r, "part_id")
	if !ok {
		return
	}

	var req struct {
		Status  string     `json:"status"`
		Comment string     `json:"comment"`
		At      *time.Time `json:"at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.SetStatusCommand{PartID: partID, Status: req.Status, Comment: req.Comment}
	if req.At != nil {
		cmd.At = *req.At
	}

	result, err := h.setStatus.Handle(r.Context(), cmd)
	h.respondResult(w, r, "knife.set_status", result, err)
}

// SharpenBatch handles POST /api/knives/sharpen
func (h *KnifeHandler) SharpenBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PartIDs []uint     `json:"part_ids"`
		Comment string     `json:"comment"`
		At      *time.Time `json:"at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.SharpenBatchCommand{PartIDs: req.PartIDs, Comment: req.Comment}
	if req.At != nil {
		cmd.At = *req.At
	}

	result, err := h.sharpenBatch.Handle(r.Context(), cmd)
	h.respondResult(w, r, "knife.sharpen_batch", result, err)
}

// ToggleSharp handles POST /api/knives/{part_id}/toggle-sharp
func (h *KnifeHandler) ToggleSharp(w http.ResponseWriter, r *http.Request) {
	partID, ok := pathID(w, r, "part_id")
	if !ok {
		return
	}

	var req struct {
		Comment string     `json:"comment"`
		At      *time.Time `json:"at"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	cmd := command.ToggleSharpCommand{PartID: partID, Comment: req.Comment}
	if req.At != nil {
		cmd.At = *req.At
	}

	result, err := h.toggleSharp.Handle(r.Context(), cmd)
	h.respondResult(w, r, "knife.toggle_sharp", result, err)
}

// ToggleInstallation handles POST /api/knives/{part_id}/toggle-installation
func (h *KnifeHandler) ToggleInstallation(w http.ResponseWriter, r *http.Request) {
	partID, ok := pathID(w, r, "part_id")
	if !ok {
		return
	}

	var req struct {
		Comment string     `json:"comment"`
		At      *time.Time `json:"at"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	cmd := command.ToggleInstallationCommand{PartID: partID, Comment: req.Comment}
	if req.At != nil {
		cmd.At = *req.At
	}

	result, err := h.toggleInstallation.Handle(r.Context(), cmd)
	h.respondResult(w, r, "knife.toggle_installation", result, err)
}

// SharpenHistory handles GET /api/knives/{part_id}/sharpenings
func (h *KnifeHandler) SharpenHistory(w http.ResponseWriter, r *http.Request) {
	partID, ok := pathID(w, r, "part_id")
	if !ok {
		return
	}

	entries, err := h.sharpenHistory.Handle(r.Context(), query.SharpenHistoryQuery{PartID: partID})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to load sharpen history")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to load sharpen history",
		})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: entries})
}

// OperationsHistory handles GET /api/knives/{part_id}/operations
func (h *KnifeHandler) OperationsHistory(w http.ResponseWriter, r *http.Request) {
	partID, ok := pathID(w, r, "part_id")
	if !ok {
		return
	}

	operations, err := h.operationsHistory.Handle(r.Context(), query.OperationsHistoryQuery{PartID: partID})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to load operations history")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to load operations history",
		})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: operations})
}

// DeleteSharpenEntry handles DELETE /api/knives/sharpenings/{id}
func (h *KnifeHandler) DeleteSharpenEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.deleteSharpenEntry.Handle(r.Context(), command.DeleteSharpenEntryCommand{EntryID: id})
	h.respondResult(w, r, "knife.delete_sharpen_entry", result, err)
}

// DeleteStatusEntry handles DELETE /api/knives/status-log/{id}
func (h *KnifeHandler) DeleteStatusEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.deleteStatusEntry.Handle(r.Context(), command.DeleteStatusEntryCommand{EntryID: id})
	h.respondResult(w, r, "knife.delete_status_entry", result, err)
}

// RegisterRoutes registers all knife routes
func (h *KnifeHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/knives", h.ListKnives).Methods("GET")
	router.HandleFunc("/api/knives/sharpen", h.SharpenBatch).Methods("POST")
	router.HandleFunc("/api/knives/sharpenings/{id}", h.DeleteSharpenEntry).Methods("DELETE")
	router.HandleFunc("/api/knives/status-log/{id}", h.DeleteStatusEntry).Methods("DELETE")
	router.HandleFunc("/api/knives/{part_id}/status", h.SetStatus).Methods("PATCH")
	router.HandleFunc("/api/knives/{part_id}/toggle-sharp", h.ToggleSharp).Methods("POST")
	router.HandleFunc("/api/knives/{part_id}/toggle-installation", h.ToggleInstallation).Methods("POST")
	router.HandleFunc("/api/knives/{part_id}/sharpenings", h.SharpenHistory).Methods("GET")
	router.HandleFunc("/api/knives/{part_id}/operations", h.OperationsHistory).Methods("GET")
}

func (h *KnifeHandler) respondResult(w http.ResponseWriter, r *http.Request, operation string, result engine.Result, err error) {
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("operation", operation).Msg("Command failed")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Internal error",
		})
		return
	}
	if !result.Success {
		respondJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   result.Message,
		})
		return
	}

	h.publishChanged(r.Context(), operation, result)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: result.Message,
		Data:    result.Data,
		Changed: result.ChangedNames(),
	})
}

func (h *KnifeHandler) publishChanged(ctx context.Context, operation string, result engine.Result) {
	if h.publisher == nil || len(result.Changed) == 0 {
		return
	}
	event := kafka.AggregatesChangedEvent{
		Operation:  operation,
		Aggregates: result.ChangedNames(),
		Message:    result.Message,
	}
	if err := h.publisher.PublishAggregatesChanged(ctx, event); err != nil {
		logger.Warn(ctx).Err(err).Str("operation", operation).Msg("Failed to publish change event")
	}
}

func pathID(w http.ResponseWriter, r *http.Request, key string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[key], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid " + key,
		})
		return 0, false
	}
	return uint(id), true
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
