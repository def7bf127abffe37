package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	"github.com/stockware/stockroom/internal/engine"
	"github.com/stockware/stockroom/internal/ledger/usecase/command"
	"github.com/stockware/stockroom/internal/ledger/usecase/query"
	"github.com/stockware/stockroom/kafka"
	"github.com/stockware/stockroom/pkg/logger"
)

// StockHandler handles HTTP requests for parts and the stock ledger
type StockHandler struct {
	parts             catalogdomain.PartRepository
	savePart          *command.SavePartHandler
	deletePart        *command.DeletePartHandler
	replaceStock      *command.ReplaceStockHandler
	updateReplacement *command.UpdateReplacementHandler
	deleteReplacement *command.DeleteReplacementHandler
	lowStock          *query.LowStockHandler
	listReplacements  *query.ListReplacementsHandler
	publisher         *kafka.Publisher
}

// NewStockHandler creates a new stock handler
func NewStockHandler(
	parts catalogdomain.PartRepository,
	savePart *command.SavePartHandler,
	deletePart *command.DeletePartHandler,
	replaceStock *command.ReplaceStockHandler,
	updateReplacement *command.UpdateReplacementHandler,
	deleteReplacement *command.DeleteReplacementHandler,
	lowStock *query.LowStockHandler,
	listReplacements *query.ListReplacementsHandler,
	publisher *kafka.Publisher,
) *StockHandler {
	return &StockHandler{
		parts:             parts,
		savePart:          savePart,
		deletePart:        deletePart,
		replaceStock:      replaceStock,
		updateReplacement: updateReplacement,
		deleteReplacement: deleteReplacement,
		lowStock:          lowStock,
		listReplacements:  listReplacements,
		publisher:         publisher,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Changed []string    `json:"changed,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type partRequest struct {
	Name       string  `json:"name"`
	SKU        string  `json:"sku"`
	Qty        int     `json:"qty"`
	MinQty     int     `json:"min_qty"`
	Price      float64 `json:"price"`
	CategoryID *uint   `json:"category_id"`
}

// ListParts handles GET /api/parts
func (h *StockHandler) ListParts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	search := r.URL.Query().Get("search")

	if limit == 0 {
		limit = 50
	}

	parts, total, err := h.parts.FindAll(limit, offset, search)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list parts")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list parts",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]interface{}{"items": parts, "total": total},
	})
}

// GetPart handles GET /api/parts/{id}
func (h *StockHandler) GetPart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	part, err := h.parts.FindByID(id)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Part not found",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: part})
}

// CreatePart handles POST /api/parts
func (h *StockHandler) CreatePart(w http.ResponseWriter, r *http.Request) {
	var req partRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.savePart.Handle(r.Context(), command.SavePartCommand{
		Name:       req.Name,
		SKU:        req.SKU,
		Qty:        req.Qty,
		MinQty:     req.MinQty,
		Price:      req.Price,
		CategoryID: req.CategoryID,
	})
	h.respondResult(w, r, "part.create", result, err, http.StatusCreated)
}

// UpdatePart handles PUT /api/parts/{id}
func (h *StockHandler) UpdatePart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req partRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.savePart.Handle(r.Context(), command.SavePartCommand{
		ID:         id,
		Name:       req.Name,
		SKU:        req.SKU,
		Qty:        req.Qty,
		MinQty:     req.MinQty,
		Price:      req.Price,
		CategoryID: req.CategoryID,
	})
	h.respondResult(w, r, "part.update", result, err, http.StatusOK)
}

// DeletePart handles DELETE /api/parts/{id}
func (h *StockHandler) DeletePart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.deletePart.Handle(r.Context(), command.DeletePartCommand{PartID: id})
	h.respondResult(w, r, "part.delete", result, err, http.StatusOK)
}

// LowStock handles GET /api/parts/low-stock
func (h *StockHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	parts, err := h.lowStock.Handle(r.Context(), query.LowStockQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list low stock parts")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list low stock parts",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: parts})
}

// ReplaceStock handles POST /api/replacements
func (h *StockHandler) ReplaceStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PartID      uint       `json:"part_id"`
		EquipmentID uint       `json:"equipment_id"`
		Qty         int        `json:"qty"`
		Comment     string     `json:"comment"`
		ReplacedAt  *time.Time `json:"replaced_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.ReplaceStockCommand{
		PartID:      req.PartID,
		EquipmentID: req.EquipmentID,
		Qty:         req.Qty,
		Comment:     req.Comment,
	}
	if req.ReplacedAt != nil {
		cmd.ReplacedAt = *req.ReplacedAt
	}

	result, err := h.replaceStock.Handle(r.Context(), cmd)
	h.respondResult(w, r, "stock.replace", result, err, http.StatusCreated)
}

// ListReplacements handles GET /api/replacements
func (h *StockHandler) ListReplacements(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	partID, _ := strconv.ParseUint(r.URL.Query().Get("part_id"), 10, 32)

	views, total, err := h.listReplacements.Handle(r.Context(), query.ListReplacementsQuery{
		Limit:  limit,
		Offset: offset,
		PartID: uint(partID),
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list replacements")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list replacements",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]interface{}{"items": views, "total": total},
	})
}

// UpdateReplacement handles PUT /api/replacements/{id}
func (h *StockHandler) UpdateReplacement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Qty        int        `json:"qty"`
		Comment    string     `json:"comment"`
		ReplacedAt *time.Time `json:"replaced_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.UpdateReplacementCommand{
		ReplacementID: id,
		Qty:           req.Qty,
		Comment:       req.Comment,
	}
	if req.ReplacedAt != nil {
		cmd.ReplacedAt = *req.ReplacedAt
	}

	result, err := h.updateReplacement.Handle(r.Context(), cmd)
	h.respondResult(w, r, "replacement.update", result, err, http.StatusOK)
}

// DeleteReplacement handles DELETE /api/replacements/{id}
func (h *StockHandler) DeleteReplacement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.deleteReplacement.Handle(r.Context(), command.DeleteReplacementCommand{
		ReplacementID: id,
	})
	h.respondResult(w, r, "replacement.delete", result, err, http.StatusOK)
}

// RegisterRoutes registers all stock routes
func (h *StockHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/parts", h.ListParts).Methods("GET")
	router.HandleFunc("/api/parts", h.CreatePart).Methods("POST")
	router.HandleFunc("/api/parts/low-stock", h.LowStock).Methods("GET")
	router.HandleFunc("/api/parts/{id}", h.GetPart).Methods("GET")
	router.HandleFunc("/api/parts/{id}", h.UpdatePart).Methods("PUT")
	router.HandleFunc("/api/parts/{id}", h.DeletePart).Methods("DELETE")
	router.HandleFunc("/api/replacements", h.ListReplacements).Methods("GET")
	router.HandleFunc("/api/replacements", h.ReplaceStock).Methods("POST")
	router.HandleFunc("/api/replacements/{id}", h.UpdateReplacement).Methods("PUT")
	router.HandleFunc("/api/replacements/{id}", h.DeleteReplacement).Methods("DELETE")
}

// RegisterHealthCheck registers health check endpoint
func (h *StockHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Stockroom service is healthy",
		})
	}).Methods("GET")
}

// respondResult maps a command outcome onto the HTTP response and
// publishes the changed aggregates on success
func (h *StockHandler) respondResult(w http.ResponseWriter, r *http.Request, operation string, result engine.Result, err error, okStatus int) {
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

	respondJSON(w, okStatus, Response{
		Success: true,
		Message: result.Message,
		Data:    result.Data,
		Changed: result.ChangedNames(),
	})
}

func (h *StockHandler) publishChanged(ctx context.Context, operation string, result engine.Result) {
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
