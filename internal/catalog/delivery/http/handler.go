package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/stockware/stockroom/internal/catalog/domain"
	"github.com/stockware/stockroom/internal/engine"
	"github.com/stockware/stockroom/kafka"
	"github.com/stockware/stockroom/pkg/logger"
)

// CatalogHandler handles HTTP requests for categories, equipment and
// counterparties
type CatalogHandler struct {
	categories     domain.CategoryRepository
	equipment      domain.EquipmentRepository
	counterparties domain.CounterpartyRepository
	parts          domain.PartRepository
	publisher      *kafka.Publisher
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(
	categories domain.CategoryRepository,
	equipment domain.EquipmentRepository,
	counterparties domain.CounterpartyRepository,
	parts domain.PartRepository,
	publisher *kafka.Publisher,
) *CatalogHandler {
	return &CatalogHandler{
		categories:     categories,
		equipment:      equipment,
		counterparties: counterparties,
		parts:          parts,
		publisher:      publisher,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Changed []string    `json:"changed,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ListCategories handles GET /api/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.FindAll()
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list categories")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list categories",
		})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: categories})
}

// CreateCategory handles POST /api/categories
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	category := &domain.Category{Name: req.Name}
	if err := h.categories.Create(category); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create category")
		respondJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   "Category already exists",
		})
		return
	}

	h.publishChanged(r.Context(), "category.create", engine.AggregateCategories)
	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Category created",
		Data:    category,
		Changed: []string{string(engine.AggregateCategories)},
	})
}

// RenameCategory handles PUT /api/categories/{id}
func (h *CatalogHandler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	category, err := h.categories.FindByID(id)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Category not found"})
		return
	}
	if domain.SharpeningTracked(category.Name) {
		respondJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   "Built-in categories cannot be renamed",
		})
		return
	}

	if err := h.categories.Rename(id, req.Name); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to rename category")
		respondJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   "Category name already in use",
		})
		return
	}

	h.publishChanged(r.Context(), "category.rename", engine.AggregateCategories)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Category renamed",
		Changed: []string{string(engine.AggregateCategories)},
	})
}

// DeleteCategory handles DELETE /api/categories/{id}
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	category, err := h.categories.FindByID(id)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Category not found"})
		return
	}
	if domain.SharpeningTracked(category.Name) {
		respondJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   "Built-in categories cannot be deleted",
		})
		return
	}

	used, err := h.parts.HasForCategory(id)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to check category usage")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal error"})
		return
	}
	if used {
		respondJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   "Category still has parts",
		})
		return
	}

	if err := h.categories.Delete(id); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to delete category")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal error"})
		return
	}

	h.publishChanged(r.Context(), "category.delete", engine.AggregateCategories)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Category deleted",
		Changed: []string{string(engine.AggregateCategories)},
	})
}

type equipmentRequest struct {
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	CategoryID uint   `json:"category_id"`
	ParentID   *uint  `json:"parent_id"`
	Comment    string `json:"comment"`
}

// ListEquipment handles GET /api/equipment
func (h *CatalogHandler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	equipment, err := h.equipment.FindAll()
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list equipment")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list equipment",
		})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: equipment})
}

// GetEquipment handles GET /api/equipment/{id}
func (h *CatalogHandler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	equipment, err := h.equipment.FindByID(id)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Equipment not found"})
		return
	}

	links, err := h.equipment.LinksForEquipment(id)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to load equipment links")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal error"})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]interface{}{"equipment": equipment, "parts": links},
	})
}

// CreateEquipment handles POST /api/equipment
func (h *CatalogHandler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var req equipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	equipment := &domain.Equipment{
		Name:       req.Name,
		SKU:        req.SKU,
		CategoryID: req.CategoryID,
		ParentID:   req.ParentID,
		Comment:    req.Comment,
	}
	if err := h.equipment.Create(equipment); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create equipment")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal error"})
		return
	}

	h.publishChanged(r.Context(), "equipment.create", engine.AggregateEquipment)
	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Equipment created",
		Data:    equipment,
		Changed: []string{string(engine.AggregateEquipment)},
	})
}

// UpdateEquipment handles PUT /api/equipment/{id}
func (h *CatalogHandler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req equipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	equipment, err := h.equipment.FindByID(id)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Equipment not found"})
		return
	}

	equipment.Name = req.Name
	equipment.SKU = req.SKU
	equipment.CategoryID = req.CategoryID
	equipment.ParentID = req.ParentID
	equipment.Comment = req.Comment
	if err := h.equipment.Update(equipment); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to update equipment")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal error"})
		return
	}

	h.publishChanged(r.Context(), "equipment.update", engine.AggregateEquipment)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Equipment updated",
		Data:    equipment,
		Changed: []string{string(engine.AggregateEquipment)},
	})
}

// DeleteEquipment handles DELETE /api/equipment/{id}
func (h *CatalogHandler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	links, err := h.equipment.LinksForEquipment(id)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to load equipment links")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal error"})
		return
	}
	if len(links) > 0 {
		respondJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   "Equipment still has installed parts",
		})
		return
	}

	if err := h.equipment.Delete(id); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to delete equipment")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal error"})
		return
	}

	h.publishChanged(r.Context(), "equipment.delete", engine.AggregateEquipment)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Equipment deleted",
		Changed: []string{string(engine.AggregateEquipment)},
	})
}

// AttachPart handles POST /api/equipment/{id}/parts
func (h *CatalogHandler) AttachPart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		PartID       uint   `json:"part_id"`
		InstalledQty int    `json:"installed_qty"`
		Comment      string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PartID == 0 {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}
	if req.InstalledQty <= 0 {
		req.InstalledQty = 1
	}

	link := &domain.EquipmentPart{
		EquipmentID:  id,
		PartID:       req.PartID,
		InstalledQty: req.InstalledQty,
		Comment:      req.Comment,
	}
	if err := h.equipment.AttachPart(link); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to attach part")
		respondJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   "Part is already attached to this equipment",
		})
		return
	}

	h.publishChanged(r.Context(), "equipment.attach_part", engine.AggregateEquipment)
	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Part attached",
		Data:    link,
		Changed: []string{string(engine.AggregateEquipment)},
	})
}

// DetachPart handles DELETE /api/equipment/{id}/parts/{link_id}
func (h *CatalogHandler) DetachPart(w http.ResponseWriter, r *http.Request) {
	linkID, ok := pathID(w, r, "link_id")
	if !ok {
		return
	}

	if err := h.equipment.DetachPart(linkID); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to detach part")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal error"})
		return
	}

	h.publishChanged(r.Context(), "equipment.detach_part", engine.AggregateEquipment)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Part detached",
		Changed: []string{string(engine.AggregateEquipment)},
	})
}

// FlagReplacement handles PATCH /api/equipment/{id}/parts/{link_id}/flag
func (h *CatalogHandler) FlagReplacement(w http.ResponseWriter, r *http.Request) {
	linkID, ok := pathID(w, r, "link_id")
	if !ok {
		return
	}

	var req struct {
		RequiresReplacement bool `json:"requires_replacement"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if err := h.equipment.SetRequiresReplacement(linkID, req.RequiresReplacement); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to set replacement flag")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal error"})
		return
	}

	h.publishChanged(r.Context(), "equipment.flag_replacement", engine.AggregateEquipment)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Replacement flag updated",
		Changed: []string{string(engine.AggregateEquipment)},
	})
}

type counterpartyRequest struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Note          string `json:"note"`
	DriverNote    string `json:"driver_note"`
}

// ListCounterparties handles GET /api/counterparties
func (h *CatalogHandler) ListCounterparties(w http.ResponseWriter, r *http.Request) {
	counterparties, err := h.counterparties.FindAll()
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list counterparties")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list counterparties",
		})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: counterparties})
}

// CreateCounterparty handles POST /api/counterparties
func (h *CatalogHandler) CreateCounterparty(w http.ResponseWriter, r *http.Request) {
	var req counterpartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	counterparty := &domain.Counterparty{
		Name:          req.Name,
		Address:       req.Address,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Note:          req.Note,
		DriverNote:    req.DriverNote,
	}
	if err := h.counterparties.Create(counterparty); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create counterparty")
		respondJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   "Counterparty already exists",
		})
		return
	}

	h.publishChanged(r.Context(), "counterparty.create", engine.AggregateCounterparties)
	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Counterparty created",
		Data:    counterparty,
		Changed: []string{string(engine.AggregateCounterparties)},
	})
}

// UpdateCounterparty handles PUT /api/counterparties/{id}
func (h *CatalogHandler) UpdateCounterparty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req counterpartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	counterparty, err := h.counterparties.FindByID(id)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Counterparty not found"})
		return
	}

	counterparty.Name = req.Name
	counterparty.Address = req.Address
	counterparty.ContactPerson = req.ContactPerson
	counterparty.Phone = req.Phone
	counterparty.Email = req.Email
	counterparty.Note = req.Note
	counterparty.DriverNote = req.DriverNote
	if err := h.counterparties.Update(counterparty); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to update counterparty")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal error"})
		return
	}

	h.publishChanged(r.Context(), "counterparty.update", engine.AggregateCounterparties)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Counterparty updated",
		Data:    counterparty,
		Changed: []string{string(engine.AggregateCounterparties)},
	})
}

// DeleteCounterparty handles DELETE /api/counterparties/{id}
func (h *CatalogHandler) DeleteCounterparty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.counterparties.Delete(id); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to delete counterparty")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal error"})
		return
	}

	h.publishChanged(r.Context(), "counterparty.delete", engine.AggregateCounterparties)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Counterparty deleted",
		Changed: []string{string(engine.AggregateCounterparties)},
	})
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/categories", h.ListCategories).Methods("GET")
	router.HandleFunc("/api/categories", h.CreateCategory).Methods("POST")
	router.HandleFunc("/api/categories/{id}", h.RenameCategory).Methods("PUT")
	router.HandleFunc("/api/categories/{id}", h.DeleteCategory).Methods("DELETE")

	router.HandleFunc("/api/equipment", h.ListEquipment).Methods("GET")
	router.HandleFunc("/api/equipment", h.CreateEquipment).Methods("POST")
	router.HandleFunc("/api/equipment/{id}", h.GetEquipment).Methods("GET")
	router.HandleFunc("/api/equipment/{id}", h.UpdateEquipment).Methods("PUT")
	router.HandleFunc("/api/equipment/{id}", h.DeleteEquipment).Methods("DELETE")
	router.HandleFunc("/api/equipment/{id}/parts", h.AttachPart).Methods("POST")
	router.HandleFunc("/api/equipment/{id}/parts/{link_id}", h.DetachPart).Methods("DELETE")
	router.HandleFunc("/api/equipment/{id}/parts/{link_id}/flag", h.FlagReplacement).Methods("PATCH")

	router.HandleFunc("/api/counterparties", h.ListCounterparties).Methods("GET")
	router.HandleFunc("/api/counterparties", h.CreateCounterparty).Methods("POST")
	router.HandleFunc("/api/counterparties/{id}", h.UpdateCounterparty).Methods("PUT")
	router.HandleFunc("/api/counterparties/{id}", h.DeleteCounterparty).Methods("DELETE")
}

func (h *CatalogHandler) publishChanged(ctx context.Context, operation string, aggregates ...engine.Aggregate) {
	if h.publisher == nil {
		return
	}
	names := make([]string, 0, len(aggregates))
	for _, a := range aggregates {
		names = append(names, string(a))
	}
	event := kafka.AggregatesChangedEvent{
		Operation:  operation,
		Aggregates: names,
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
