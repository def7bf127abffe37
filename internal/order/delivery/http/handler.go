package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/stockware/stockroom/internal/engine"
	"github.com/stockware/stockroom/internal/order/usecase/command"
	"github.com/stockware/stockroom/internal/order/usecase/query"
	"github.com/stockware/stockroom/kafka"
	"github.com/stockware/stockroom/pkg/logger"
)

// OrderHandler handles HTTP requests for supplier orders
type OrderHandler struct {
	saveOrder      *command.SaveOrderHandler
	updateStatus   *command.UpdateOrderStatusHandler
	deleteOrder    *command.DeleteOrderHandler
	driverNotified *command.SetDriverNotifiedHandler
	listOrders     *query.ListOrdersHandler
	getOrder       *query.GetOrderHandler
	publisher      *kafka.Publisher
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(
	saveOrder *command.SaveOrderHandler,
	updateStatus *command.UpdateOrderStatusHandler,
	deleteOrder *command.DeleteOrderHandler,
	driverNotified *command.SetDriverNotifiedHandler,
	listOrders *query.ListOrdersHandler,
	getOrder *query.GetOrderHandler,
	publisher *kafka.Publisher,
) *OrderHandler {
	return &OrderHandler{
		saveOrder:      saveOrder,
		updateStatus:   updateStatus,
		deleteOrder:    deleteOrder,
		driverNotified: driverNotified,
		listOrders:     listOrders,
		getOrder:       getOrder,
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

type orderRequest struct {
	CounterpartyID uint   `json:"counterparty_id"`
	Comment        string `json:"comment"`
	Lines          []struct {
		PartID *uint   `json:"part_id"`
		Name   string  `json:"name"`
		SKU    string  `json:"sku"`
		Qty    int     `json:"qty"`
		Price  float64 `json:"price"`
	} `json:"lines"`
}

func (req orderRequest) toCommand(id uint) command.SaveOrderCommand {
	cmd := command.SaveOrderCommand{
		ID:             id,
		CounterpartyID: req.CounterpartyID,
		Comment:        req.Comment,
	}
	for _, line := range req.Lines {
		cmd.Lines = append(cmd.Lines, command.OrderLine{
			PartID: line.PartID,
			Name:   line.Name,
			SKU:    line.SKU,
			Qty:    line.Qty,
			Price:  line.Price,
		})
	}
	return cmd
}

// ListOrders handles GET /api/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	views, total, err := h.listOrders.Handle(r.Context(), query.ListOrdersQuery{
		Limit:  limit,
		Offset: offset,
		Status: r.URL.Query().Get("status"),
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list orders")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list orders",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]interface{}{"items": views, "total": total},
	})
}

// GetOrder handles GET /api/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.getOrder.Handle(r.Context(), query.GetOrderQuery{OrderID: id})
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Order not found"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: view})
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.saveOrder.Handle(r.Context(), req.toCommand(0))
	h.respondResult(w, r, "order.create", result, err, http.StatusCreated)
}

// UpdateOrder handles PUT /api/orders/{id}
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.saveOrder.Handle(r.Context(), req.toCommand(id))
	h.respondResult(w, r, "order.update", result, err, http.StatusOK)
}

// UpdateStatus handles PATCH /api/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.updateStatus.Handle(r.Context(), command.UpdateOrderStatusCommand{
		OrderID: id,
		Status:  req.Status,
	})
	h.respondResult(w, r, "order.update_status", result, err, http.StatusOK)
}

// SetDriverNotified handles PATCH /api/orders/{id}/driver-notified
func (h *OrderHandler) SetDriverNotified(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Notified bool `json:"notified"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.driverNotified.Handle(r.Context(), command.SetDriverNotifiedCommand{
		OrderID:  id,
		Notified: req.Notified,
	})
	h.respondResult(w, r, "order.driver_notified", result, err, http.StatusOK)
}

// DeleteOrder handles DELETE /api/orders/{id}
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.deleteOrder.Handle(r.Context(), command.DeleteOrderCommand{OrderID: id})
	h.respondResult(w, r, "order.delete", result, err, http.StatusOK)
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/orders", h.ListOrders).Methods("GET")
	router.HandleFunc("/api/orders", h.CreateOrder).Methods("POST")
	router.HandleFunc("/api/orders/{id}", h.GetOrder).Methods("GET")
	router.HandleFunc("/api/orders/{id}", h.UpdateOrder).Methods("PUT")
	router.HandleFunc("/api/orders/{id}", h.DeleteOrder).Methods("DELETE")
	router.HandleFunc("/api/orders/{id}/status", h.UpdateStatus).Methods("PATCH")
	router.HandleFunc("/api/orders/{id}/driver-notified", h.SetDriverNotified).Methods("PATCH")
}

func (h *OrderHandler) respondResult(w http.ResponseWriter, r *http.Request, operation string, result engine.Result, err error, okStatus int) {
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

func (h *OrderHandler) publishChanged(ctx context.Context, operation string, result engine.Result) {
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
