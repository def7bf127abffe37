package query

import (
	"context"
	"fmt"

	"github.com/stockware/stockroom/internal/order/domain"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
)

// ListOrdersQuery lists orders, newest first
type ListOrdersQuery struct {
	Limit  int
	Offset int
	Status string
}

// OrderView is an order with its counterparty name and line total
type OrderView struct {
	domain.Order
	CounterpartyName string  `json:"counterparty_name"`
	Total            float64 `json:"total"`
}

// ListOrdersHandler handles list orders queries
type ListOrdersHandler struct {
	orders         domain.OrderRepository
	counterparties catalogdomain.CounterpartyRepository
}

// NewListOrdersHandler creates a new list orders handler
func NewListOrdersHandler(
	orders domain.OrderRepository,
	counterparties catalogdomain.CounterpartyRepository,
) *ListOrdersHandler {
	return &ListOrdersHandler{orders: orders, counterparties: counterparties}
}

// Handle executes the list orders query
func (h *ListOrdersHandler) Handle(ctx context.Context, q ListOrdersQuery) ([]OrderView, int64, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 50
	}

	orders, total, err := h.orders.FindAll(q.Limit, q.Offset, q.Status)
	if err != nil {
		return nil, 0, err
	}

	counterparties, err := h.counterparties.FindAll()
	if err != nil {
		return nil, 0, err
	}
	names := make(map[uint]string, len(counterparties))
	for _, c := range counterparties {
		names[c.ID] = c.Name
	}

	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		view := OrderView{Order: order, CounterpartyName: names[order.CounterpartyID]}
		for _, item := range order.Items {
			view.Total += float64(item.Qty) * item.Price
		}
		views = append(views, view)
	}
	return views, total, nil
}

// GetOrderQuery fetches one order with its lines
type GetOrderQuery struct {
	OrderID uint
}

// GetOrderHandler handles get order queries
type GetOrderHandler struct {
	orders         domain.OrderRepository
	counterparties catalogdomain.CounterpartyRepository
}

// NewGetOrderHandler creates a new get order handler
func NewGetOrderHandler(
	orders domain.OrderRepository,
	counterparties catalogdomain.CounterpartyRepository,
) *GetOrderHandler {
	return &GetOrderHandler{orders: orders, counterparties: counterparties}
}

// Handle executes the get order query
func (h *GetOrderHandler) Handle(ctx context.Context, q GetOrderQuery) (*OrderView, error) {
	order, err := h.orders.FindByID(q.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	view := &OrderView{Order: *order}
	if counterparty, err := h.counterparties.FindByID(order.CounterpartyID); err == nil {
		view.CounterpartyName = counterparty.Name
	}
	for _, item := range order.Items {
		view.Total += float64(item.Qty) * item.Price
	}
	return view, nil
}
