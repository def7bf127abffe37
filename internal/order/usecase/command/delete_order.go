package command

import (
	"context"
	"fmt"

	"github.com/stockware/stockroom/internal/engine"
	"github.com/stockware/stockroom/internal/order/domain"
	"github.com/stockware/stockroom/pkg/logger"
)

// DeleteOrderCommand removes an order and its lines
type DeleteOrderCommand struct {
	OrderID uint
}

// DeleteOrderHandler handles delete order commands
type DeleteOrderHandler struct {
	orders domain.OrderRepository
}

// NewDeleteOrderHandler creates a new delete order handler
func NewDeleteOrderHandler(orders domain.OrderRepository) *DeleteOrderHandler {
	return &DeleteOrderHandler{orders: orders}
}

// Handle executes the delete order command. Stock received from an
// accepted order is not reversed; corrections go through the
// replacement ledger.
func (h *DeleteOrderHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) (engine.Result, error) {
	if cmd.OrderID == 0 {
		return engine.Fail("order_id is required"), nil
	}

	if _, err := h.orders.FindByID(cmd.OrderID); err != nil {
		return engine.Result{}, fmt.Errorf("failed to load order: %w", err)
	}

	if err := h.orders.Delete(cmd.OrderID); err != nil {
		return engine.Result{}, fmt.Errorf("failed to delete order: %w", err)
	}

	logger.Info(ctx).
		Uint("order_id", cmd.OrderID).
		Msg("Order deleted")

	return engine.OK("order deleted", engine.AggregateOrders), nil
}

// SetDriverNotifiedCommand flags that the driver has been told about
// an order
type SetDriverNotifiedCommand struct {
	OrderID  uint
	Notified bool
}

// SetDriverNotifiedHandler handles set driver notified commands
type SetDriverNotifiedHandler struct {
	orders domain.OrderRepository
}

// NewSetDriverNotifiedHandler creates a new set driver notified handler
func NewSetDriverNotifiedHandler(orders domain.OrderRepository) *SetDriverNotifiedHandler {
	return &SetDriverNotifiedHandler{orders: orders}
}

// Handle executes the set driver notified command
func (h *SetDriverNotifiedHandler) Handle(ctx context.Context, cmd SetDriverNotifiedCommand) (engine.Result, error) {
	if cmd.OrderID == 0 {
		return engine.Fail("order_id is required"), nil
	}
	if _, err := h.orders.FindByID(cmd.OrderID); err != nil {
		return engine.Result{}, fmt.Errorf("failed to load order: %w", err)
	}
	if err := h.orders.SetDriverNotified(cmd.OrderID, cmd.Notified); err != nil {
		return engine.Result{}, fmt.Errorf("failed to update driver flag: %w", err)
	}
	return engine.OK("driver flag updated", engine.AggregateOrders), nil
}
