package command

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/stockware/stockroom/internal/engine"
	ledgercommand "github.com/stockware/stockroom/internal/ledger/usecase/command"
	"github.com/stockware/stockroom/internal/order/domain"
	"github.com/stockware/stockroom/pkg/logger"
)

// UpdateOrderStatusCommand moves an order through its lifecycle
type UpdateOrderStatusCommand struct {
	OrderID uint
	Status  string
}

// UpdateOrderStatusHandler handles update order status commands
type UpdateOrderStatusHandler struct {
	db     *gorm.DB
	orders domain.OrderRepository
	accept *ledgercommand.AcceptDeliveryHandler
}

// NewUpdateOrderStatusHandler creates a new update order status handler
func NewUpdateOrderStatusHandler(
	db *gorm.DB,
	orders domain.OrderRepository,
	accept *ledgercommand.AcceptDeliveryHandler,
) *UpdateOrderStatusHandler {
	return &UpdateOrderStatusHandler{db: db, orders: orders, accept: accept}
}

// Handle executes the update order status command. Moving to accepted
// is the delivery acceptance: binding order lines to parts and
// incrementing stock happen atomically with the status change.
func (h *UpdateOrderStatusHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (engine.Result, error) {
	if cmd.OrderID == 0 {
		return engine.Fail("order_id is required"), nil
	}

	if cmd.Status == domain.StatusAccepted {
		order, err := h.orders.FindByID(cmd.OrderID)
		if err != nil {
			return engine.Result{}, fmt.Errorf("failed to load order: %w", err)
		}
		if !domain.CanTransition(order.Status, cmd.Status) {
			return engine.Fail(fmt.Sprintf("cannot move order from %s to %s", order.Status, cmd.Status)), nil
		}
		return h.accept.Handle(ctx, ledgercommand.AcceptDeliveryCommand{OrderID: cmd.OrderID})
	}

	var denied string
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := h.orders.WithTx(tx)

		order, err := orders.FindByID(cmd.OrderID)
		if err != nil {
			return fmt.Errorf("failed to load order: %w", err)
		}
		if !domain.CanTransition(order.Status, cmd.Status) {
			denied = fmt.Sprintf("cannot move order from %s to %s", order.Status, cmd.Status)
			return nil
		}
		if err := orders.SetStatus(cmd.OrderID, cmd.Status, nil); err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return engine.Result{}, err
	}
	if denied != "" {
		return engine.Fail(denied), nil
	}

	logger.Info(ctx).
		Uint("order_id", cmd.OrderID).
		Str("status", cmd.Status).
		Msg("Order status updated")

	return engine.OK("order status updated", engine.AggregateOrders), nil
}
