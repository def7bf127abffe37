package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	"github.com/stockware/stockroom/internal/engine"
	"github.com/stockware/stockroom/internal/ledger/domain"
	orderdomain "github.com/stockware/stockroom/internal/order/domain"
	"github.com/stockware/stockroom/pkg/logger"
)

// AcceptDeliveryCommand represents the command to accept a delivered
// order into stock
type AcceptDeliveryCommand struct {
	OrderID uint
}

// AcceptDeliveryHandler handles accept delivery commands
type AcceptDeliveryHandler struct {
	db     *gorm.DB
	parts  catalogdomain.PartRepository
	orders orderdomain.OrderRepository
}

// NewAcceptDeliveryHandler creates a new accept delivery handler
func NewAcceptDeliveryHandler(
	db *gorm.DB,
	parts catalogdomain.PartRepository,
	orders orderdomain.OrderRepository,
) *AcceptDeliveryHandler {
	return &AcceptDeliveryHandler{db: db, parts: parts, orders: orders}
}

// Handle executes the accept delivery command. Every order line is
// bound to a stock part (creating one from the line snapshot when no
// match exists), stock is incremented per line, and the order moves to
// accepted. Accepting an already terminal order is rejected, so a
// retried request cannot double the stock.
func (h *AcceptDeliveryHandler) Handle(ctx context.Context, cmd AcceptDeliveryCommand) (engine.Result, error) {
	if cmd.OrderID == 0 {
		return engine.Fail("order_id is required"), nil
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		parts := h.parts.WithTx(tx)
		orders := h.orders.WithTx(tx)

		order, err := orders.FindByID(cmd.OrderID)
		if err != nil {
			return fmt.Errorf("failed to load order: %w", err)
		}
		if orderdomain.IsTerminal(order.Status) {
			return domain.ErrInvalidStateTransition
		}

		items, err := orders.ItemsForOrder(cmd.OrderID)
		if err != nil {
			return fmt.Errorf("failed to load order items: %w", err)
		}

		for i := range items {
			item := &items[i]
			partID, err := h.bindItem(parts, item)
			if err != nil {
				return err
			}
			if err := parts.AdjustQty(partID, item.Qty); err != nil {
				return fmt.Errorf("failed to increment stock: %w", err)
			}
		}
		if err := orders.ReplaceItems(cmd.OrderID, items); err != nil {
			return fmt.Errorf("failed to persist item bindings: %w", err)
		}

		now := time.Now()
		if err := orders.SetStatus(cmd.OrderID, orderdomain.StatusAccepted, &now); err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStateTransition) {
			return engine.Fail("order is already accepted or cancelled"), nil
		}
		return engine.Result{}, err
	}

	logger.Info(ctx).
		Uint("order_id", cmd.OrderID).
		Msg("Delivery accepted into stock")

	return engine.OK("delivery accepted",
		engine.AggregateParts, engine.AggregateOrders), nil
}

// bindItem resolves the stock part an order line lands on. An unbound
// line is matched by name+sku; when nothing matches, a new part is
// created from the line snapshot.
func (h *AcceptDeliveryHandler) bindItem(parts catalogdomain.PartRepository, item *orderdomain.OrderItem) (uint, error) {
	if item.PartID != nil {
		if _, err := parts.FindByID(*item.PartID); err == nil {
			return *item.PartID, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("failed to load part: %w", err)
		}
	}

	existing, err := parts.FindByNameSKU(item.Name, item.SKU)
	switch {
	case err == nil:
		item.PartID = &existing.ID
		return existing.ID, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		part := &catalogdomain.Part{
			Name:  item.Name,
			SKU:   item.SKU,
			Qty:   0,
			Price: item.Price,
		}
		if err := parts.Create(part); err != nil {
			return 0, fmt.Errorf("failed to create part from order line: %w", err)
		}
		item.PartID = &part.ID
		return part.ID, nil
	default:
		return 0, fmt.Errorf("failed to match part: %w", err)
	}
}
