package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	"github.com/stockware/stockroom/internal/engine"
	ledgerdomain "github.com/stockware/stockroom/internal/ledger/domain"
	"github.com/stockware/stockroom/internal/order/domain"
	"github.com/stockware/stockroom/pkg/logger"
)

// OrderLine is one line of a save order command
type OrderLine struct {
	PartID *uint
	Name   string
	SKU    string
	Qty    int
	Price  float64
}

// SaveOrderCommand creates an order when ID is zero and updates it
// otherwise. The item set is replaced wholesale.
type SaveOrderCommand struct {
	ID             uint
	CounterpartyID uint
	Comment        string
	Lines          []OrderLine
}

// SaveOrderHandler handles save order commands
type SaveOrderHandler struct {
	db             *gorm.DB
	orders         domain.OrderRepository
	parts          catalogdomain.PartRepository
	counterparties catalogdomain.CounterpartyRepository
}

// NewSaveOrderHandler creates a new save order handler
func NewSaveOrderHandler(
	db *gorm.DB,
	orders domain.OrderRepository,
	parts catalogdomain.PartRepository,
	counterparties catalogdomain.CounterpartyRepository,
) *SaveOrderHandler {
	return &SaveOrderHandler{
		db:             db,
		orders:         orders,
		parts:          parts,
		counterparties: counterparties,
	}
}

// Handle executes the save order command. A line bound to a part whose
// snapshot price differs from the stored part price pushes the new
// price onto the part. Terminal orders cannot be edited.
func (h *SaveOrderHandler) Handle(ctx context.Context, cmd SaveOrderCommand) (engine.Result, error) {
	if cmd.CounterpartyID == 0 {
		return engine.Fail("counterparty_id is required"), nil
	}
	if len(cmd.Lines) == 0 {
		return engine.Fail("at least one line is required"), nil
	}
	for _, line := range cmd.Lines {
		if strings.TrimSpace(line.Name) == "" {
			return engine.Fail("line name is required"), nil
		}
		if line.Qty <= 0 {
			return engine.Fail("line qty must be positive"), nil
		}
		if line.Price < 0 {
			return engine.Fail("line price cannot be negative"), nil
		}
	}

	pricesPropagated := false
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := h.orders.WithTx(tx)
		parts := h.parts.WithTx(tx)
		counterparties := h.counterparties.WithTx(tx)

		if _, err := counterparties.FindByID(cmd.CounterpartyID); err != nil {
			return fmt.Errorf("failed to load counterparty: %w", err)
		}

		var orderID uint
		if cmd.ID == 0 {
			order := &domain.Order{
				CounterpartyID: cmd.CounterpartyID,
				Status:         domain.StatusCreated,
				Comment:        cmd.Comment,
			}
			if err := orders.Create(order); err != nil {
				return fmt.Errorf("failed to create order: %w", err)
			}
			orderID = order.ID
		} else {
			order, err := orders.FindByID(cmd.ID)
			if err != nil {
				return fmt.Errorf("failed to load order: %w", err)
			}
			if domain.IsTerminal(order.Status) {
				return ledgerdomain.ErrInvalidStateTransition
			}
			order.CounterpartyID = cmd.CounterpartyID
			order.Comment = cmd.Comment
			if err := orders.Update(order); err != nil {
				return fmt.Errorf("failed to update order: %w", err)
			}
			orderID = order.ID
		}

		items := make([]domain.OrderItem, 0, len(cmd.Lines))
		for _, line := range cmd.Lines {
			items = append(items, domain.OrderItem{
				OrderID: orderID,
				PartID:  line.PartID,
				Name:    strings.TrimSpace(line.Name),
				SKU:     strings.TrimSpace(line.SKU),
				Qty:     line.Qty,
				Price:   line.Price,
			})

			if line.PartID != nil {
				part, err := parts.FindByID(*line.PartID)
				if err != nil {
					return fmt.Errorf("failed to load part for line: %w", err)
				}
				if part.Price != line.Price {
					if err := parts.UpdatePrice(part.ID, line.Price); err != nil {
						return fmt.Errorf("failed to propagate price: %w", err)
					}
					pricesPropagated = true
				}
			}
		}
		if err := orders.ReplaceItems(orderID, items); err != nil {
			return fmt.Errorf("failed to replace order items: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ledgerdomain.ErrInvalidStateTransition) {
			return engine.Fail("accepted or cancelled orders cannot be edited"), nil
		}
		return engine.Result{}, err
	}

	logger.Info(ctx).
		Uint("counterparty_id", cmd.CounterpartyID).
		Int("lines", len(cmd.Lines)).
		Msg("Order saved")

	changed := []engine.Aggregate{engine.AggregateOrders}
	if pricesPropagated {
		changed = append(changed, engine.AggregateParts)
	}
	return engine.OK("order saved", changed...), nil
}
