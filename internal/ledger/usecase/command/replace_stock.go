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
	"github.com/stockware/stockroom/pkg/logger"
)

// ReplaceStockCommand represents the command to consume stock for a
// replacement performed on equipment
type ReplaceStockCommand struct {
	PartID      uint
	EquipmentID uint
	Qty         int
	Comment     string
	ReplacedAt  time.Time
}

// ReplaceStockHandler handles replace stock commands
type ReplaceStockHandler struct {
	db           *gorm.DB
	parts        catalogdomain.PartRepository
	equipment    catalogdomain.EquipmentRepository
	replacements domain.ReplacementRepository
}

// NewReplaceStockHandler creates a new replace stock handler
func NewReplaceStockHandler(
	db *gorm.DB,
	parts catalogdomain.PartRepository,
	equipment catalogdomain.EquipmentRepository,
	replacements domain.ReplacementRepository,
) *ReplaceStockHandler {
	return &ReplaceStockHandler{
		db:           db,
		parts:        parts,
		equipment:    equipment,
		replacements: replacements,
	}
}

// Handle executes the replace stock command. The availability check,
// the decrement, the ledger insert and the flag reset share one
// transaction so stock can never go negative.
func (h *ReplaceStockHandler) Handle(ctx context.Context, cmd ReplaceStockCommand) (engine.Result, error) {
	if cmd.PartID == 0 || cmd.EquipmentID == 0 {
		return engine.Fail("part_id and equipment_id are required"), nil
	}
	if cmd.Qty <= 0 {
		return engine.Fail("qty must be positive"), nil
	}
	if cmd.ReplacedAt.IsZero() {
		cmd.ReplacedAt = time.Now()
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		parts := h.parts.WithTx(tx)
		equipment := h.equipment.WithTx(tx)
		replacements := h.replacements.WithTx(tx)

		part, err := parts.FindByID(cmd.PartID)
		if err != nil {
			return fmt.Errorf("failed to load part: %w", err)
		}
		if part.Qty < cmd.Qty {
			return domain.ErrInsufficientStock
		}

		if _, err := equipment.FindByID(cmd.EquipmentID); err != nil {
			return fmt.Errorf("failed to load equipment: %w", err)
		}

		if err := parts.AdjustQty(cmd.PartID, -cmd.Qty); err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}

		replacement := &domain.Replacement{
			PartID:      cmd.PartID,
			EquipmentID: cmd.EquipmentID,
			Qty:         cmd.Qty,
			Comment:     cmd.Comment,
			ReplacedAt:  cmd.ReplacedAt,
		}
		if err := replacements.Create(replacement); err != nil {
			return fmt.Errorf("failed to record replacement: %w", err)
		}

		if err := equipment.ClearRequiresReplacement(cmd.EquipmentID, cmd.PartID); err != nil {
			return fmt.Errorf("failed to clear replacement flag: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			return engine.Fail(domain.ErrInsufficientStock.Error()), nil
		}
		return engine.Result{}, err
	}

	logger.Info(ctx).
		Uint("part_id", cmd.PartID).
		Uint("equipment_id", cmd.EquipmentID).
		Int("qty", cmd.Qty).
		Msg("Stock consumed for replacement")

	return engine.OK("replacement recorded",
		engine.AggregateParts, engine.AggregateEquipment, engine.AggregateReplacements), nil
}
