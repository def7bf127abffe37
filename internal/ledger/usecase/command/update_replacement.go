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

// UpdateReplacementCommand edits an existing replacement record
type UpdateReplacementCommand struct {
	ReplacementID uint
	Qty           int
	Comment       string
	ReplacedAt    time.Time
}

// UpdateReplacementHandler handles update replacement commands
type UpdateReplacementHandler struct {
	db           *gorm.DB
	parts        catalogdomain.PartRepository
	replacements domain.ReplacementRepository
}

// NewUpdateReplacementHandler creates a new update replacement handler
func NewUpdateReplacementHandler(
	db *gorm.DB,
	parts catalogdomain.PartRepository,
	replacements domain.ReplacementRepository,
) *UpdateReplacementHandler {
	return &UpdateReplacementHandler{db: db, parts: parts, replacements: replacements}
}

// Handle executes the update replacement command. Changing the
// quantity moves the difference back into or out of stock, with the
// same availability check a fresh replacement gets.
func (h *UpdateReplacementHandler) Handle(ctx context.Context, cmd UpdateReplacementCommand) (engine.Result, error) {
	if cmd.ReplacementID == 0 {
		return engine.Fail("replacement_id is required"), nil
	}
	if cmd.Qty <= 0 {
		return engine.Fail("qty must be positive"), nil
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		parts := h.parts.WithTx(tx)
		replacements := h.replacements.WithTx(tx)

		replacement, err := replacements.FindByID(cmd.ReplacementID)
		if err != nil {
			return fmt.Errorf("failed to load replacement: %w", err)
		}

		delta := cmd.Qty - replacement.Qty
		if delta != 0 {
			part, err := parts.FindByID(replacement.PartID)
			if err != nil {
				return fmt.Errorf("failed to load part: %w", err)
			}
			if delta > 0 && part.Qty < delta {
				return domain.ErrInsufficientStock
			}
			if err := parts.AdjustQty(replacement.PartID, -delta); err != nil {
				return fmt.Errorf("failed to adjust stock: %w", err)
			}
		}

		replacement.Qty = cmd.Qty
		replacement.Comment = cmd.Comment
		if !cmd.ReplacedAt.IsZero() {
			replacement.ReplacedAt = cmd.ReplacedAt
		}
		if err := replacements.Update(replacement); err != nil {
			return fmt.Errorf("failed to update replacement: %w", err)
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
		Uint("replacement_id", cmd.ReplacementID).
		Int("qty", cmd.Qty).
		Msg("Replacement updated")

	return engine.OK("replacement updated",
		engine.AggregateParts, engine.AggregateReplacements), nil
}

// DeleteReplacementCommand removes a replacement record
type DeleteReplacementCommand struct {
	ReplacementID uint
}

// DeleteReplacementHandler handles delete replacement commands
type DeleteReplacementHandler struct {
	db           *gorm.DB
	parts        catalogdomain.PartRepository
	replacements domain.ReplacementRepository
}

// NewDeleteReplacementHandler creates a new delete replacement handler
func NewDeleteReplacementHandler(
	db *gorm.DB,
	parts catalogdomain.PartRepository,
	replacements domain.ReplacementRepository,
) *DeleteReplacementHandler {
	return &DeleteReplacementHandler{db: db, parts: parts, replacements: replacements}
}

// Handle executes the delete replacement command. The consumed
// quantity goes back into stock.
func (h *DeleteReplacementHandler) Handle(ctx context.Context, cmd DeleteReplacementCommand) (engine.Result, error) {
	if cmd.ReplacementID == 0 {
		return engine.Fail("replacement_id is required"), nil
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		parts := h.parts.WithTx(tx)
		replacements := h.replacements.WithTx(tx)

		replacement, err := replacements.FindByID(cmd.ReplacementID)
		if err != nil {
			return fmt.Errorf("failed to load replacement: %w", err)
		}
		if err := parts.AdjustQty(replacement.PartID, replacement.Qty); err != nil {
			return fmt.Errorf("failed to restore stock: %w", err)
		}
		if err := replacements.Delete(cmd.ReplacementID); err != nil {
			return fmt.Errorf("failed to delete replacement: %w", err)
		}
		return nil
	})
	if err != nil {
		return engine.Result{}, err
	}

	logger.Info(ctx).
		Uint("replacement_id", cmd.ReplacementID).
		Msg("Replacement deleted")

	return engine.OK("replacement deleted",
		engine.AggregateParts, engine.AggregateReplacements), nil
}
