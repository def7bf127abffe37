package command

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	"github.com/stockware/stockroom/internal/engine"
	knifedomain "github.com/stockware/stockroom/internal/knife/domain"
	"github.com/stockware/stockroom/internal/ledger/domain"
	orderdomain "github.com/stockware/stockroom/internal/order/domain"
	"github.com/stockware/stockroom/pkg/logger"
)

// DeletePartCommand represents the command to delete a part
type DeletePartCommand struct {
	PartID uint
}

// DeletePartHandler handles delete part commands
type DeletePartHandler struct {
	db           *gorm.DB
	parts        catalogdomain.PartRepository
	equipment    catalogdomain.EquipmentRepository
	orders       orderdomain.OrderRepository
	replacements domain.ReplacementRepository
	tracking     knifedomain.TrackingRepository
}

// NewDeletePartHandler creates a new delete part handler
func NewDeletePartHandler(
	db *gorm.DB,
	parts catalogdomain.PartRepository,
	equipment catalogdomain.EquipmentRepository,
	orders orderdomain.OrderRepository,
	replacements domain.ReplacementRepository,
	tracking knifedomain.TrackingRepository,
) *DeletePartHandler {
	return &DeletePartHandler{
		db:           db,
		parts:        parts,
		equipment:    equipment,
		orders:       orders,
		replacements: replacements,
		tracking:     tracking,
	}
}

// Handle executes the delete part command. References block deletion
// and are reported in a fixed order: equipment links first, then order
// lines, then replacement history, then knife logs. A tracking row
// without log history is removed together with the part.
func (h *DeletePartHandler) Handle(ctx context.Context, cmd DeletePartCommand) (engine.Result, error) {
	if cmd.PartID == 0 {
		return engine.Fail("part_id is required"), nil
	}

	trackingRemoved := false
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		parts := h.parts.WithTx(tx)
		equipment := h.equipment.WithTx(tx)
		orders := h.orders.WithTx(tx)
		replacements := h.replacements.WithTx(tx)
		tracking := h.tracking.WithTx(tx)

		if _, err := parts.FindByID(cmd.PartID); err != nil {
			return fmt.Errorf("failed to load part: %w", err)
		}

		linked, err := equipment.HasLinksForPart(cmd.PartID)
		if err != nil {
			return fmt.Errorf("failed to check equipment links: %w", err)
		}
		if linked {
			return domain.ErrReferencedByEquipment
		}

		ordered, err := orders.HasItemsForPart(cmd.PartID)
		if err != nil {
			return fmt.Errorf("failed to check order lines: %w", err)
		}
		if ordered {
			return domain.ErrReferencedByOrder
		}

		replaced, err := replacements.HasForPart(cmd.PartID)
		if err != nil {
			return fmt.Errorf("failed to check replacement history: %w", err)
		}
		if replaced {
			return domain.ErrReferencedByReplacement
		}

		hasLogs, err := tracking.HasLogsForPart(cmd.PartID)
		if err != nil {
			return fmt.Errorf("failed to check knife logs: %w", err)
		}
		if hasLogs {
			return domain.ErrKnifeHistoryExists
		}

		if tr, err := tracking.FindByPart(cmd.PartID); err == nil && tr != nil {
			if err := tracking.DeleteByPart(cmd.PartID); err != nil {
				return fmt.Errorf("failed to delete knife tracking: %w", err)
			}
			trackingRemoved = true
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to load knife tracking: %w", err)
		}

		if err := parts.Delete(cmd.PartID); err != nil {
			return fmt.Errorf("failed to delete part: %w", err)
		}
		return nil
	})
	if err != nil {
		for _, guard := range []error{
			domain.ErrReferencedByEquipment,
			domain.ErrReferencedByOrder,
			domain.ErrReferencedByReplacement,
			domain.ErrKnifeHistoryExists,
		} {
			if errors.Is(err, guard) {
				return engine.Fail(guard.Error()), nil
			}
		}
		return engine.Result{}, err
	}

	logger.Info(ctx).
		Uint("part_id", cmd.PartID).
		Msg("Part deleted")

	changed := []engine.Aggregate{engine.AggregateParts}
	if trackingRemoved {
		changed = append(changed, engine.AggregateKnives)
	}
	return engine.OK("part deleted", changed...), nil
}
