package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	"github.com/stockware/stockroom/internal/engine"
	ledgerdomain "github.com/stockware/stockroom/internal/ledger/domain"
	"github.com/stockware/stockroom/internal/task/domain"
	"github.com/stockware/stockroom/pkg/logger"
)

// UpdateTaskStatusCommand moves a task through its lifecycle
type UpdateTaskStatusCommand struct {
	TaskID uint
	Status string
}

// UpdateTaskStatusHandler handles update task status commands
type UpdateTaskStatusHandler struct {
	db           *gorm.DB
	tasks        domain.TaskRepository
	parts        catalogdomain.PartRepository
	equipment    catalogdomain.EquipmentRepository
	replacements ledgerdomain.ReplacementRepository
}

// NewUpdateTaskStatusHandler creates a new update task status handler
func NewUpdateTaskStatusHandler(
	db *gorm.DB,
	tasks domain.TaskRepository,
	parts catalogdomain.PartRepository,
	equipment catalogdomain.EquipmentRepository,
	replacements ledgerdomain.ReplacementRepository,
) *UpdateTaskStatusHandler {
	return &UpdateTaskStatusHandler{
		db:           db,
		tasks:        tasks,
		parts:        parts,
		equipment:    equipment,
		replacements: replacements,
	}
}

// Handle executes the update task status command. Completing a
// replacement task writes its part lines off from stock and records
// them in the replacement ledger, all in one transaction with the
// status change. A task already done is never written off again.
func (h *UpdateTaskStatusHandler) Handle(ctx context.Context, cmd UpdateTaskStatusCommand) (engine.Result, error) {
	if cmd.TaskID == 0 {
		return engine.Fail("task_id is required"), nil
	}
	if !domain.ValidTaskStatus(cmd.Status) {
		return engine.Fail("unknown status: " + cmd.Status), nil
	}

	var (
		stockMoved   bool
		hadLinks     bool
		insufficient *catalogdomain.Part
	)
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks := h.tasks.WithTx(tx)
		parts := h.parts.WithTx(tx)
		equipment := h.equipment.WithTx(tx)
		replacements := h.replacements.WithTx(tx)

		task, err := tasks.FindByID(cmd.TaskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errTaskNotFound
			}
			return fmt.Errorf("failed to load task: %w", err)
		}

		if err := tasks.SetStatus(cmd.TaskID, cmd.Status); err != nil {
			return fmt.Errorf("failed to update task status: %w", err)
		}

		if !task.IsReplacement {
			return nil
		}
		hadLinks = len(task.Parts) > 0

		writeOff := cmd.Status == domain.TaskStatusDone && task.Status != domain.TaskStatusDone
		if writeOff {
			for _, line := range task.Parts {
				part, err := parts.FindByID(line.PartID)
				if err != nil {
					return fmt.Errorf("failed to load part %d: %w", line.PartID, err)
				}
				if part.Qty < line.Qty {
					insufficient = part
					return ledgerdomain.ErrInsufficientStock
				}
			}

			reason := task.Description
			if reason == "" {
				reason = fmt.Sprintf("Task #%d: %s", task.ID, task.Title)
			}
			now := time.Now()

			for _, line := range task.Parts {
				if err := parts.AdjustQty(line.PartID, -line.Qty); err != nil {
					return fmt.Errorf("failed to decrement stock: %w", err)
				}
				link, err := equipment.FindLink(line.EquipmentPartID)
				if err != nil {
					// The link may have been detached since the task
					// was planned; the write-off still happens.
					if errors.Is(err, gorm.ErrRecordNotFound) {
						continue
					}
					return fmt.Errorf("failed to load equipment link %d: %w", line.EquipmentPartID, err)
				}
				replacement := &ledgerdomain.Replacement{
					PartID:      line.PartID,
					EquipmentID: link.EquipmentID,
					Qty:         line.Qty,
					Comment:     reason,
					ReplacedAt:  now,
				}
				if err := replacements.Create(replacement); err != nil {
					return fmt.Errorf("failed to record replacement: %w", err)
				}
			}
			stockMoved = true
		}

		ids := make([]uint, 0, len(task.Parts))
		for _, line := range task.Parts {
			ids = append(ids, line.EquipmentPartID)
		}
		return tasks.RefreshReplacementFlags(ids)
	})
	if err != nil {
		if errors.Is(err, ledgerdomain.ErrInsufficientStock) {
			return engine.Fail(fmt.Sprintf("insufficient stock for %s", insufficient.Name)), nil
		}
		if isTaskRuleViolation(err) {
			return engine.Fail(err.Error()), nil
		}
		return engine.Result{}, err
	}

	logger.Info(ctx).
		Uint("task_id", cmd.TaskID).
		Str("status", cmd.Status).
		Bool("stock_moved", stockMoved).
		Msg("Task status updated")

	changed := []engine.Aggregate{engine.AggregateTasks}
	if hadLinks {
		changed = append(changed, engine.AggregateEquipment)
	}
	if stockMoved {
		changed = append(changed, engine.AggregateParts, engine.AggregateReplacements)
	}
	return engine.OK("task status updated", changed...), nil
}
