package command

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/stockware/stockroom/internal/engine"
	"github.com/stockware/stockroom/internal/task/domain"
	"github.com/stockware/stockroom/pkg/logger"
)

// DeleteTaskCommand removes a task and its part lines
type DeleteTaskCommand struct {
	TaskID uint
}

// DeleteTaskHandler handles delete task commands
type DeleteTaskHandler struct {
	db    *gorm.DB
	tasks domain.TaskRepository
}

// NewDeleteTaskHandler creates a new delete task handler
func NewDeleteTaskHandler(db *gorm.DB, tasks domain.TaskRepository) *DeleteTaskHandler {
	return &DeleteTaskHandler{db: db, tasks: tasks}
}

// Handle executes the delete task command. Links the task referenced
// get their requires_replacement flag recomputed in the same
// transaction.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) (engine.Result, error) {
	if cmd.TaskID == 0 {
		return engine.Fail("task_id is required"), nil
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks := h.tasks.WithTx(tx)

		if _, err := tasks.FindByID(cmd.TaskID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errTaskNotFound
			}
			return fmt.Errorf("failed to load task: %w", err)
		}

		ids, err := tasks.EquipmentPartIDs(cmd.TaskID)
		if err != nil {
			return fmt.Errorf("failed to load task links: %w", err)
		}

		if err := tasks.Delete(cmd.TaskID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		return tasks.RefreshReplacementFlags(ids)
	})
	if err != nil {
		if isTaskRuleViolation(err) {
			return engine.Fail(err.Error()), nil
		}
		return engine.Result{}, err
	}

	logger.Info(ctx).
		Uint("task_id", cmd.TaskID).
		Msg("Task deleted")

	return engine.OK("task deleted", engine.AggregateTasks, engine.AggregateEquipment), nil
}
