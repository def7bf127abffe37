package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	"github.com/stockware/stockroom/internal/engine"
	"github.com/stockware/stockroom/internal/task/domain"
	"github.com/stockware/stockroom/pkg/logger"
)

var errPeriodicNotFound = errors.New("periodic task not found")

// SavePeriodicTaskCommand creates or updates a recurring maintenance
// job
type SavePeriodicTaskCommand struct {
	TaskID          uint
	Title           string
	PeriodDays      int
	EquipmentID     *uint
	EquipmentPartID *uint
	LastCompletedAt *time.Time
}

// SavePeriodicTaskHandler handles save periodic task commands
type SavePeriodicTaskHandler struct {
	db        *gorm.DB
	periodic  domain.PeriodicTaskRepository
	equipment catalogdomain.EquipmentRepository
}

// NewSavePeriodicTaskHandler creates a new save periodic task handler
func NewSavePeriodicTaskHandler(db *gorm.DB, periodic domain.PeriodicTaskRepository, equipment catalogdomain.EquipmentRepository) *SavePeriodicTaskHandler {
	return &SavePeriodicTaskHandler{db: db, periodic: periodic, equipment: equipment}
}

// Handle executes the save periodic task command. A job targeted at an
// equipment link takes its equipment from the link, so the two can
// never disagree.
func (h *SavePeriodicTaskHandler) Handle(ctx context.Context, cmd SavePeriodicTaskCommand) (engine.Result, error) {
	cmd.Title = strings.TrimSpace(cmd.Title)
	if cmd.Title == "" {
		return engine.Fail("title is required"), nil
	}
	if cmd.PeriodDays <= 0 {
		return engine.Fail("period_days must be positive"), nil
	}
	if cmd.EquipmentPartID == nil && (cmd.EquipmentID == nil || *cmd.EquipmentID == 0) {
		return engine.Fail("equipment or an equipment part is required"), nil
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		periodic := h.periodic.WithTx(tx)
		equipment := h.equipment.WithTx(tx)

		equipmentID := cmd.EquipmentID
		if cmd.EquipmentPartID != nil {
			link, err := equipment.FindLink(*cmd.EquipmentPartID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrLinkGone
				}
				return fmt.Errorf("failed to load equipment link: %w", err)
			}
			equipmentID = &link.EquipmentID
		}

		task := &domain.PeriodicTask{
			ID:              cmd.TaskID,
			Title:           cmd.Title,
			EquipmentID:     equipmentID,
			EquipmentPartID: cmd.EquipmentPartID,
			PeriodDays:      cmd.PeriodDays,
			LastCompletedAt: cmd.LastCompletedAt,
		}

		if cmd.TaskID == 0 {
			return periodic.Create(task)
		}
		existing, err := periodic.FindByID(cmd.TaskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errPeriodicNotFound
			}
			return fmt.Errorf("failed to load periodic task: %w", err)
		}
		task.CreatedAt = existing.CreatedAt
		return periodic.Update(task)
	})
	if err != nil {
		if errors.Is(err, domain.ErrLinkGone) || errors.Is(err, errPeriodicNotFound) {
			return engine.Fail(err.Error()), nil
		}
		return engine.Result{}, err
	}

	logger.Info(ctx).
		Str("title", cmd.Title).
		Int("period_days", cmd.PeriodDays).
		Msg("Periodic task saved")

	return engine.OK("periodic task saved", engine.AggregateTasks), nil
}

// DeletePeriodicTasksCommand removes a batch of recurring jobs
type DeletePeriodicTasksCommand struct {
	TaskIDs []uint
}

// DeletePeriodicTasksHandler handles delete periodic tasks commands
type DeletePeriodicTasksHandler struct {
	periodic domain.PeriodicTaskRepository
}

// NewDeletePeriodicTasksHandler creates a new delete periodic tasks
// handler
func NewDeletePeriodicTasksHandler(periodic domain.PeriodicTaskRepository) *DeletePeriodicTasksHandler {
	return &DeletePeriodicTasksHandler{periodic: periodic}
}

// Handle executes the delete periodic tasks command
func (h *DeletePeriodicTasksHandler) Handle(ctx context.Context, cmd DeletePeriodicTasksCommand) (engine.Result, error) {
	if len(cmd.TaskIDs) == 0 {
		return engine.Fail("at least one task_id is required"), nil
	}
	if err := h.periodic.Delete(cmd.TaskIDs); err != nil {
		return engine.Result{}, fmt.Errorf("failed to delete periodic tasks: %w", err)
	}

	logger.Info(ctx).
		Int("count", len(cmd.TaskIDs)).
		Msg("Periodic tasks deleted")

	return engine.OK(fmt.Sprintf("%d jobs deleted", len(cmd.TaskIDs)), engine.AggregateTasks), nil
}

// PeriodicCompletionView is the recomputed schedule returned after a
// completion is recorded
type PeriodicCompletionView struct {
	NextDueAt    time.Time `json:"next_due_at"`
	DaysUntilDue int       `json:"days_until_due"`
}

// CompletePeriodicTaskCommand stamps a completion on a recurring job
type CompletePeriodicTaskCommand struct {
	TaskID      uint
	CompletedAt time.Time
}

// CompletePeriodicTaskHandler handles complete periodic task commands
type CompletePeriodicTaskHandler struct {
	periodic domain.PeriodicTaskRepository
}

// NewCompletePeriodicTaskHandler creates a new complete periodic task
// handler
func NewCompletePeriodicTaskHandler(periodic domain.PeriodicTaskRepository) *CompletePeriodicTaskHandler {
	return &CompletePeriodicTaskHandler{periodic: periodic}
}

// Handle executes the complete periodic task command
func (h *CompletePeriodicTaskHandler) Handle(ctx context.Context, cmd CompletePeriodicTaskCommand) (engine.Result, error) {
	if cmd.TaskID == 0 {
		return engine.Fail("task_id is required"), nil
	}
	if cmd.CompletedAt.IsZero() {
		cmd.CompletedAt = time.Now()
	}

	task, err := h.periodic.FindByID(cmd.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return engine.Fail(errPeriodicNotFound.Error()), nil
		}
		return engine.Result{}, fmt.Errorf("failed to load periodic task: %w", err)
	}

	if err := h.periodic.SetLastCompleted(cmd.TaskID, cmd.CompletedAt); err != nil {
		return engine.Result{}, fmt.Errorf("failed to record completion: %w", err)
	}

	task.LastCompletedAt = &cmd.CompletedAt
	next := task.NextDue(cmd.CompletedAt)

	logger.Info(ctx).
		Uint("task_id", cmd.TaskID).
		Time("next_due_at", next).
		Msg("Periodic task completed")

	return engine.OK("completion recorded", engine.AggregateTasks).WithData(PeriodicCompletionView{
		NextDueAt:    next,
		DaysUntilDue: int(time.Until(next).Hours() / 24),
	}), nil
}
