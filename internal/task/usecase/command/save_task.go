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

var errTaskNotFound = errors.New("task not found")

// isTaskRuleViolation reports whether err is a business failure rather
// than an infrastructure one
func isTaskRuleViolation(err error) bool {
	for _, rule := range []error{
		domain.ErrNonPositiveQty,
		domain.ErrLinkGone,
		domain.ErrLinkMismatch,
		domain.ErrForeignLink,
		errTaskNotFound,
	} {
		if errors.Is(err, rule) {
			return true
		}
	}
	return false
}

// TaskPartInput is one requested part line of a replacement task
type TaskPartInput struct {
	EquipmentPartID uint
	PartID          uint
	Qty             int
}

// SaveTaskCommand creates a task or updates an existing one
type SaveTaskCommand struct {
	TaskID        uint
	Title         string
	Description   string
	Priority      string
	DueDate       *time.Time
	Assignee      string
	EquipmentID   *uint
	Status        string
	IsReplacement bool
	Parts         []TaskPartInput
}

// SaveTaskHandler handles save task commands
type SaveTaskHandler struct {
	db        *gorm.DB
	tasks     domain.TaskRepository
	equipment catalogdomain.EquipmentRepository
}

// NewSaveTaskHandler creates a new save task handler
func NewSaveTaskHandler(db *gorm.DB, tasks domain.TaskRepository, equipment catalogdomain.EquipmentRepository) *SaveTaskHandler {
	return &SaveTaskHandler{db: db, tasks: tasks, equipment: equipment}
}

// Handle executes the save task command. Every part line of a
// replacement task must reference a live link of the task's equipment.
// The requires_replacement flags of all links the task touched before
// and after the save are recomputed in the same transaction.
func (h *SaveTaskHandler) Handle(ctx context.Context, cmd SaveTaskCommand) (engine.Result, error) {
	cmd.Title = strings.TrimSpace(cmd.Title)
	if cmd.Title == "" {
		return engine.Fail("title is required"), nil
	}
	if cmd.Priority == "" {
		cmd.Priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(cmd.Priority) {
		return engine.Fail("unknown priority: " + cmd.Priority), nil
	}
	if cmd.Status == "" {
		cmd.Status = domain.TaskStatusOpen
	}
	if !domain.ValidTaskStatus(cmd.Status) {
		return engine.Fail("unknown status: " + cmd.Status), nil
	}
	if cmd.IsReplacement {
		if cmd.EquipmentID == nil || *cmd.EquipmentID == 0 {
			return engine.Fail(domain.ErrEquipmentRequired.Error()), nil
		}
		if len(cmd.Parts) == 0 {
			return engine.Fail(domain.ErrPartsRequired.Error()), nil
		}
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks := h.tasks.WithTx(tx)
		equipment := h.equipment.WithTx(tx)

		affected := map[uint]struct{}{}

		task := &domain.Task{
			ID:            cmd.TaskID,
			Title:         cmd.Title,
			Description:   cmd.Description,
			Priority:      cmd.Priority,
			DueDate:       cmd.DueDate,
			Assignee:      cmd.Assignee,
			EquipmentID:   cmd.EquipmentID,
			Status:        cmd.Status,
			IsReplacement: cmd.IsReplacement,
		}

		if cmd.TaskID == 0 {
			if err := tasks.Create(task); err != nil {
				return fmt.Errorf("failed to create task: %w", err)
			}
		} else {
			existing, err := tasks.FindByID(cmd.TaskID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errTaskNotFound
				}
				return fmt.Errorf("failed to load task: %w", err)
			}
			task.CreatedAt = existing.CreatedAt

			prev, err := tasks.EquipmentPartIDs(cmd.TaskID)
			if err != nil {
				return fmt.Errorf("failed to load task links: %w", err)
			}
			for _, id := range prev {
				affected[id] = struct{}{}
			}

			if err := tasks.Update(task); err != nil {
				return fmt.Errorf("failed to update task: %w", err)
			}
		}

		var lines []domain.TaskPart
		for _, input := range cmd.Parts {
			if !cmd.IsReplacement {
				break
			}
			if input.Qty <= 0 {
				return domain.ErrNonPositiveQty
			}
			link, err := equipment.FindLink(input.EquipmentPartID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrLinkGone
				}
				return fmt.Errorf("failed to load equipment link %d: %w", input.EquipmentPartID, err)
			}
			if link.PartID != input.PartID {
				return domain.ErrLinkMismatch
			}
			if link.EquipmentID != *cmd.EquipmentID {
				return domain.ErrForeignLink
			}
			lines = append(lines, domain.TaskPart{
				EquipmentPartID: input.EquipmentPartID,
				PartID:          input.PartID,
				Qty:             input.Qty,
			})
			affected[input.EquipmentPartID] = struct{}{}
		}

		if err := tasks.ReplaceParts(task.ID, lines); err != nil {
			return fmt.Errorf("failed to persist task parts: %w", err)
		}

		return tasks.RefreshReplacementFlags(linkIDs(affected))
	})
	if err != nil {
		if isTaskRuleViolation(err) {
			return engine.Fail(err.Error()), nil
		}
		return engine.Result{}, err
	}

	logger.Info(ctx).
		Str("title", cmd.Title).
		Bool("replacement", cmd.IsReplacement).
		Msg("Task saved")

	return engine.OK("task saved", engine.AggregateTasks, engine.AggregateEquipment), nil
}

func linkIDs(set map[uint]struct{}) []uint {
	ids := make([]uint, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
