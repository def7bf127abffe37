package query

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/stockware/stockroom/internal/task/domain"
)

// ListTasksQuery lists tasks on the board, highest priority first
type ListTasksQuery struct {
	Status string
}

// TaskView is a task row joined with its equipment name
type TaskView struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Priority      string     `json:"priority"`
	DueDate       *time.Time `json:"due_date"`
	Assignee      string     `json:"assignee"`
	Status        string     `json:"status"`
	IsReplacement bool       `json:"is_replacement"`
	EquipmentID   *uint      `json:"equipment_id"`
	EquipmentName string     `json:"equipment_name"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ListTasksHandler handles list tasks queries
type ListTasksHandler struct {
	db *gorm.DB
}

// NewListTasksHandler creates a new list tasks handler
func NewListTasksHandler(db *gorm.DB) *ListTasksHandler {
	return &ListTasksHandler{db: db}
}

// Handle executes the list tasks query
func (h *ListTasksHandler) Handle(ctx context.Context, q ListTasksQuery) ([]TaskView, error) {
	query := h.db.WithContext(ctx).
		Table("tasks").
		Joins("LEFT JOIN equipment ON equipment.id = tasks.equipment_id").
		Select(`tasks.id, tasks.title, tasks.description, tasks.priority,
			tasks.due_date, tasks.assignee, tasks.status, tasks.is_replacement,
			tasks.equipment_id, COALESCE(equipment.name, '') AS equipment_name,
			tasks.created_at`).
		Order(`CASE tasks.priority
			WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 4
			END, tasks.due_date`)

	if q.Status != "" {
		query = query.Where("tasks.status = ?", q.Status)
	}

	var views []TaskView
	if err := query.Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

// TaskHistoryQuery lists closed tasks, newest first. Tasks without a
// due date fall back to their creation date for filtering and order.
type TaskHistoryQuery struct {
	From        *time.Time
	To          *time.Time
	EquipmentID uint
	Assignee    string
}

// TaskHistoryHandler handles task history queries
type TaskHistoryHandler struct {
	db *gorm.DB
}

// NewTaskHistoryHandler creates a new task history handler
func NewTaskHistoryHandler(db *gorm.DB) *TaskHistoryHandler {
	return &TaskHistoryHandler{db: db}
}

// Handle executes the task history query
func (h *TaskHistoryHandler) Handle(ctx context.Context, q TaskHistoryQuery) ([]TaskView, error) {
	query := h.db.WithContext(ctx).
		Table("tasks").
		Joins("LEFT JOIN equipment ON equipment.id = tasks.equipment_id").
		Select(`tasks.id, tasks.title, tasks.description, tasks.priority,
			tasks.due_date, tasks.assignee, tasks.status, tasks.is_replacement,
			tasks.equipment_id, COALESCE(equipment.name, '') AS equipment_name,
			tasks.created_at`).
		Where("tasks.status IN ?", []string{domain.TaskStatusDone, domain.TaskStatusCancelled}).
		Order("COALESCE(tasks.due_date, tasks.created_at) DESC, tasks.created_at DESC, tasks.id DESC")

	if q.From != nil {
		query = query.Where("COALESCE(tasks.due_date, tasks.created_at) >= ?", *q.From)
	}
	if q.To != nil {
		query = query.Where("COALESCE(tasks.due_date, tasks.created_at) <= ?", *q.To)
	}
	if q.EquipmentID != 0 {
		query = query.Where("tasks.equipment_id = ?", q.EquipmentID)
	}
	if q.Assignee != "" {
		query = query.Where("tasks.assignee = ?", q.Assignee)
	}

	var views []TaskView
	if err := query.Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}
