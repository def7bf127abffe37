package domain

import (
	"time"

	"gorm.io/gorm"
)

// Task statuses and priorities
const (
	TaskStatusOpen      = "open"
	TaskStatusDone      = "done"
	TaskStatusCancelled = "cancelled"
	TaskStatusOnHold    = "on_hold"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidTaskStatus reports whether s is a known task status
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusOpen, TaskStatusDone, TaskStatusCancelled, TaskStatusOnHold:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// IsClosed reports whether a task in this status no longer drives the
// requires_replacement flag on its equipment links
func IsClosed(status string) bool {
	return status == TaskStatusDone || status == TaskStatusCancelled
}

// PriorityRank orders priorities for listing, highest first
func PriorityRank(p string) int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// Task is a unit of workshop work. A replacement task carries the part
// lines that will be written off from stock when the task is done.
type Task struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Title         string     `json:"title" gorm:"not null"`
	Description   string     `json:"description"`
	Priority      string     `json:"priority" gorm:"not null;default:medium"`
	DueDate       *time.Time `json:"due_date"`
	Assignee      string     `json:"assignee"`
	EquipmentID   *uint      `json:"equipment_id" gorm:"index"`
	Status        string     `json:"status" gorm:"not null;default:open;index"`
	IsReplacement bool       `json:"is_replacement" gorm:"not null;default:false"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Parts         []TaskPart `json:"parts" gorm:"foreignKey:TaskID"`
}

// TableName specifies the table name
func (Task) TableName() string {
	return "tasks"
}

// TaskPart is one part line of a replacement task, bound to the
// equipment link it will be written off against
type TaskPart struct {
	ID              uint `json:"id" gorm:"primaryKey"`
	TaskID          uint `json:"task_id" gorm:"not null;index"`
	EquipmentPartID uint `json:"equipment_part_id" gorm:"not null;index"`
	PartID          uint `json:"part_id" gorm:"not null"`
	Qty             int  `json:"qty" gorm:"not null;default:1"`
}

// TableName specifies the table name
func (TaskPart) TableName() string {
	return "task_parts"
}

// PeriodicTask is a recurring maintenance job on a piece of equipment
// or one of its part links
type PeriodicTask struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	Title           string     `json:"title" gorm:"not null"`
	EquipmentID     *uint      `json:"equipment_id" gorm:"index"`
	EquipmentPartID *uint      `json:"equipment_part_id" gorm:"index"`
	PeriodDays      int        `json:"period_days" gorm:"not null"`
	LastCompletedAt *time.Time `json:"last_completed_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// TableName specifies the table name
func (PeriodicTask) TableName() string {
	return "periodic_tasks"
}

// NextDue computes when the job is due next. A job never completed is
// anchored on today.
func (p PeriodicTask) NextDue(today time.Time) time.Time {
	if p.PeriodDays <= 0 {
		return today
	}
	anchor := today
	if p.LastCompletedAt != nil {
		anchor = *p.LastCompletedAt
	}
	return anchor.AddDate(0, 0, p.PeriodDays)
}

// TaskRepository defines the contract for task data access
type TaskRepository interface {
	WithTx(tx *gorm.DB) TaskRepository
	Create(task *Task) error
	Update(task *Task) error
	FindByID(id uint) (*Task, error)
	Delete(id uint) error
	ReplaceParts(taskID uint, parts []TaskPart) error
	EquipmentPartIDs(taskID uint) ([]uint, error)
	SetStatus(taskID uint, status string) error
	RefreshReplacementFlags(linkIDs []uint) error
}

// PeriodicTaskRepository defines the contract for periodic task data
// access
type PeriodicTaskRepository interface {
	WithTx(tx *gorm.DB) PeriodicTaskRepository
	Create(task *PeriodicTask) error
	Update(task *PeriodicTask) error
	FindByID(id uint) (*PeriodicTask, error)
	Delete(ids []uint) error
	SetLastCompleted(id uint, completedAt time.Time) error
}
