package query

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/stockware/stockroom/internal/task/domain"
)

// ListPeriodicTasksQuery lists recurring jobs with their computed
// schedule. DueWithinDays keeps only jobs due sooner than that many
// days from now.
type ListPeriodicTasksQuery struct {
	DueWithinDays *int
}

// PeriodicTaskView is a recurring job joined with its target and
// annotated with the computed schedule
type PeriodicTaskView struct {
	ID              uint       `json:"id"`
	Title           string     `json:"title"`
	PeriodDays      int        `json:"period_days"`
	EquipmentID     *uint      `json:"equipment_id"`
	EquipmentName   string     `json:"equipment_name"`
	EquipmentPartID *uint      `json:"equipment_part_id"`
	PartName        string     `json:"part_name"`
	PartSKU         string     `json:"part_sku"`
	LastCompletedAt *time.Time `json:"last_completed_at"`
	NextDueAt       time.Time  `json:"next_due_at"`
	DaysUntilDue    int        `json:"days_until_due"`
}

// ListPeriodicTasksHandler handles list periodic tasks queries
type ListPeriodicTasksHandler struct {
	db *gorm.DB
}

// NewListPeriodicTasksHandler creates a new list periodic tasks handler
func NewListPeriodicTasksHandler(db *gorm.DB) *ListPeriodicTasksHandler {
	return &ListPeriodicTasksHandler{db: db}
}

// Handle executes the list periodic tasks query
func (h *ListPeriodicTasksHandler) Handle(ctx context.Context, q ListPeriodicTasksQuery) ([]PeriodicTaskView, error) {
	var rows []struct {
		ID              uint
		Title           string
		PeriodDays      int
		EquipmentID     *uint
		EquipmentName   string
		EquipmentPartID *uint
		PartName        string
		PartSKU         string
		LastCompletedAt *time.Time
	}
	err := h.db.WithContext(ctx).
		Table("periodic_tasks").
		Joins("LEFT JOIN equipment ON equipment.id = periodic_tasks.equipment_id").
		Joins("LEFT JOIN equipment_parts ON equipment_parts.id = periodic_tasks.equipment_part_id").
		Joins("LEFT JOIN parts ON parts.id = equipment_parts.part_id").
		Select(`periodic_tasks.id, periodic_tasks.title, periodic_tasks.period_days,
			periodic_tasks.equipment_id, COALESCE(equipment.name, '') AS equipment_name,
			periodic_tasks.equipment_part_id,
			COALESCE(parts.name, '') AS part_name, COALESCE(parts.sku, '') AS part_sku,
			periodic_tasks.last_completed_at`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	today := time.Now()
	views := make([]PeriodicTaskView, 0, len(rows))
	for _, r := range rows {
		job := domain.PeriodicTask{
			PeriodDays:      r.PeriodDays,
			LastCompletedAt: r.LastCompletedAt,
		}
		next := job.NextDue(today)
		days := int(next.Sub(today).Hours() / 24)
		if q.DueWithinDays != nil && days >= *q.DueWithinDays {
			continue
		}
		views = append(views, PeriodicTaskView{
			ID:              r.ID,
			Title:           r.Title,
			PeriodDays:      r.PeriodDays,
			EquipmentID:     r.EquipmentID,
			EquipmentName:   r.EquipmentName,
			EquipmentPartID: r.EquipmentPartID,
			PartName:        r.PartName,
			PartSKU:         r.PartSKU,
			LastCompletedAt: r.LastCompletedAt,
			NextDueAt:       next,
			DaysUntilDue:    days,
		})
	}

	sort.Slice(views, func(i, j int) bool {
		if !views[i].NextDueAt.Equal(views[j].NextDueAt) {
			return views[i].NextDueAt.Before(views[j].NextDueAt)
		}
		return strings.ToLower(views[i].Title) < strings.ToLower(views[j].Title)
	})
	return views, nil
}
