package query

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ListKnivesQuery lists tracked knives with their lifecycle state
type ListKnivesQuery struct {
	Status string
	Search string
}

// KnifeView is a tracking row joined with its part
type KnifeView struct {
	PartID            uint       `json:"part_id"`
	Name              string     `json:"name"`
	SKU               string     `json:"sku"`
	Qty               int        `json:"qty"`
	Status            string     `json:"status"`
	SharpState        string     `json:"sharp_state"`
	InstallationState string     `json:"installation_state"`
	TotalSharpenings  int        `json:"total_sharpenings"`
	LastSharpenedAt   *time.Time `json:"last_sharpened_at"`
	WorkStartedAt     *time.Time `json:"work_started_at"`
	LastIntervalDays  *int       `json:"last_interval_days"`
}

// ListKnivesHandler handles list knives queries
type ListKnivesHandler struct {
	db *gorm.DB
}

// NewListKnivesHandler creates a new list knives handler
func NewListKnivesHandler(db *gorm.DB) *ListKnivesHandler {
	return &ListKnivesHandler{db: db}
}

// Handle executes the list knives query
func (h *ListKnivesHandler) Handle(ctx context.Context, q ListKnivesQuery) ([]KnifeView, error) {
	query := h.db.WithContext(ctx).
		Table("knife_tracking").
		Joins("JOIN parts ON parts.id = knife_tracking.part_id").
		Select(`knife_tracking.part_id, parts.name, parts.sku, parts.qty,
			knife_tracking.status, knife_tracking.sharp_state,
			knife_tracking.installation_state, knife_tracking.total_sharpenings,
			knife_tracking.last_sharpened_at, knife_tracking.work_started_at,
			knife_tracking.last_interval_days`).
		Order("parts.name")

	if q.Status != "" {
		query = query.Where("knife_tracking.status = ?", q.Status)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.Where("parts.name LIKE ? OR parts.sku LIKE ?", pattern, pattern)
	}

	var views []KnifeView
	if err := query.Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}
