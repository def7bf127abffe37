package query

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ListReplacementsQuery lists replacement history, newest first
type ListReplacementsQuery struct {
	Limit  int
	Offset int
	PartID uint
}

// ReplacementView is a replacement row joined with the part and
// equipment it refers to
type ReplacementView struct {
	ID            uint      `json:"id"`
	PartID        uint      `json:"part_id"`
	PartName      string    `json:"part_name"`
	PartSKU       string    `json:"part_sku"`
	EquipmentID   uint      `json:"equipment_id"`
	EquipmentName string    `json:"equipment_name"`
	Qty           int       `json:"qty"`
	Comment       string    `json:"comment"`
	ReplacedAt    time.Time `json:"replaced_at"`
}

// ListReplacementsHandler handles list replacements queries
type ListReplacementsHandler struct {
	db *gorm.DB
}

// NewListReplacementsHandler creates a new list replacements handler
func NewListReplacementsHandler(db *gorm.DB) *ListReplacementsHandler {
	return &ListReplacementsHandler{db: db}
}

// Handle executes the list replacements query
func (h *ListReplacementsHandler) Handle(ctx context.Context, q ListReplacementsQuery) ([]ReplacementView, int64, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 50
	}

	base := h.db.WithContext(ctx).
		Table("replacements").
		Joins("JOIN parts ON parts.id = replacements.part_id").
		Joins("JOIN equipment ON equipment.id = replacements.equipment_id")
	if q.PartID != 0 {
		base = base.Where("replacements.part_id = ?", q.PartID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var views []ReplacementView
	err := base.
		Select(`replacements.id, replacements.part_id, parts.name AS part_name,
			parts.sku AS part_sku, replacements.equipment_id,
			equipment.name AS equipment_name, replacements.qty,
			replacements.comment, replacements.replaced_at`).
		Order("replacements.replaced_at DESC, replacements.id DESC").
		Limit(q.Limit).Offset(q.Offset).
		Scan(&views).Error
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}
