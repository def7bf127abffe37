package domain

import (
	"time"

	"gorm.io/gorm"
)

// Equipment represents a machine that consumes spare parts
type Equipment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	SKU        string    `json:"sku"`
	CategoryID uint      `json:"category_id" gorm:"not null;index"`
	ParentID   *uint     `json:"parent_id" gorm:"index"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Equipment) TableName() string {
	return "equipment"
}

// EquipmentCategory represents an equipment category
type EquipmentCategory struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;uniqueIndex"`
}

// TableName specifies the table name
func (EquipmentCategory) TableName() string {
	return "equipment_categories"
}

// EquipmentPart links a part to the equipment it is installed on
type EquipmentPart struct {
	ID                  uint   `json:"id" gorm:"primaryKey"`
	EquipmentID         uint   `json:"equipment_id" gorm:"not null;uniqueIndex:idx_equipment_parts_link"`
	PartID              uint   `json:"part_id" gorm:"not null;uniqueIndex:idx_equipment_parts_link"`
	InstalledQty        int    `json:"installed_qty" gorm:"not null;default:1"`
	Comment             string `json:"comment"`
	RequiresReplacement bool   `json:"requires_replacement" gorm:"not null;default:false"`
}

// TableName specifies the table name
func (EquipmentPart) TableName() string {
	return "equipment_parts"
}

// EquipmentRepository defines the contract for equipment data access
type EquipmentRepository interface {
	WithTx(tx *gorm.DB) EquipmentRepository
	Create(equipment *Equipment) error
	Update(equipment *Equipment) error
	FindByID(id uint) (*Equipment, error)
	FindAll() ([]Equipment, error)
	Delete(id uint) error

	AttachPart(link *EquipmentPart) error
	DetachPart(linkID uint) error
	FindLink(linkID uint) (*EquipmentPart, error)
	LinksForEquipment(equipmentID uint) ([]EquipmentPart, error)
	HasLinksForPart(partID uint) (bool, error)
	SetRequiresReplacement(linkID uint, requires bool) error
	ClearRequiresReplacement(equipmentID, partID uint) error
}
