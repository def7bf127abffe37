package domain

import (
	"time"

	"gorm.io/gorm"
)

// Replacement is an append-only record of a part being consumed from
// stock for a piece of equipment
type Replacement struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	PartID      uint      `json:"part_id" gorm:"not null;index"`
	EquipmentID uint      `json:"equipment_id" gorm:"not null;index"`
	Qty         int       `json:"qty" gorm:"not null"`
	Comment     string    `json:"comment"`
	ReplacedAt  time.Time `json:"replaced_at" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Replacement) TableName() string {
	return "replacements"
}

// ReplacementRepository defines the contract for replacement data access
type ReplacementRepository interface {
	WithTx(tx *gorm.DB) ReplacementRepository
	Create(replacement *Replacement) error
	Update(replacement *Replacement) error
	FindByID(id uint) (*Replacement, error)
	FindAll(limit, offset int) ([]Replacement, int64, error)
	FindByPart(partID uint) ([]Replacement, error)
	HasForPart(partID uint) (bool, error)
	Delete(id uint) error
}
