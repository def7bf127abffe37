package domain

import (
	"time"

	"gorm.io/gorm"
)

// Part represents a spare part held in stock
type Part struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null;uniqueIndex:idx_parts_name_sku"`
	SKU        string    `json:"sku" gorm:"not null;uniqueIndex:idx_parts_name_sku"`
	Qty        int       `json:"qty" gorm:"not null;default:0;check:qty >= 0"`
	MinQty     int       `json:"min_qty" gorm:"not null;default:0"`
	Price      float64   `json:"price" gorm:"not null;default:0"`
	CategoryID *uint     `json:"category_id" gorm:"index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Part) TableName() string {
	return "parts"
}

// PartRepository defines the contract for part data access
type PartRepository interface {
	WithTx(tx *gorm.DB) PartRepository
	Create(part *Part) error
	Update(part *Part) error
	FindByID(id uint) (*Part, error)
	FindByNameSKU(name, sku string) (*Part, error)
	ExistsConflicting(name, sku string, excludeID uint) (bool, error)
	FindAll(limit, offset int, search string) ([]Part, int64, error)
	LowStock() ([]Part, error)
	HasForCategory(categoryID uint) (bool, error)
	AdjustQty(partID uint, delta int) error
	UpdatePrice(partID uint, price float64) error
	Delete(id uint) error
}
