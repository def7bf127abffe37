package domain

import "gorm.io/gorm"

// Category names for which the knife lifecycle tracking applies. The
// knives category is created by the migration and cannot be deleted.
const (
	CategoryKnives = "knives"
	CategoryIrons  = "irons"
)

// SharpeningTracked reports whether parts of this category carry a
// knife tracking row
func SharpeningTracked(name string) bool {
	return name == CategoryKnives || name == CategoryIrons
}

// Category represents a part category
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;uniqueIndex"`
}

// TableName specifies the table name
func (Category) TableName() string {
	return "part_categories"
}

// CategoryRepository defines the contract for category data access
type CategoryRepository interface {
	WithTx(tx *gorm.DB) CategoryRepository
	Create(category *Category) error
	Rename(id uint, name string) error
	FindByID(id uint) (*Category, error)
	FindByName(name string) (*Category, error)
	FindAll() ([]Category, error)
	Delete(id uint) error
}
