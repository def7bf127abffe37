package domain

import (
	"time"

	"gorm.io/gorm"
)

// Counterparty represents a supplier orders are placed with
type Counterparty struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null;uniqueIndex"`
	Address       string    `json:"address"`
	ContactPerson string    `json:"contact_person"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Note          string    `json:"note"`
	DriverNote    string    `json:"driver_note"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Counterparty) TableName() string {
	return "counterparties"
}

// CounterpartyRepository defines the contract for counterparty data access
type CounterpartyRepository interface {
	WithTx(tx *gorm.DB) CounterpartyRepository
	Create(counterparty *Counterparty) error
	Update(counterparty *Counterparty) error
	FindByID(id uint) (*Counterparty, error)
	FindAll() ([]Counterparty, error)
	Delete(id uint) error
}
