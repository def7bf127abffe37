package domain

import (
	"time"

	"gorm.io/gorm"
)

// Order status lifecycle
const (
	StatusCreated   = "created"
	StatusInTransit = "in_transit"
	StatusAccepted  = "accepted"
	StatusCancelled = "cancelled"
)

// IsTerminal reports whether an order in this status can no longer
// change status
func IsTerminal(status string) bool {
	return status == StatusAccepted || status == StatusCancelled
}

// CanTransition reports whether the status change is allowed
func CanTransition(from, to string) bool {
	if IsTerminal(from) {
		return false
	}
	switch to {
	case StatusInTransit:
		return from == StatusCreated
	case StatusAccepted, StatusCancelled:
		return from == StatusCreated || from == StatusInTransit
	default:
		return false
	}
}

// Order represents a supplier order
type Order struct {
	ID             uint        `json:"id" gorm:"primaryKey"`
	CounterpartyID uint        `json:"counterparty_id" gorm:"not null;index"`
	Status         string      `json:"status" gorm:"not null;default:created;index"`
	Comment        string      `json:"comment"`
	DriverNotified bool        `json:"driver_notified" gorm:"not null;default:false"`
	AcceptedAt     *time.Time  `json:"accepted_at"`
	Items          []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a line of an order. Name, SKU and Price are snapshots
// taken when the line was added; PartID stays nil until the line is
// bound to a stock part at acceptance.
type OrderItem struct {
	ID      uint    `json:"id" gorm:"primaryKey"`
	OrderID uint    `json:"order_id" gorm:"not null;index"`
	PartID  *uint   `json:"part_id" gorm:"index"`
	Name    string  `json:"name" gorm:"not null"`
	SKU     string  `json:"sku"`
	Qty     int     `json:"qty" gorm:"not null"`
	Price   float64 `json:"price" gorm:"not null;default:0"`
}

// TableName specifies the table name
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderRepository defines the contract for order data access
type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	Create(order *Order) error
	Update(order *Order) error
	FindByID(id uint) (*Order, error)
	FindAll(limit, offset int, status string) ([]Order, int64, error)
	Delete(id uint) error

	ReplaceItems(orderID uint, items []OrderItem) error
	ItemsForOrder(orderID uint) ([]OrderItem, error)
	HasItemsForPart(partID uint) (bool, error)
	SetStatus(orderID uint, status string, acceptedAt *time.Time) error
	SetDriverNotified(orderID uint, notified bool) error
}
