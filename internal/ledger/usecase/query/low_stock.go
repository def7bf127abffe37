package query

import (
	"context"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
)

// LowStockQuery lists parts at or below their minimum quantity
type LowStockQuery struct{}

// LowStockHandler handles low stock queries
type LowStockHandler struct {
	parts catalogdomain.PartRepository
}

// NewLowStockHandler creates a new low stock handler
func NewLowStockHandler(parts catalogdomain.PartRepository) *LowStockHandler {
	return &LowStockHandler{parts: parts}
}

// Handle executes the low stock query
func (h *LowStockHandler) Handle(ctx context.Context, _ LowStockQuery) ([]catalogdomain.Part, error) {
	return h.parts.LowStock()
}
