package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	catalogrepo "github.com/stockware/stockroom/internal/catalog/repository"
	"github.com/stockware/stockroom/internal/testdb"
)

func TestLowStock(t *testing.T) {
	db := testdb.New(t)
	parts := catalogrepo.NewGormPartRepository(db)
	handler := NewLowStockHandler(parts)

	for _, p := range []catalogdomain.Part{
		{Name: "At minimum", SKU: "A", Qty: 2, MinQty: 2},
		{Name: "Below minimum", SKU: "B", Qty: 0, MinQty: 1},
		{Name: "Healthy", SKU: "C", Qty: 10, MinQty: 2},
		{Name: "No minimum", SKU: "D", Qty: 0, MinQty: 0},
	} {
		part := p
		require.NoError(t, db.Create(&part).Error)
	}

	low, err := handler.Handle(context.Background(), LowStockQuery{})
	require.NoError(t, err)

	names := make([]string, 0, len(low))
	for _, p := range low {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"At minimum", "Below minimum", "No minimum"}, names)
}
