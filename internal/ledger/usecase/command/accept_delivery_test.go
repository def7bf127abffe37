package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	catalogrepo "github.com/stockware/stockroom/internal/catalog/repository"
	orderdomain "github.com/stockware/stockroom/internal/order/domain"
	orderrepo "github.com/stockware/stockroom/internal/order/repository"
	"github.com/stockware/stockroom/internal/testdb"
)

func seedOrder(t *testing.T, db *gorm.DB, status string, items []orderdomain.OrderItem) *orderdomain.Order {
	t.Helper()
	counterparty := &catalogdomain.Counterparty{Name: "Supplier " + status}
	require.NoError(t, db.Create(counterparty).Error)
	order := &orderdomain.Order{CounterpartyID: counterparty.ID, Status: status}
	require.NoError(t, db.Create(order).Error)
	for i := range items {
		items[i].OrderID = order.ID
		require.NoError(t, db.Create(&items[i]).Error)
	}
	return order
}

func TestAcceptDelivery(t *testing.T) {
	db := testdb.New(t)
	parts := catalogrepo.NewGormPartRepository(db)
	orders := orderrepo.NewGormOrderRepository(db)
	handler := NewAcceptDeliveryHandler(db, parts, orders)

	bound := seedPart(t, db, "Filter", "FL-1", 2)
	matchable := seedPart(t, db, "Seal Ring", "SR-9", 0)

	order := seedOrder(t, db, orderdomain.StatusInTransit, []orderdomain.OrderItem{
		{PartID: &bound.ID, Name: "Filter", SKU: "FL-1", Qty: 3, Price: 7},
		{Name: "seal ring", SKU: "sr-9", Qty: 5, Price: 2},
		{Name: "Brand New Valve", SKU: "VL-3", Qty: 4, Price: 12},
	})

	result, err := handler.Handle(context.Background(), AcceptDeliveryCommand{OrderID: order.ID})
	require.NoError(t, err)
	require.True(t, result.Success)

	// Bound line incremented directly
	p, err := parts.FindByID(bound.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Qty)

	// Unbound line matched by name+sku, ignoring case
	p, err = parts.FindByID(matchable.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Qty)

	// Unknown line created a part from the snapshot
	created, err := parts.FindByNameSKU("Brand New Valve", "VL-3")
	require.NoError(t, err)
	assert.Equal(t, 4, created.Qty)
	assert.Equal(t, 12.0, created.Price)

	// Items are now bound and the order is accepted
	accepted, err := orders.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, orderdomain.StatusAccepted, accepted.Status)
	require.NotNil(t, accepted.AcceptedAt)
	for _, item := range accepted.Items {
		assert.NotNil(t, item.PartID)
	}
}

func TestAcceptDeliveryTerminalOrder(t *testing.T) {
	db := testdb.New(t)
	parts := catalogrepo.NewGormPartRepository(db)
	orders := orderrepo.NewGormOrderRepository(db)
	handler := NewAcceptDeliveryHandler(db, parts, orders)

	part := seedPart(t, db, "Chain", "CH-1", 1)
	order := seedOrder(t, db, orderdomain.StatusAccepted, []orderdomain.OrderItem{
		{PartID: &part.ID, Name: "Chain", SKU: "CH-1", Qty: 10, Price: 1},
	})

	result, err := handler.Handle(context.Background(), AcceptDeliveryCommand{OrderID: order.ID})
	require.NoError(t, err)
	assert.False(t, result.Success)

	// A retried acceptance must not double the stock
	p, err := parts.FindByID(part.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Qty)
}
