package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	catalogrepo "github.com/stockware/stockroom/internal/catalog/repository"
	"github.com/stockware/stockroom/internal/engine"
	"github.com/stockware/stockroom/internal/order/domain"
	orderrepo "github.com/stockware/stockroom/internal/order/repository"
	"github.com/stockware/stockroom/internal/testdb"
)

func newSaveOrderHandler(db *gorm.DB) *SaveOrderHandler {
	return NewSaveOrderHandler(db,
		orderrepo.NewGormOrderRepository(db),
		catalogrepo.NewGormPartRepository(db),
		catalogrepo.NewGormCounterpartyRepository(db),
	)
}

func seedCounterparty(t *testing.T, db *gorm.DB, name string) *catalogdomain.Counterparty {
	t.Helper()
	counterparty := &catalogdomain.Counterparty{Name: name}
	require.NoError(t, db.Create(counterparty).Error)
	return counterparty
}

func TestSaveOrderCreate(t *testing.T) {
	db := testdb.New(t)
	orders := orderrepo.NewGormOrderRepository(db)
	handler := newSaveOrderHandler(db)

	counterparty := seedCounterparty(t, db, "Metal Works")

	result, err := handler.Handle(context.Background(), SaveOrderCommand{
		CounterpartyID: counterparty.ID,
		Comment:        "urgent",
		Lines: []OrderLine{
			{Name: " Blade 20mm ", SKU: "BL-20", Qty: 5, Price: 30},
			{Name: "Hinge", SKU: "HG-1", Qty: 2, Price: 8},
		},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, []engine.Aggregate{engine.AggregateOrders}, result.Changed)

	all, total, err := orders.FindAll(50, 0, "")
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, all, 1)
	assert.Equal(t, domain.StatusCreated, all[0].Status)
	assert.Equal(t, "urgent", all[0].Comment)
	require.Len(t, all[0].Items, 2)
	assert.Equal(t, "Blade 20mm", all[0].Items[0].Name)
}

func TestSaveOrderPricePropagation(t *testing.T) {
	db := testdb.New(t)
	parts := catalogrepo.NewGormPartRepository(db)
	handler := newSaveOrderHandler(db)

	counterparty := seedCounterparty(t, db, "Sharp Supplies")
	part := &catalogdomain.Part{Name: "Blade 30mm", SKU: "BL-30", Qty: 1, Price: 20}
	require.NoError(t, db.Create(part).Error)

	result, err := handler.Handle(context.Background(), SaveOrderCommand{
		CounterpartyID: counterparty.ID,
		Lines: []OrderLine{
			{PartID: &part.ID, Name: "Blade 30mm", SKU: "BL-30", Qty: 3, Price: 25},
		},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.ElementsMatch(t, []engine.Aggregate{
		engine.AggregateOrders, engine.AggregateParts,
	}, result.Changed)

	updated, err := parts.FindByID(part.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, updated.Price)
}

func TestSaveOrderTerminalIsFrozen(t *testing.T) {
	db := testdb.New(t)
	handler := newSaveOrderHandler(db)

	counterparty := seedCounterparty(t, db, "Frozen Goods")
	order := &domain.Order{CounterpartyID: counterparty.ID, Status: domain.StatusAccepted}
	require.NoError(t, db.Create(order).Error)

	result, err := handler.Handle(context.Background(), SaveOrderCommand{
		ID:             order.ID,
		CounterpartyID: counterparty.ID,
		Lines:          []OrderLine{{Name: "Anything", Qty: 1}},
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "accepted or cancelled orders cannot be edited", result.Message)
}

func TestSaveOrderValidation(t *testing.T) {
	db := testdb.New(t)
	handler := newSaveOrderHandler(db)

	tests := []struct {
		name string
		cmd  SaveOrderCommand
	}{
		{"missing counterparty", SaveOrderCommand{Lines: []OrderLine{{Name: "A", Qty: 1}}}},
		{"no lines", SaveOrderCommand{CounterpartyID: 1}},
		{"blank line name", SaveOrderCommand{CounterpartyID: 1, Lines: []OrderLine{{Name: "  ", Qty: 1}}}},
		{"zero qty", SaveOrderCommand{CounterpartyID: 1, Lines: []OrderLine{{Name: "A", Qty: 0}}}},
		{"negative price", SaveOrderCommand{CounterpartyID: 1, Lines: []OrderLine{{Name: "A", Qty: 1, Price: -1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handler.Handle(context.Background(), tt.cmd)
			require.NoError(t, err)
			assert.False(t, result.Success)
		})
	}
}
