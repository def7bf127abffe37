package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	catalogrepo "github.com/stockware/stockroom/internal/catalog/repository"
	ledgercommand "github.com/stockware/stockroom/internal/ledger/usecase/command"
	"github.com/stockware/stockroom/internal/order/domain"
	orderrepo "github.com/stockware/stockroom/internal/order/repository"
	"github.com/stockware/stockroom/internal/testdb"
)

func newUpdateStatusHandler(db *gorm.DB) *UpdateOrderStatusHandler {
	orders := orderrepo.NewGormOrderRepository(db)
	parts := catalogrepo.NewGormPartRepository(db)
	return NewUpdateOrderStatusHandler(db, orders,
		ledgercommand.NewAcceptDeliveryHandler(db, parts, orders))
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	db := testdb.New(t)
	orders := orderrepo.NewGormOrderRepository(db)
	handler := newUpdateStatusHandler(db)

	counterparty := seedCounterparty(t, db, "Transit Co")
	order := &domain.Order{CounterpartyID: counterparty.ID, Status: domain.StatusCreated}
	require.NoError(t, db.Create(order).Error)

	result, err := handler.Handle(context.Background(), UpdateOrderStatusCommand{
		OrderID: order.ID, Status: domain.StatusInTransit,
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	loaded, err := orders.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInTransit, loaded.Status)

	// No way back
	result, err = handler.Handle(context.Background(), UpdateOrderStatusCommand{
		OrderID: order.ID, Status: domain.StatusCreated,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "cannot move order from in_transit to created", result.Message)

	result, err = handler.Handle(context.Background(), UpdateOrderStatusCommand{
		OrderID: order.ID, Status: domain.StatusCancelled,
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	// Terminal orders do not move again
	result, err = handler.Handle(context.Background(), UpdateOrderStatusCommand{
		OrderID: order.ID, Status: domain.StatusInTransit,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestUpdateOrderStatusAcceptedDelivers(t *testing.T) {
	db := testdb.New(t)
	parts := catalogrepo.NewGormPartRepository(db)
	orders := orderrepo.NewGormOrderRepository(db)
	handler := newUpdateStatusHandler(db)

	counterparty := seedCounterparty(t, db, "Delivery Co")
	part := &catalogdomain.Part{Name: "Washer", SKU: "WS-1", Qty: 2, Price: 1}
	require.NoError(t, db.Create(part).Error)

	order := &domain.Order{CounterpartyID: counterparty.ID, Status: domain.StatusInTransit}
	require.NoError(t, db.Create(order).Error)
	require.NoError(t, db.Create(&domain.OrderItem{
		OrderID: order.ID, PartID: &part.ID, Name: "Washer", SKU: "WS-1", Qty: 8, Price: 1,
	}).Error)

	result, err := handler.Handle(context.Background(), UpdateOrderStatusCommand{
		OrderID: order.ID, Status: domain.StatusAccepted,
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Contains(t, result.ChangedNames(), "parts")

	p, err := parts.FindByID(part.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Qty)

	loaded, err := orders.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, loaded.Status)
	assert.NotNil(t, loaded.AcceptedAt)
}
