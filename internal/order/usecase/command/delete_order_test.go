package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	catalogrepo "github.com/stockware/stockroom/internal/catalog/repository"
	"github.com/stockware/stockroom/internal/order/domain"
	orderrepo "github.com/stockware/stockroom/internal/order/repository"
	"github.com/stockware/stockroom/internal/testdb"
)

func TestDeleteOrder(t *testing.T) {
	db := testdb.New(t)
	orders := orderrepo.NewGormOrderRepository(db)
	handler := NewDeleteOrderHandler(orders)

	counterparty := seedCounterparty(t, db, "Gone Co")
	order := &domain.Order{CounterpartyID: counterparty.ID, Status: domain.StatusCreated}
	require.NoError(t, db.Create(order).Error)
	require.NoError(t, db.Create(&domain.OrderItem{
		OrderID: order.ID, Name: "Belt", SKU: "BE-1", Qty: 2, Price: 3,
	}).Error)

	result, err := handler.Handle(context.Background(), DeleteOrderCommand{OrderID: order.ID})
	require.NoError(t, err)
	assert.True(t, result.Success)

	_, err = orders.FindByID(order.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	// Lines go with the order
	var count int64
	require.NoError(t, db.Model(&domain.OrderItem{}).Where("order_id = ?", order.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteOrderAcceptedKeepsStock(t *testing.T) {
	db := testdb.New(t)
	orders := orderrepo.NewGormOrderRepository(db)
	parts := catalogrepo.NewGormPartRepository(db)
	handler := NewDeleteOrderHandler(orders)

	counterparty := seedCounterparty(t, db, "Kept Co")
	part := &catalogdomain.Part{Name: "Gasket", SKU: "GA-1", Qty: 7}
	require.NoError(t, db.Create(part).Error)

	order := &domain.Order{CounterpartyID: counterparty.ID, Status: domain.StatusAccepted}
	require.NoError(t, db.Create(order).Error)
	require.NoError(t, db.Create(&domain.OrderItem{
		OrderID: order.ID, PartID: &part.ID, Name: "Gasket", SKU: "GA-1", Qty: 7, Price: 2,
	}).Error)

	result, err := handler.Handle(context.Background(), DeleteOrderCommand{OrderID: order.ID})
	require.NoError(t, err)
	assert.True(t, result.Success)

	_, err = orders.FindByID(order.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	// The stock the order delivered stays put
	p, err := parts.FindByID(part.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, p.Qty)
}

func TestSetDriverNotified(t *testing.T) {
	db := testdb.New(t)
	orders := orderrepo.NewGormOrderRepository(db)
	handler := NewSetDriverNotifiedHandler(orders)

	counterparty := seedCounterparty(t, db, "Driver Co")
	order := &domain.Order{CounterpartyID: counterparty.ID, Status: domain.StatusCreated}
	require.NoError(t, db.Create(order).Error)

	result, err := handler.Handle(context.Background(), SetDriverNotifiedCommand{
		OrderID: order.ID, Notified: true,
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	loaded, err := orders.FindByID(order.ID)
	require.NoError(t, err)
	assert.True(t, loaded.DriverNotified)
}
