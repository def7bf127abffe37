package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogrepo "github.com/stockware/stockroom/internal/catalog/repository"
	"github.com/stockware/stockroom/internal/ledger/domain"
	ledgerrepo "github.com/stockware/stockroom/internal/ledger/repository"
	"github.com/stockware/stockroom/internal/testdb"
)

func TestUpdateReplacementQty(t *testing.T) {
	db := testdb.New(t)
	parts := catalogrepo.NewGormPartRepository(db)
	replacements := ledgerrepo.NewGormReplacementRepository(db)
	handler := NewUpdateReplacementHandler(db, parts, replacements)

	part := seedPart(t, db, "Roller", "RL-1", 4)
	equipment := seedEquipment(t, db, "Conveyor")
	replacement := &domain.Replacement{
		PartID: part.ID, EquipmentID: equipment.ID, Qty: 2, ReplacedAt: time.Now(),
	}
	require.NoError(t, replacements.Create(replacement))

	// Raising the quantity takes the difference out of stock
	result, err := handler.Handle(context.Background(), UpdateReplacementCommand{
		ReplacementID: replacement.ID,
		Qty:           5,
		Comment:       "recount",
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	p, err := parts.FindByID(part.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Qty)

	// Lowering it puts the difference back
	result, err = handler.Handle(context.Background(), UpdateReplacementCommand{
		ReplacementID: replacement.ID,
		Qty:           1,
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	p, err = parts.FindByID(part.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Qty)

	updated, err := replacements.FindByID(replacement.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Qty)
}

func TestUpdateReplacementInsufficient(t *testing.T) {
	db := testdb.New(t)
	parts := catalogrepo.NewGormPartRepository(db)
	replacements := ledgerrepo.NewGormReplacementRepository(db)
	handler := NewUpdateReplacementHandler(db, parts, replacements)

	part := seedPart(t, db, "Spring", "SP-1", 1)
	equipment := seedEquipment(t, db, "Stamper")
	replacement := &domain.Replacement{
		PartID: part.ID, EquipmentID: equipment.ID, Qty: 1, ReplacedAt: time.Now(),
	}
	require.NoError(t, replacements.Create(replacement))

	result, err := handler.Handle(context.Background(), UpdateReplacementCommand{
		ReplacementID: replacement.ID,
		Qty:           10,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, domain.ErrInsufficientStock.Error(), result.Message)

	p, err := parts.FindByID(part.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Qty)
}

func TestDeleteReplacementRestoresStock(t *testing.T) {
	db := testdb.New(t)
	parts := catalogrepo.NewGormPartRepository(db)
	replacements := ledgerrepo.NewGormReplacementRepository(db)
	handler := NewDeleteReplacementHandler(db, parts, replacements)

	part := seedPart(t, db, "Nozzle", "NZ-1", 0)
	equipment := seedEquipment(t, db, "Washer")
	replacement := &domain.Replacement{
		PartID: part.ID, EquipmentID: equipment.ID, Qty: 3, ReplacedAt: time.Now(),
	}
	require.NoError(t, replacements.Create(replacement))

	result, err := handler.Handle(context.Background(), DeleteReplacementCommand{
		ReplacementID: replacement.ID,
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	p, err := parts.FindByID(part.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Qty)

	history, err := replacements.FindByPart(part.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}
