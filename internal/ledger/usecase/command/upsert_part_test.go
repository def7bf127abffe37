package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	catalogrepo "github.com/stockware/stockroom/internal/catalog/repository"
	"github.com/stockware/stockroom/internal/engine"
	"github.com/stockware/stockroom/internal/ledger/domain"
	kniferepo "github.com/stockware/stockroom/internal/knife/repository"
	"github.com/stockware/stockroom/internal/testdb"
)

func TestSavePartCreateAndUpdate(t *testing.T) {
	db := testdb.New(t)
	parts := catalogrepo.NewGormPartRepository(db)
	handler := NewSavePartHandler(db, parts,
		catalogrepo.NewGormCategoryRepository(db),
		kniferepo.NewGormTrackingRepository(db),
	)

	result, err := handler.Handle(context.Background(), SavePartCommand{
		Name:   "  Bearing 6204  ",
		SKU:    "BRG-6204",
		Qty:    10,
		MinQty: 2,
		Price:  4.5,
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, []engine.Aggregate{engine.AggregateParts}, result.Changed)

	created, err := parts.FindByNameSKU("bearing 6204", "brg-6204")
	require.NoError(t, err)
	assert.Equal(t, "Bearing 6204", created.Name)
	assert.Equal(t, 10, created.Qty)

	result, err = handler.Handle(context.Background(), SavePartCommand{
		ID:     created.ID,
		Name:   "Bearing 6204",
		SKU:    "BRG-6204",
		Qty:    12,
		MinQty: 3,
		Price:  5,
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	updated, err := parts.FindByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, updated.Qty)
	assert.Equal(t, 3, updated.MinQty)
	assert.Equal(t, 5.0, updated.Price)
}

func TestSavePartDuplicateIgnoresCase(t *testing.T) {
	db := testdb.New(t)
	handler := NewSavePartHandler(db,
		catalogrepo.NewGormPartRepository(db),
		catalogrepo.NewGormCategoryRepository(db),
		kniferepo.NewGormTrackingRepository(db),
	)

	result, err := handler.Handle(context.Background(), SavePartCommand{Name: "Gasket", SKU: "GSK-1"})
	require.NoError(t, err)
	require.True(t, result.Success)

	result, err = handler.Handle(context.Background(), SavePartCommand{Name: "GASKET", SKU: "gsk-1"})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, domain.ErrDuplicateKey.Error(), result.Message)
}

func TestSavePartIntoKnifeCategory(t *testing.T) {
	db := testdb.New(t)
	tracking := kniferepo.NewGormTrackingRepository(db)
	parts := catalogrepo.NewGormPartRepository(db)
	handler := NewSavePartHandler(db, parts,
		catalogrepo.NewGormCategoryRepository(db), tracking)

	category := &catalogdomain.Category{Name: catalogdomain.CategoryKnives}
	require.NoError(t, db.Create(category).Error)

	result, err := handler.Handle(context.Background(), SavePartCommand{
		Name:       "Cutter blade",
		SKU:        "CB-1",
		CategoryID: &category.ID,
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.ElementsMatch(t, []engine.Aggregate{
		engine.AggregateParts, engine.AggregateKnives,
	}, result.Changed)

	part, err := parts.FindByNameSKU("Cutter blade", "CB-1")
	require.NoError(t, err)

	tr, err := tracking.FindByPart(part.ID)
	require.NoError(t, err)
	assert.Equal(t, "sharpened", tr.Status)

	// Re-saving must not reset the tracking state
	tr.TotalSharpenings = 4
	require.NoError(t, tracking.Update(tr))

	_, err = handler.Handle(context.Background(), SavePartCommand{
		ID:         part.ID,
		Name:       "Cutter blade",
		SKU:        "CB-1",
		CategoryID: &category.ID,
	})
	require.NoError(t, err)

	tr, err = tracking.FindByPart(part.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, tr.TotalSharpenings)
}

func TestSavePartValidation(t *testing.T) {
	db := testdb.New(t)
	handler := NewSavePartHandler(db,
		catalogrepo.NewGormPartRepository(db),
		catalogrepo.NewGormCategoryRepository(db),
		kniferepo.NewGormTrackingRepository(db),
	)

	tests := []struct {
		name string
		cmd  SavePartCommand
	}{
		{"empty name", SavePartCommand{SKU: "X"}},
		{"negative qty", SavePartCommand{Name: "A", Qty: -1}},
		{"negative min qty", SavePartCommand{Name: "A", MinQty: -1}},
		{"negative price", SavePartCommand{Name: "A", Price: -0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handler.Handle(context.Background(), tt.cmd)
			require.NoError(t, err)
			assert.False(t, result.Success)
		})
	}
}
