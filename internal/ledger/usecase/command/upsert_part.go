package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	"github.com/stockware/stockroom/internal/engine"
	knifedomain "github.com/stockware/stockroom/internal/knife/domain"
	"github.com/stockware/stockroom/internal/ledger/domain"
	"github.com/stockware/stockroom/pkg/logger"
)

// SavePartCommand creates a part when ID is zero and updates it
// otherwise
type SavePartCommand struct {
	ID         uint
	Name       string
	SKU        string
	Qty        int
	MinQty     int
	Price      float64
	CategoryID *uint
}

// SavePartHandler handles save part commands
type SavePartHandler struct {
	db         *gorm.DB
	parts      catalogdomain.PartRepository
	categories catalogdomain.CategoryRepository
	tracking   knifedomain.TrackingRepository
}

// NewSavePartHandler creates a new save part handler
func NewSavePartHandler(
	db *gorm.DB,
	parts catalogdomain.PartRepository,
	categories catalogdomain.CategoryRepository,
	tracking knifedomain.TrackingRepository,
) *SavePartHandler {
	return &SavePartHandler{
		db:         db,
		parts:      parts,
		categories: categories,
		tracking:   tracking,
	}
}

// Handle executes the save part command. Name+SKU uniqueness ignores
// case. A part saved into a sharpening-tracked category gets a knife
// tracking row if it does not have one already; an existing row is
// never reset.
func (h *SavePartHandler) Handle(ctx context.Context, cmd SavePartCommand) (engine.Result, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.SKU = strings.TrimSpace(cmd.SKU)
	if cmd.Name == "" {
		return engine.Fail("name is required"), nil
	}
	if cmd.Qty < 0 || cmd.MinQty < 0 {
		return engine.Fail("quantities cannot be negative"), nil
	}
	if cmd.Price < 0 {
		return engine.Fail("price cannot be negative"), nil
	}

	trackingEnsured := false
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		parts := h.parts.WithTx(tx)
		categories := h.categories.WithTx(tx)
		tracking := h.tracking.WithTx(tx)

		conflict, err := parts.ExistsConflicting(cmd.Name, cmd.SKU, cmd.ID)
		if err != nil {
			return fmt.Errorf("failed to check uniqueness: %w", err)
		}
		if conflict {
			return domain.ErrDuplicateKey
		}

		var part *catalogdomain.Part
		if cmd.ID == 0 {
			part = &catalogdomain.Part{
				Name:       cmd.Name,
				SKU:        cmd.SKU,
				Qty:        cmd.Qty,
				MinQty:     cmd.MinQty,
				Price:      cmd.Price,
				CategoryID: cmd.CategoryID,
			}
			if err := parts.Create(part); err != nil {
				return fmt.Errorf("failed to create part: %w", err)
			}
		} else {
			part, err = parts.FindByID(cmd.ID)
			if err != nil {
				return fmt.Errorf("failed to load part: %w", err)
			}
			part.Name = cmd.Name
			part.SKU = cmd.SKU
			part.Qty = cmd.Qty
			part.MinQty = cmd.MinQty
			part.Price = cmd.Price
			part.CategoryID = cmd.CategoryID
			if err := parts.Update(part); err != nil {
				return fmt.Errorf("failed to update part: %w", err)
			}
		}

		if cmd.CategoryID != nil {
			category, err := categories.FindByID(*cmd.CategoryID)
			if err != nil {
				return fmt.Errorf("failed to load category: %w", err)
			}
			if catalogdomain.SharpeningTracked(category.Name) {
				if _, err := tracking.EnsureTracking(part.ID); err != nil {
					return fmt.Errorf("failed to ensure knife tracking: %w", err)
				}
				trackingEnsured = true
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return engine.Fail(domain.ErrDuplicateKey.Error()), nil
		}
		return engine.Result{}, err
	}

	logger.Info(ctx).
		Str("name", cmd.Name).
		Str("sku", cmd.SKU).
		Bool("tracked", trackingEnsured).
		Msg("Part saved")

	changed := []engine.Aggregate{engine.AggregateParts}
	if trackingEnsured {
		changed = append(changed, engine.AggregateKnives)
	}
	return engine.OK("part saved", changed...), nil
}
