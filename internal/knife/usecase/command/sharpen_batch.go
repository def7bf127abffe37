package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	"github.com/stockware/stockroom/internal/engine"
	"github.com/stockware/stockroom/internal/knife/domain"
	"github.com/stockware/stockroom/pkg/logger"
)

var errUnknownKnife = errors.New("unknown knife part")

// SharpenBatchCommand records one sharpening for each listed knife
type SharpenBatchCommand struct {
	PartIDs []uint
	Comment string
	At      time.Time
}

// SharpenBatchHandler handles sharpen batch commands
type SharpenBatchHandler struct {
	db       *gorm.DB
	parts    catalogdomain.PartRepository
	tracking domain.TrackingRepository
}

// NewSharpenBatchHandler creates a new sharpen batch handler
func NewSharpenBatchHandler(db *gorm.DB, parts catalogdomain.PartRepository, tracking domain.TrackingRepository) *SharpenBatchHandler {
	return &SharpenBatchHandler{db: db, parts: parts, tracking: tracking}
}

// Handle executes the sharpen batch command. The batch is atomic: if
// any knife cannot be recorded, none are. Sharpening pulls a knife out
// of service: every knife ends up sharpened (sharp, removed), with a
// status log row unless it was sharpened already. A knife leaving
// in_use has its work interval closed.
func (h *SharpenBatchHandler) Handle(ctx context.Context, cmd SharpenBatchCommand) (engine.Result, error) {
	if len(cmd.PartIDs) == 0 {
		return engine.Fail("at least one part_id is required"), nil
	}
	if cmd.At.IsZero() {
		cmd.At = time.Now()
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		parts := h.parts.WithTx(tx)
		tracking := h.tracking.WithTx(tx)

		for _, partID := range cmd.PartIDs {
			if _, err := parts.FindByID(partID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("part %d: %w", partID, errUnknownKnife)
				}
				return fmt.Errorf("failed to load part %d: %w", partID, err)
			}

			tr, err := tracking.EnsureTracking(partID)
			if err != nil {
				return fmt.Errorf("failed to load knife tracking for part %d: %w", partID, err)
			}

			recordSharpening(tr, cmd.At)

			entry := &domain.SharpenLog{
				PartID:      partID,
				SharpenedAt: cmd.At,
				Comment:     cmd.Comment,
			}
			if err := tracking.AppendSharpenLog(entry); err != nil {
				return fmt.Errorf("failed to append sharpen log for part %d: %w", partID, err)
			}

			if tr.Status != domain.StatusSharpened {
				oldStatus, newStatus := applyTransition(tr, domain.SharpStateSharp, domain.InstallationRemoved, cmd.At)
				log := &domain.StatusLog{
					PartID:            partID,
					OldStatus:         oldStatus,
					NewStatus:         newStatus,
					SharpState:        tr.SharpState,
					InstallationState: tr.InstallationState,
					Comment:           cmd.Comment,
					ChangedAt:         cmd.At,
				}
				if err := tracking.AppendStatusLog(log); err != nil {
					return fmt.Errorf("failed to append status log for part %d: %w", partID, err)
				}
			}

			if err := tracking.Update(tr); err != nil {
				return fmt.Errorf("failed to update knife tracking for part %d: %w", partID, err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errUnknownKnife) {
			return engine.Fail(err.Error()), nil
		}
		return engine.Result{}, err
	}

	logger.Info(ctx).
		Int("count", len(cmd.PartIDs)).
		Msg("Sharpening batch recorded")

	return engine.OK(fmt.Sprintf("%d knives sharpened", len(cmd.PartIDs)), engine.AggregateKnives), nil
}
