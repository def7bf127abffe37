package command

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/stockware/stockroom/internal/engine"
	"github.com/stockware/stockroom/internal/knife/domain"
	"github.com/stockware/stockroom/pkg/logger"
)

// DeleteSharpenEntryCommand removes one sharpen log row
type DeleteSharpenEntryCommand struct {
	EntryID uint
}

// DeleteSharpenEntryHandler handles delete sharpen entry commands
type DeleteSharpenEntryHandler struct {
	db       *gorm.DB
	tracking domain.TrackingRepository
}

// NewDeleteSharpenEntryHandler creates a new delete sharpen entry handler
func NewDeleteSharpenEntryHandler(db *gorm.DB, tracking domain.TrackingRepository) *DeleteSharpenEntryHandler {
	return &DeleteSharpenEntryHandler{db: db, tracking: tracking}
}

// Handle executes the delete sharpen entry command. The sharpening
// count and last-sharpened timestamp are recomputed from the rows that
// remain, so the aggregates always agree with the log.
func (h *DeleteSharpenEntryHandler) Handle(ctx context.Context, cmd DeleteSharpenEntryCommand) (engine.Result, error) {
	if cmd.EntryID == 0 {
		return engine.Fail("entry_id is required"), nil
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tracking := h.tracking.WithTx(tx)

		entry, err := tracking.FindSharpenLog(cmd.EntryID)
		if err != nil {
			return fmt.Errorf("failed to load sharpen log entry: %w", err)
		}
		if err := tracking.DeleteSharpenLog(cmd.EntryID); err != nil {
			return fmt.Errorf("failed to delete sharpen log entry: %w", err)
		}

		tr, err := tracking.FindByPart(entry.PartID)
		if err != nil {
			return fmt.Errorf("failed to load knife tracking: %w", err)
		}
		count, latest, err := tracking.SharpenStats(entry.PartID)
		if err != nil {
			return fmt.Errorf("failed to recompute sharpen stats: %w", err)
		}
		tr.TotalSharpenings = count
		tr.LastSharpenedAt = latest
		if err := tracking.Update(tr); err != nil {
			return fmt.Errorf("failed to update knife tracking: %w", err)
		}
		return nil
	})
	if err != nil {
		return engine.Result{}, err
	}

	logger.Info(ctx).
		Uint("entry_id", cmd.EntryID).
		Msg("Sharpen log entry deleted")

	return engine.OK("sharpen log entry deleted", engine.AggregateKnives), nil
}

// DeleteStatusEntryCommand removes one status log row
type DeleteStatusEntryCommand struct {
	EntryID uint
}

// DeleteStatusEntryHandler handles delete status entry commands
type DeleteStatusEntryHandler struct {
	db       *gorm.DB
	tracking domain.TrackingRepository
}

// NewDeleteStatusEntryHandler creates a new delete status entry handler
func NewDeleteStatusEntryHandler(db *gorm.DB, tracking domain.TrackingRepository) *DeleteStatusEntryHandler {
	return &DeleteStatusEntryHandler{db: db, tracking: tracking}
}

// Handle executes the delete status entry command. The knife state is
// rebuilt from the newest surviving status log row. With no rows left
// the knife returns to the default sharp and removed state.
func (h *DeleteStatusEntryHandler) Handle(ctx context.Context, cmd DeleteStatusEntryCommand) (engine.Result, error) {
	if cmd.EntryID == 0 {
		return engine.Fail("entry_id is required"), nil
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tracking := h.tracking.WithTx(tx)

		entry, err := tracking.FindStatusLog(cmd.EntryID)
		if err != nil {
			return fmt.Errorf("failed to load status log entry: %w", err)
		}
		if err := tracking.DeleteStatusLog(cmd.EntryID); err != nil {
			return fmt.Errorf("failed to delete status log entry: %w", err)
		}

		tr, err := tracking.FindByPart(entry.PartID)
		if err != nil {
			return fmt.Errorf("failed to load knife tracking: %w", err)
		}

		latest, err := tracking.LatestStatusLog(entry.PartID)
		if err != nil {
			return fmt.Errorf("failed to load latest status log: %w", err)
		}
		if latest != nil {
			tr.Status = latest.NewStatus
			tr.SharpState = latest.SharpState
			tr.InstallationState = latest.InstallationState
			if latest.NewStatus == domain.StatusInUse {
				t := latest.ChangedAt
				tr.WorkStartedAt = &t
			} else {
				tr.WorkStartedAt = nil
			}
		} else {
			tr.Status = domain.StatusSharpened
			tr.SharpState = domain.SharpStateSharp
			tr.InstallationState = domain.InstallationRemoved
			tr.WorkStartedAt = nil
		}
		if err := tracking.Update(tr); err != nil {
			return fmt.Errorf("failed to update knife tracking: %w", err)
		}
		return nil
	})
	if err != nil {
		return engine.Result{}, err
	}

	logger.Info(ctx).
		Uint("entry_id", cmd.EntryID).
		Msg("Status log entry deleted")

	return engine.OK("status log entry deleted", engine.AggregateKnives), nil
}
