package command

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/stockware/stockroom/internal/engine"
	"github.com/stockware/stockroom/internal/knife/domain"
	"github.com/stockware/stockroom/pkg/logger"
)

// applyTransition moves a tracking row onto new axes at a given time.
// Entering in_use stamps the work start; leaving it closes the work
// interval in whole days.
func applyTransition(tracking *domain.Tracking, sharpState, installationState string, at time.Time) (oldStatus, newStatus string) {
	oldStatus = tracking.Status
	newStatus = domain.CombinedStatus(sharpState, installationState)

	if oldStatus != domain.StatusInUse && newStatus == domain.StatusInUse {
		t := at
		tracking.WorkStartedAt = &t
	}
	if oldStatus == domain.StatusInUse && newStatus != domain.StatusInUse {
		if tracking.WorkStartedAt != nil {
			days := int(at.Sub(*tracking.WorkStartedAt).Hours() / 24)
			if days < 0 {
				days = 0
			}
			tracking.LastIntervalDays = &days
		}
		tracking.WorkStartedAt = nil
	}

	tracking.SharpState = sharpState
	tracking.InstallationState = installationState
	tracking.Status = newStatus
	return oldStatus, newStatus
}

// recordSharpening counts one sharpening on the tracking row
func recordSharpening(tracking *domain.Tracking, at time.Time) {
	t := at
	tracking.TotalSharpenings++
	tracking.LastSharpenedAt = &t
}

// SetStatusCommand sets the combined status of a knife directly
type SetStatusCommand struct {
	PartID  uint
	Status  string
	Comment string
	At      time.Time
}

// SetStatusHandler handles set status commands
type SetStatusHandler struct {
	db       *gorm.DB
	tracking domain.TrackingRepository
}

// NewSetStatusHandler creates a new set status handler
func NewSetStatusHandler(db *gorm.DB, tracking domain.TrackingRepository) *SetStatusHandler {
	return &SetStatusHandler{db: db, tracking: tracking}
}

// Handle executes the set status command. A transition whose sharp
// axis goes from dull to sharp counts as a sharpening and is written
// to the sharpen log as well.
func (h *SetStatusHandler) Handle(ctx context.Context, cmd SetStatusCommand) (engine.Result, error) {
	if cmd.PartID == 0 {
		return engine.Fail("part_id is required"), nil
	}
	if !domain.ValidStatus(cmd.Status) {
		return engine.Fail("unknown status: " + cmd.Status), nil
	}
	if cmd.At.IsZero() {
		cmd.At = time.Now()
	}

	var unchanged bool
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tracking := h.tracking.WithTx(tx)

		tr, err := tracking.EnsureTracking(cmd.PartID)
		if err != nil {
			return fmt.Errorf("failed to load knife tracking: %w", err)
		}
		if tr.Status == cmd.Status {
			unchanged = true
			return nil
		}

		wasDull := tr.SharpState == domain.SharpStateDull
		sharpState, installationState := domain.AxesForStatus(cmd.Status)
		oldStatus, newStatus := applyTransition(tr, sharpState, installationState, cmd.At)

		if wasDull && sharpState == domain.SharpStateSharp {
			recordSharpening(tr, cmd.At)
			entry := &domain.SharpenLog{
				PartID:      cmd.PartID,
				SharpenedAt: cmd.At,
				Comment:     cmd.Comment,
			}
			if err := tracking.AppendSharpenLog(entry); err != nil {
				return fmt.Errorf("failed to append sharpen log: %w", err)
			}
		}

		if err := tracking.Update(tr); err != nil {
			return fmt.Errorf("failed to update knife tracking: %w", err)
		}

		log := &domain.StatusLog{
			PartID:            cmd.PartID,
			OldStatus:         oldStatus,
			NewStatus:         newStatus,
			SharpState:        tr.SharpState,
			InstallationState: tr.InstallationState,
			Comment:           cmd.Comment,
			ChangedAt:         cmd.At,
		}
		if err := tracking.AppendStatusLog(log); err != nil {
			return fmt.Errorf("failed to append status log: %w", err)
		}
		return nil
	})
	if err != nil {
		return engine.Result{}, err
	}
	if unchanged {
		// Nothing happened, nothing to log or refresh
		return engine.OK("status unchanged"), nil
	}

	logger.Info(ctx).
		Uint("part_id", cmd.PartID).
		Str("status", cmd.Status).
		Msg("Knife status set")

	return engine.OK("status updated", engine.AggregateKnives), nil
}
