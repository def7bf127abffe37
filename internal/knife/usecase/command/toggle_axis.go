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

// AxesState is the axis pair a toggle leaves the knife in, returned to
// the caller as result data
type AxesState struct {
	SharpState        string `json:"sharp_state"`
	InstallationState string `json:"installation_state"`
}

// ToggleSharpCommand flips the sharpness axis of a knife
type ToggleSharpCommand struct {
	PartID  uint
	Comment string
	At      time.Time
}

// ToggleSharpHandler handles toggle sharp commands
type ToggleSharpHandler struct {
	db       *gorm.DB
	tracking domain.TrackingRepository
}

// NewToggleSharpHandler creates a new toggle sharp handler
func NewToggleSharpHandler(db *gorm.DB, tracking domain.TrackingRepository) *ToggleSharpHandler {
	return &ToggleSharpHandler{db: db, tracking: tracking}
}

// Handle executes the toggle sharp command. Toggling to sharp is a
// sharpening and lands in the sharpen log; toggling to dull only
// changes state. The installation axis is untouched either way.
func (h *ToggleSharpHandler) Handle(ctx context.Context, cmd ToggleSharpCommand) (engine.Result, error) {
	if cmd.PartID == 0 {
		return engine.Fail("part_id is required"), nil
	}
	if cmd.At.IsZero() {
		cmd.At = time.Now()
	}

	var axes AxesState
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tracking := h.tracking.WithTx(tx)

		tr, err := tracking.EnsureTracking(cmd.PartID)
		if err != nil {
			return fmt.Errorf("failed to load knife tracking: %w", err)
		}

		next := domain.SharpStateDull
		if tr.SharpState == domain.SharpStateDull {
			next = domain.SharpStateSharp
		}

		oldStatus, newStatus := applyTransition(tr, next, tr.InstallationState, cmd.At)

		if next == domain.SharpStateSharp {
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

		axes = AxesState{SharpState: tr.SharpState, InstallationState: tr.InstallationState}
		return nil
	})
	if err != nil {
		return engine.Result{}, err
	}

	logger.Info(ctx).
		Uint("part_id", cmd.PartID).
		Msg("Knife sharpness toggled")

	return engine.OK("sharpness toggled", engine.AggregateKnives).WithData(axes), nil
}

// ToggleInstallationCommand flips the installation axis of a knife
type ToggleInstallationCommand struct {
	PartID  uint
	Comment string
	At      time.Time
}

// ToggleInstallationHandler handles toggle installation commands
type ToggleInstallationHandler struct {
	db       *gorm.DB
	tracking domain.TrackingRepository
}

// NewToggleInstallationHandler creates a new toggle installation handler
func NewToggleInstallationHandler(db *gorm.DB, tracking domain.TrackingRepository) *ToggleInstallationHandler {
	return &ToggleInstallationHandler{db: db, tracking: tracking}
}

// Handle executes the toggle installation command. The sharpness axis
// is untouched; the combined status and the work interval stamps
// follow from the new axes.
func (h *ToggleInstallationHandler) Handle(ctx context.Context, cmd ToggleInstallationCommand) (engine.Result, error) {
	if cmd.PartID == 0 {
		return engine.Fail("part_id is required"), nil
	}
	if cmd.At.IsZero() {
		cmd.At = time.Now()
	}

	var axes AxesState
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tracking := h.tracking.WithTx(tx)

		tr, err := tracking.EnsureTracking(cmd.PartID)
		if err != nil {
			return fmt.Errorf("failed to load knife tracking: %w", err)
		}

		next := domain.InstallationRemoved
		if tr.InstallationState == domain.InstallationRemoved {
			next = domain.InstallationInstalled
		}

		oldStatus, newStatus := applyTransition(tr, tr.SharpState, next, cmd.At)

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

		axes = AxesState{SharpState: tr.SharpState, InstallationState: tr.InstallationState}
		return nil
	})
	if err != nil {
		return engine.Result{}, err
	}

	logger.Info(ctx).
		Uint("part_id", cmd.PartID).
		Msg("Knife installation toggled")

	return engine.OK("installation toggled", engine.AggregateKnives).WithData(axes), nil
}
