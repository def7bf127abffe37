package query

import (
	"context"
	"sort"
	"time"

	"github.com/stockware/stockroom/internal/knife/domain"
)

// SharpenHistoryQuery lists the sharpen log of one knife, newest first
type SharpenHistoryQuery struct {
	PartID uint
}

// SharpenHistoryHandler handles sharpen history queries
type SharpenHistoryHandler struct {
	tracking domain.TrackingRepository
}

// NewSharpenHistoryHandler creates a new sharpen history handler
func NewSharpenHistoryHandler(tracking domain.TrackingRepository) *SharpenHistoryHandler {
	return &SharpenHistoryHandler{tracking: tracking}
}

// Handle executes the sharpen history query
func (h *SharpenHistoryHandler) Handle(ctx context.Context, q SharpenHistoryQuery) ([]domain.SharpenLog, error) {
	return h.tracking.SharpenLogsForPart(q.PartID)
}

// Operation kinds in the merged history
const (
	OperationSharpening   = "sharpening"
	OperationStatusChange = "status_change"
)

// Operation is one entry of the merged per-knife history
type Operation struct {
	Kind      string    `json:"kind"`
	EntryID   uint      `json:"entry_id"`
	OldStatus string    `json:"old_status,omitempty"`
	NewStatus string    `json:"new_status,omitempty"`
	Comment   string    `json:"comment"`
	At        time.Time `json:"at"`
}

// OperationsHistoryQuery lists sharpenings and status changes of one
// knife merged into a single timeline, newest first
type OperationsHistoryQuery struct {
	PartID uint
}

// OperationsHistoryHandler handles operations history queries
type OperationsHistoryHandler struct {
	tracking domain.TrackingRepository
}

// NewOperationsHistoryHandler creates a new operations history handler
func NewOperationsHistoryHandler(tracking domain.TrackingRepository) *OperationsHistoryHandler {
	return &OperationsHistoryHandler{tracking: tracking}
}

// Handle executes the operations history query
func (h *OperationsHistoryHandler) Handle(ctx context.Context, q OperationsHistoryQuery) ([]Operation, error) {
	sharpenings, err := h.tracking.SharpenLogsForPart(q.PartID)
	if err != nil {
		return nil, err
	}
	changes, err := h.tracking.StatusLogsForPart(q.PartID)
	if err != nil {
		return nil, err
	}

	operations := make([]Operation, 0, len(sharpenings)+len(changes))
	for _, s := range sharpenings {
		operations = append(operations, Operation{
			Kind:    OperationSharpening,
			EntryID: s.ID,
			Comment: s.Comment,
			At:      s.SharpenedAt,
		})
	}
	for _, c := range changes {
		operations = append(operations, Operation{
			Kind:      OperationStatusChange,
			EntryID:   c.ID,
			OldStatus: c.OldStatus,
			NewStatus: c.NewStatus,
			Comment:   c.Comment,
			At:        c.ChangedAt,
		})
	}

	sort.SliceStable(operations, func(i, j int) bool {
		return operations[i].At.After(operations[j].At)
	})
	return operations, nil
}
