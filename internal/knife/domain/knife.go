package domain

import (
	"time"

	"gorm.io/gorm"
)

// Combined knife status
const (
	StatusInUse     = "in_use"
	StatusSharpened = "sharpened"
	StatusDull      = "dull"
)

// Sharpness axis
const (
	SharpStateSharp = "sharp"
	SharpStateDull  = "dull"
)

// Installation axis
const (
	InstallationInstalled = "installed"
	InstallationRemoved   = "removed"
)

// ValidStatus reports whether s is a known combined status
func ValidStatus(s string) bool {
	return s == StatusInUse || s == StatusSharpened || s == StatusDull
}

// CombinedStatus derives the combined status from the two axes. A dull
// edge dominates regardless of installation.
func CombinedStatus(sharpState, installationState string) string {
	if sharpState == SharpStateDull {
		return StatusDull
	}
	if installationState == InstallationInstalled {
		return StatusInUse
	}
	return StatusSharpened
}

// AxesForStatus maps a combined status back onto the two axes
func AxesForStatus(status string) (sharpState, installationState string) {
	switch status {
	case StatusInUse:
		return SharpStateSharp, InstallationInstalled
	case StatusDull:
		return SharpStateDull, InstallationRemoved
	default:
		return SharpStateSharp, InstallationRemoved
	}
}

// Tracking carries the lifecycle state of a knife part
type Tracking struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	PartID            uint       `json:"part_id" gorm:"not null;uniqueIndex"`
	Status            string     `json:"status" gorm:"not null;default:sharpened"`
	SharpState        string     `json:"sharp_state" gorm:"not null;default:sharp"`
	InstallationState string     `json:"installation_state" gorm:"not null;default:removed"`
	TotalSharpenings  int        `json:"total_sharpenings" gorm:"not null;default:0"`
	LastSharpenedAt   *time.Time `json:"last_sharpened_at"`
	WorkStartedAt     *time.Time `json:"work_started_at"`
	LastIntervalDays  *int       `json:"last_interval_days"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TableName specifies the table name
func (Tracking) TableName() string {
	return "knife_tracking"
}

// StatusLog records one status change. Each row snapshots both axes so
// the current state can be rebuilt after a row is removed.
type StatusLog struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	PartID            uint      `json:"part_id" gorm:"not null;index"`
	OldStatus         string    `json:"old_status" gorm:"not null"`
	NewStatus         string    `json:"new_status" gorm:"not null"`
	SharpState        string    `json:"sharp_state" gorm:"not null"`
	InstallationState string    `json:"installation_state" gorm:"not null"`
	Comment           string    `json:"comment"`
	ChangedAt         time.Time `json:"changed_at" gorm:"not null;index"`
}

// TableName specifies the table name
func (StatusLog) TableName() string {
	return "knife_status_log"
}

// SharpenLog records one sharpening of one knife
type SharpenLog struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	PartID      uint      `json:"part_id" gorm:"not null;index"`
	SharpenedAt time.Time `json:"sharpened_at" gorm:"not null;index"`
	Comment     string    `json:"comment"`
}

// TableName specifies the table name
func (SharpenLog) TableName() string {
	return "knife_sharpen_log"
}

// TrackingRepository defines the contract for knife lifecycle data access
type TrackingRepository interface {
	WithTx(tx *gorm.DB) TrackingRepository

	EnsureTracking(partID uint) (*Tracking, error)
	FindByPart(partID uint) (*Tracking, error)
	FindAll() ([]Tracking, error)
	Update(tracking *Tracking) error
	DeleteByPart(partID uint) error

	AppendStatusLog(entry *StatusLog) error
	AppendSharpenLog(entry *SharpenLog) error
	FindStatusLog(id uint) (*StatusLog, error)
	FindSharpenLog(id uint) (*SharpenLog, error)
	StatusLogsForPart(partID uint) ([]StatusLog, error)
	SharpenLogsForPart(partID uint) ([]SharpenLog, error)
	LatestStatusLog(partID uint) (*StatusLog, error)
	SharpenStats(partID uint) (count int, latest *time.Time, err error)
	DeleteStatusLog(id uint) error
	DeleteSharpenLog(id uint) error
	HasLogsForPart(partID uint) (bool, error)
}
