package domain

import "errors"

// Business rule violations. Command handlers translate these into a
// failed result.
var (
	ErrEquipmentRequired = errors.New("a replacement task requires equipment")
	ErrPartsRequired     = errors.New("a replacement task requires at least one part")
	ErrNonPositiveQty    = errors.New("replacement qty must be positive")
	ErrLinkGone          = errors.New("part is no longer linked to the equipment")
	ErrLinkMismatch      = errors.New("part does not match the equipment link")
	ErrForeignLink       = errors.New("all parts must belong to the task equipment")
)
