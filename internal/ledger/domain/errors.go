package domain

import "errors"

// Business rule violations. Command handlers translate these into a
// failed result; anything else rolls back and propagates as an
// infrastructure error.
var (
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrInvalidStateTransition  = errors.New("invalid state transition")
	ErrDuplicateKey            = errors.New("part with this name and sku already exists")
	ErrReferencedByEquipment   = errors.New("part is installed on equipment")
	ErrReferencedByOrder       = errors.New("part is referenced by an order")
	ErrReferencedByReplacement = errors.New("part has replacement history")
	ErrKnifeHistoryExists      = errors.New("part has knife log history")
)
