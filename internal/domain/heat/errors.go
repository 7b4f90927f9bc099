package heat

import "errors"

// Sentinel kinds for decide rejections. These allow errors.Is/As from
// callers; every rejection is a pure validation outcome with no side
// effect.
var (
	ErrAlreadyExists      = errors.New("heat already exists")
	ErrNoRiders           = errors.New("heat requires at least one rider")
	ErrDuplicateRiders    = errors.New("duplicate rider ids")
	ErrInvalidRules       = errors.New("counting rules must be positive")
	ErrNotFound           = errors.New("heat not found")
	ErrIDMismatch         = errors.New("command heat id does not match state")
	ErrRiderNotInHeat     = errors.New("rider not in heat")
	ErrInvalidScore       = errors.New("score must be a finite number in [0, 10]")
	ErrDuplicateScoreUUID = errors.New("score uuid already recorded")
)

// ErrInvariantViolation marks a fatal replay inconsistency: a scoring
// event observed before creation. It is never a caller-facing validation
// outcome and must not be swallowed.
var ErrInvariantViolation = errors.New("event stream invariant violation")
