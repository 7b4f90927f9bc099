package app

import (
	"errors"

	"github.com/okian/heatcast/internal/domain/heat"
)

// Sentinel kinds for service errors.
var (
	ErrStopped = errors.New("heat service stopped")
)

// rejectionReason maps a decide rejection to its metrics label.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, heat.ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, heat.ErrNoRiders):
		return "no_riders"
	case errors.Is(err, heat.ErrDuplicateRiders):
		return "duplicate_riders"
	case errors.Is(err, heat.ErrInvalidRules):
		return "invalid_rules"
	case errors.Is(err, heat.ErrNotFound):
		return "not_found"
	case errors.Is(err, heat.ErrIDMismatch):
		return "id_mismatch"
	case errors.Is(err, heat.ErrRiderNotInHeat):
		return "rider_not_in_heat"
	case errors.Is(err, heat.ErrInvalidScore):
		return "invalid_score"
	case errors.Is(err, heat.ErrDuplicateScoreUUID):
		return "duplicate_score_uuid"
	default:
		return "other"
	}
}
