package model

import "errors"

// Error taxonomy shared by every layer. Callers match with errors.Is; producers
// wrap with fmt.Errorf("...: %w", ErrX) to add context.
var (
	// ErrInvalidDimension rejects a non-positive or non-finite dimension edit.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrInvalidSide rejects a wall edit on a side that cannot carry a wall.
	ErrInvalidSide = errors.New("invalid side")
	// ErrIncomplete marks a configuration that is editable but cannot be quoted yet.
	ErrIncomplete = errors.New("configuration incomplete")
	// ErrGeometryInfeasible means no physically valid structure fits the configuration.
	ErrGeometryInfeasible = errors.New("geometry infeasible")
	// ErrNotFound is a catalog lookup miss.
	ErrNotFound = errors.New("not found")
	// ErrPricingUnresolvedComponent means geometry references a component the catalog lacks.
	ErrPricingUnresolvedComponent = errors.New("pricing: unresolved component")
	// ErrCrmSyncFailure means a required host CRM call failed during commit.
	ErrCrmSyncFailure = errors.New("crm sync failure")
	// ErrHostUnavailable means the widget runs without a host CRM.
	ErrHostUnavailable = errors.New("host crm unavailable")
)

// IsUserError reports whether err is a recoverable input problem rather than an internal fault.
func IsUserError(err error) bool {
	return errors.Is(err, ErrInvalidDimension) ||
		errors.Is(err, ErrInvalidSide) ||
		errors.Is(err, ErrIncomplete) ||
		errors.Is(err, ErrGeometryInfeasible)
}
