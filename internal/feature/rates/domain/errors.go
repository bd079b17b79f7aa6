// Package domain defines domain-level errors for the rates feature.
package domain

import "errors"

// Domain errors for rate queries.
// These errors represent business logic failures and should be handled appropriately by upper layers.
var (
	// ErrFutureDate indicates that the requested session start lies after the
	// current instant. Batch requests for future dates are rejected.
	ErrFutureDate = errors.New("requested date is in the future")

	// ErrInvalidTimeframe indicates that the requested timeframe is not one of
	// the supported values.
	ErrInvalidTimeframe = errors.New("invalid timeframe")
)
