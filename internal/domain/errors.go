package domain

import (
	"errors"
	"fmt"
)

// caller-input errors - the request itself was malformed
var (
	ErrUnknownSector      = errors.New("unknown sector")
	ErrUnknownRiskProfile = errors.New("unknown risk profile")
	ErrEmptyUniverse      = errors.New("no symbols matched the sector filter")
	ErrAllScoresMissing   = errors.New("every symbol in the universe has a missing composite score")
)

// DataUnavailableError means the market data provider returned nothing
// usable after the retry budget was exhausted.
type DataUnavailableError struct {
	Err error
}

func (e DataUnavailableError) Error() string {
	return fmt.Sprintf("market data unavailable: %s", e.Err.Error())
}

func (e DataUnavailableError) Unwrap() error {
	return e.Err
}

// IsCallerError reports whether err was caused by invalid caller input
// rather than a data-availability problem.
func IsCallerError(err error) bool {
	return errors.Is(err, ErrUnknownSector) ||
		errors.Is(err, ErrUnknownRiskProfile) ||
		errors.Is(err, ErrEmptyUniverse)
}
