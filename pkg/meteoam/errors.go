package meteoam

import (
	"errors"
	"fmt"
)

var (
	ErrBlockedRequest   = errors.New("request blocked by meteoam, try again in a minute or two")
	ErrUnusedIdentifier = errors.New("location identifier is not used")
	ErrParse            = errors.New("could not parse page as html")
	ErrMalformedRow     = errors.New("malformed forecast row")
	ErrLocationParse    = errors.New("could not parse location from page header")
	ErrFetch            = errors.New("could not fetch location page")

	// ErrTableNotFound is a structural failure of the forecast tables, so it
	// is also classified as ErrMalformedRow.
	ErrTableNotFound = fmt.Errorf("%w: forecast table not found", ErrMalformedRow)
)

// IdentifierError carries the requested location identifier together with
// ErrBlockedRequest or ErrUnusedIdentifier.
type IdentifierError struct {
	ID  uint64
	Err error
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("%s (id: %d)", e.Err.Error(), e.ID)
}

func (e *IdentifierError) Unwrap() error {
	return e.Err
}

// Outcome names the result of a location request, used as a metric label
// and in logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrBlockedRequest):
		return "blocked"
	case errors.Is(err, ErrUnusedIdentifier):
		return "unused"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrMalformedRow):
		return "malformed"
	case errors.Is(err, ErrLocationParse):
		return "location"
	case errors.Is(err, ErrFetch):
		return "fetch"
	}

	return "error"
}
