package geobox

import (
	"errors"
	"fmt"
)

var (
	// ErrConversion is matched by every *ConversionError
	ErrConversion = errors.New("decimal conversion failed")

	// ErrInvalidConfig is wrapped by configuration validation failures
	ErrInvalidConfig = errors.New("invalid geobox config")

	errNotFinite        = errors.New("value is not finite")
	errMalformedBox     = errors.New("malformed identifier")
	errDegenerateBounds = errors.New("box has no area")
)

// ConversionError reports input that could not be turned into an exact decimal
type ConversionError struct {
	Field string
	Input string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Input, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrConversion) hold for any ConversionError
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}
