// Package validation checks names and values coming from configuration
// files and ship commands before they reach the simulation.
package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"unicode"
	"unicode/utf8"
)

// Limits on externally supplied names.
const (
	MaxObjectIDLen      = 32
	MaxFactionLen       = 32
	MaxPropertyLen      = 64
	MaxCommandMagnitude = 1e6
)

// ErrInvalidInput wraps every validation failure.
var ErrInvalidInput = errors.New("invalid input")

var (
	// ids end up in log fields, roll ids and telemetry tags
	validObjectID = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*$`)
	validProperty = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9.]*$`)
)

// ValidateObjectID checks a ship or asteroid id.
func ValidateObjectID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidInput)
	}
	if len(id) > MaxObjectIDLen {
		return fmt.Errorf("%w: id too long: %d characters (max %d)", ErrInvalidInput, len(id), MaxObjectIDLen)
	}
	if !validObjectID.MatchString(id) {
		return fmt.Errorf("%w: id %q may only hold letters, digits, '-', '_' and '.'", ErrInvalidInput, id)
	}
	return nil
}

// ValidateFaction checks a faction name. Empty means unaligned.
func ValidateFaction(faction string) error {
	if faction == "" {
		return nil
	}
	if len(faction) > MaxFactionLen {
		return fmt.Errorf("%w: faction too long: %d characters (max %d)", ErrInvalidInput, len(faction), MaxFactionLen)
	}
	if !utf8.ValidString(faction) {
		return fmt.Errorf("%w: faction contains invalid UTF-8", ErrInvalidInput)
	}
	for _, r := range faction {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return fmt.Errorf("%w: faction %q contains spaces or control characters", ErrInvalidInput, faction)
		}
	}
	return nil
}

// ValidateCommand checks a property name and the value written to it.
// Range clamping is left to the property itself.
func ValidateCommand(name string, value float64) error {
	if name == "" || len(name) > MaxPropertyLen || !validProperty.MatchString(name) {
		return fmt.Errorf("%w: malformed property name %q", ErrInvalidInput, name)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s value %v is not finite", ErrInvalidInput, name, value)
	}
	if math.Abs(value) > MaxCommandMagnitude {
		return fmt.Errorf("%w: %s value %v exceeds %v", ErrInvalidInput, name, value, MaxCommandMagnitude)
	}
	return nil
}
