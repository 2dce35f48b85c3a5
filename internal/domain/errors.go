package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks values rejected at the engine boundary.
var ErrInvalidInput = errors.New("invalid input")

// ValidateDay checks a day-of-month field (cutoff, due, payment or anchor day).
func ValidateDay(field string, day int) error {
	if day < 1 || day > 31 {
		return fmt.Errorf("%w: %s must be between 1 and 31, got %d", ErrInvalidInput, field, day)
	}
	return nil
}

// ValidateWindow checks a payment window measured in days after the cutoff.
func ValidateWindow(days int) error {
	if days < 0 {
		return fmt.Errorf("%w: window days must not be negative, got %d", ErrInvalidInput, days)
	}
	return nil
}
