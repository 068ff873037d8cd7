// Package voxerr holds the error values shared by the pitch engine and the terminal UI.
package voxerr

import "errors"

var (
	// Frequency to pitch conversion of a non-positive (or non-finite) frequency.
	ErrNonPositiveFrequency = errors.New("frequency must be positive")
	// A pitch or frequency was outside the configured bounds and got clamped.
	ErrOutOfRange   = errors.New("value out of range")
	ErrUnknownScale = errors.New("unknown scale")
	// Scale intervals must be non-empty and each at least one semitone.
	ErrInvalidInterval = errors.New("invalid scale interval")
	ErrInvalidConfig   = errors.New("invalid config")
)

type (
	ErrMsg struct {
		Err error
	}
)

func (m ErrMsg) Error() string {
	return m.Err.Error()
}

func (m ErrMsg) Unwrap() error {
	return m.Err
}
