package models

import (
	"errors"
	"fmt"
)

// Operation-level failures. Per-item failures never surface as these;
// they are converted into record or row statuses.
var (
	// ErrInvalidSource indicates the source is missing or not a directory
	ErrInvalidSource = errors.New("source does not exist or is not a folder")
	// ErrMissingCapability indicates a required injected capability is absent
	ErrMissingCapability = errors.New("required capability is not available")
	// ErrNothingToExecute indicates a plan without any OK record
	ErrNothingToExecute = errors.New("no executable items, run analyze first")
	// ErrPlatformUnsupported indicates duration probing has no implementation here
	ErrPlatformUnsupported = errors.New("duration probing is not supported on this platform")
	// ErrUnsupportedFormat indicates a file extension outside the probe's supported set
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrBusy indicates an operation is already running on the runner
	ErrBusy = errors.New("another operation is already running")
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// CapabilityError names the capability that is missing.
// It matches ErrMissingCapability with errors.Is.
type CapabilityError struct {
	Capability string
	Reason     string
}

func (e *CapabilityError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %v", e.Capability, ErrMissingCapability)
	}
	return fmt.Sprintf("%s: %v (%s)", e.Capability, ErrMissingCapability, e.Reason)
}

func (e *CapabilityError) Unwrap() error {
	return ErrMissingCapability
}

// ProbeError is returned when a file cannot be probed for dimensions or duration
type ProbeError struct {
	Path string
	Op   string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}
