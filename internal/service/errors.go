// Package service contains the booking orchestration and the control
// authorization gate.  Every rejection crosses the boundary as one of the
// stable error values below; handlers translate them to HTTP, display
// layers translate the codes to text.
package service

import (
    "errors"
    "fmt"
)

// Stable error codes surfaced to callers.  The error message of each
// sentinel is the code itself.
var (
    // ErrLabUnavailable: the lab does not exist or is not in the
    // available state.
    ErrLabUnavailable = errors.New("lab_unavailable")
    // ErrInvalidTimeRange: start/duration outside the configured bookable
    // window, duration <= 0, or a malformed date/time value.
    ErrInvalidTimeRange = errors.New("invalid_time_range")
    // ErrNotAuthorized: the caller holds no active confirmed booking for
    // the lab at the relevant date (control path only).
    ErrNotAuthorized = errors.New("not_authorized")
    // ErrStoreError: the persistence layer failed.  Not retried here; the
    // caller may retry the whole request.
    ErrStoreError = errors.New("store_error")
    // ErrStoreTimeout: the persistence layer did not answer within the
    // request deadline.  The store transaction is the cancellation
    // boundary, so nothing half-applied remains.
    ErrStoreTimeout = errors.New("store_timeout")
)

// SlotUnavailableError rejects a booking that overlaps an existing active
// one.  It carries the conflicting booking's id for diagnostics.
type SlotUnavailableError struct {
    ConflictingID uint64
}

func (e *SlotUnavailableError) Error() string {
    return fmt.Sprintf("slot_unavailable: conflicts with booking %d", e.ConflictingID)
}

// Code returns the stable error code.
func (e *SlotUnavailableError) Code() string { return "slot_unavailable" }
