// Package queue defines the message payloads exchanged over the broker and
// the background consumer for the booking audit trail.
package queue

// BookingConfirmedEvent is published when a lab booking is successfully
// created.  It carries enough information for downstream consumers to log
// or notify without querying the primary database.
type BookingConfirmedEvent struct {
    BookingID   uint64 `json:"booking_id"`
    UserID      uint64 `json:"user_id"`
    LabID       uint64 `json:"lab_id"`
    LabName     string `json:"lab_name"`
    BookingDate string `json:"booking_date"`
    StartTime   string `json:"start_time"` // HH:MM
    DurationMin int    `json:"duration_min"`
    ConfirmedAt string `json:"confirmed_at"` // RFC3339
}
