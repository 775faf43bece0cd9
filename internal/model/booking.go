package model

import "time"

// Booking status values as stored in the `bookings` table.  A booking is
// "active" (counts toward conflict checks) while pending or confirmed.
const (
    BookingPending   = "pending"
    BookingConfirmed = "confirmed"
    BookingCancelled = "cancelled"
    BookingCompleted = "completed"
)

// DateLayout is the calendar-date format used throughout the service.  The
// core performs no timezone conversion; callers supply a normalized date.
const DateLayout = "2006-01-02"

// Booking records a reservation of a lab for a half-open time interval
// [StartMin, StartMin+DurationMin) on a calendar date.  Start and duration
// are stored as whole minutes so the overlap check is plain integer
// arithmetic.
//
// Fields:
//  ID          – primary key identifier, assigned on insert.
//  UserID      – user who owns the booking.
//  LabID       – lab being reserved.
//  BookingDate – calendar date in DateLayout form.
//  StartMin    – start of the slot, minutes since midnight.
//  DurationMin – length of the slot in minutes (always > 0).
//  Purpose     – optional free-text purpose.
//  Status      – state of the booking (pending, confirmed, cancelled, completed).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Booking struct {
    ID          uint64    // bookings.id
    UserID      uint64    // bookings.user_id
    LabID       uint64    // bookings.lab_id
    BookingDate string    // bookings.booking_date
    StartMin    int       // bookings.start_min
    DurationMin int       // bookings.duration_min
    Purpose     *string   // bookings.purpose (nullable)
    Status      string    // bookings.status
    CreatedAt   time.Time // bookings.created_at
    UpdatedAt   time.Time // bookings.updated_at
}

// IsActive reports whether the booking counts toward conflict checks.
func (b Booking) IsActive() bool {
    return b.Status == BookingPending || b.Status == BookingConfirmed
}

// BookingDetail is a booking joined with its lab for display to the owner.
// Returned by the my-bookings listing, newest first.
type BookingDetail struct {
    ID             uint64  `json:"id"`
    LabID          uint64  `json:"lab_id"`
    LabName        string  `json:"lab_name"`
    LabDescription *string `json:"lab_description,omitempty"`
    BookingDate    string  `json:"booking_date"`
    StartTime      string  `json:"start_time"` // HH:MM
    DurationMin    int     `json:"duration_min"`
    Purpose        *string `json:"purpose,omitempty"`
    Status         string  `json:"status"`
    CreatedAt      string  `json:"created_at"`
}
