package service

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/GitRE41187/lab-reservation/internal/booking"
    "github.com/GitRE41187/lab-reservation/internal/model"
    "github.com/GitRE41187/lab-reservation/internal/repository"
)

// BookingStore is the persistence contract the service requires.  The
// MySQL implementation lives in internal/repository; tests substitute an
// in-memory fake.  CreateIfFree must run its check-and-insert atomically
// with respect to other callers; that contract belongs to the store.
type BookingStore interface {
    CreateIfFree(ctx context.Context, b *model.Booking, resolve func(active []model.Booking) error) error
    FindActive(ctx context.Context, labID uint64, date string) ([]model.Booking, error)
    ListByUser(ctx context.Context, userID uint64) ([]model.BookingDetail, error)
    HasConfirmedOn(ctx context.Context, userID, labID uint64, date string) (bool, error)
    FindConfirmed(ctx context.Context, userID, labID uint64, date string) ([]model.Booking, error)
}

// LabRegistry resolves lab ids to catalog entries.
type LabRegistry interface {
    GetLab(ctx context.Context, id uint64) (model.Lab, error)
}

// BookingService is the only mutating entry point for booking creation.
// It holds no state of its own; all durable state lives in the store.
type BookingService struct {
    store  BookingStore
    labs   LabRegistry
    window booking.Window
    locks  *slotLock
}

// NewBookingService constructs the service.  Both dependencies must be
// non-nil.
func NewBookingService(store BookingStore, labs LabRegistry, window booking.Window) *BookingService {
    if store == nil || labs == nil {
        panic("nil dependency passed to NewBookingService")
    }
    return &BookingService{store: store, labs: labs, window: window, locks: newSlotLock()}
}

// CreateRequest carries the validated inputs for one booking creation.
type CreateRequest struct {
    UserID      uint64
    LabID       uint64
    Date        string // YYYY-MM-DD
    StartMin    int
    DurationMin int
    Purpose     string // optional
}

// CreateBooking validates the request, checks lab availability and the
// operating window, then runs the serialized conflict check against the
// store and persists the booking as confirmed.  Exactly one durable write
// happens on success and none on failure.  Identical retries are not
// deduplicated; the second attempt simply conflicts with the first.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateRequest) (*model.Booking, error) {
    if _, err := time.Parse(model.DateLayout, req.Date); err != nil {
        return nil, ErrInvalidTimeRange
    }
    candidate := booking.Interval{StartMin: req.StartMin, DurationMin: req.DurationMin}
    if !s.window.Contains(candidate) {
        return nil, ErrInvalidTimeRange
    }

    lab, err := s.labs.GetLab(ctx, req.LabID)
    if err != nil {
        if errors.Is(err, repository.ErrLabNotFound) {
            return nil, ErrLabUnavailable
        }
        return nil, storeFailure(err)
    }
    if lab.Status != model.LabAvailable {
        return nil, ErrLabUnavailable
    }

    unlock := s.locks.acquire(req.LabID, req.Date)
    defer unlock()

    b := &model.Booking{
        UserID:      req.UserID,
        LabID:       req.LabID,
        BookingDate: req.Date,
        StartMin:    req.StartMin,
        DurationMin: req.DurationMin,
        Status:      model.BookingConfirmed,
    }
    if p := req.Purpose; p != "" {
        b.Purpose = &p
    }

    err = s.store.CreateIfFree(ctx, b, func(active []model.Booking) error {
        if d := booking.CheckConflict(candidate, active); !d.OK {
            return &SlotUnavailableError{ConflictingID: d.ConflictingID}
        }
        return nil
    })
    if err != nil {
        var slotErr *SlotUnavailableError
        if errors.As(err, &slotErr) {
            return nil, err
        }
        return nil, storeFailure(err)
    }
    return b, nil
}

// ListBookingsForUser returns the user's bookings, newest first.  Read
// only; repeated calls with no intervening writes return the same result.
func (s *BookingService) ListBookingsForUser(ctx context.Context, userID uint64) ([]model.BookingDetail, error) {
    out, err := s.store.ListByUser(ctx, userID)
    if err != nil {
        return nil, storeFailure(err)
    }
    return out, nil
}

// HasActiveBookingNow reports whether the user holds a confirmed booking
// for the lab on the given date.  Matching is by date only: a confirmed
// booking anywhere in the day grants access for the whole day (day-pass
// semantics, preserved from the system this replaces).
func (s *BookingService) HasActiveBookingNow(ctx context.Context, userID, labID uint64, asOfDate string) (bool, error) {
    ok, err := s.store.HasConfirmedOn(ctx, userID, labID, asOfDate)
    if err != nil {
        return false, storeFailure(err)
    }
    return ok, nil
}

// HasActiveBookingAt is the stricter variant: true only when nowMin falls
// inside one of the user's confirmed intervals for that lab and date.
func (s *BookingService) HasActiveBookingAt(ctx context.Context, userID, labID uint64, asOfDate string, nowMin int) (bool, error) {
    confirmed, err := s.store.FindConfirmed(ctx, userID, labID, asOfDate)
    if err != nil {
        return false, storeFailure(err)
    }
    for _, b := range confirmed {
        if nowMin >= b.StartMin && nowMin < b.StartMin+b.DurationMin {
            return true, nil
        }
    }
    return false, nil
}

// storeFailure maps persistence failures to the stable store error codes,
// keeping the original error in the chain.
func storeFailure(err error) error {
    if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
        return fmt.Errorf("%w: %v", ErrStoreTimeout, err)
    }
    return fmt.Errorf("%w: %v", ErrStoreError, err)
}
