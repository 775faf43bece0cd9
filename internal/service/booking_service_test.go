package service

import (
    "context"
    "errors"
    "sync"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/GitRE41187/lab-reservation/internal/booking"
    "github.com/GitRE41187/lab-reservation/internal/model"
    "github.com/GitRE41187/lab-reservation/internal/repository"
)

// fakeStore holds bookings in memory.  CreateIfFree is deliberately not
// atomic on its own; the service's per-slot lock must provide the
// serialization, which the concurrency test below relies on.
type fakeStore struct {
    mu       sync.RWMutex
    nextID   uint64
    bookings []model.Booking
    err      error
}

func newFakeStore() *fakeStore { return &fakeStore{nextID: 1} }

func (f *fakeStore) activeFor(labID uint64, date string) []model.Booking {
    var out []model.Booking
    for _, b := range f.bookings {
        if b.LabID == labID && b.BookingDate == date && b.IsActive() {
            out = append(out, b)
        }
    }
    return out
}

func (f *fakeStore) CreateIfFree(ctx context.Context, b *model.Booking, resolve func(active []model.Booking) error) error {
    if f.err != nil {
        return f.err
    }
    f.mu.RLock()
    active := f.activeFor(b.LabID, b.BookingDate)
    f.mu.RUnlock()

    if err := resolve(active); err != nil {
        return err
    }

    f.mu.Lock()
    b.ID = f.nextID
    f.nextID++
    f.bookings = append(f.bookings, *b)
    f.mu.Unlock()
    return nil
}

func (f *fakeStore) FindActive(ctx context.Context, labID uint64, date string) ([]model.Booking, error) {
    f.mu.RLock()
    defer f.mu.RUnlock()
    return f.activeFor(labID, date), nil
}

func (f *fakeStore) ListByUser(ctx context.Context, userID uint64) ([]model.BookingDetail, error) {
    if f.err != nil {
        return nil, f.err
    }
    f.mu.RLock()
    defer f.mu.RUnlock()
    var out []model.BookingDetail
    for _, b := range f.bookings {
        if b.UserID == userID {
            out = append(out, model.BookingDetail{
                ID:          b.ID,
                LabID:       b.LabID,
                BookingDate: b.BookingDate,
                StartTime:   booking.FormatClock(b.StartMin),
                DurationMin: b.DurationMin,
                Status:      b.Status,
            })
        }
    }
    return out, nil
}

func (f *fakeStore) HasConfirmedOn(ctx context.Context, userID, labID uint64, date string) (bool, error) {
    if f.err != nil {
        return false, f.err
    }
    f.mu.RLock()
    defer f.mu.RUnlock()
    for _, b := range f.bookings {
        if b.UserID == userID && b.LabID == labID && b.BookingDate == date && b.Status == model.BookingConfirmed {
            return true, nil
        }
    }
    return false, nil
}

func (f *fakeStore) FindConfirmed(ctx context.Context, userID, labID uint64, date string) ([]model.Booking, error) {
    if f.err != nil {
        return nil, f.err
    }
    f.mu.RLock()
    defer f.mu.RUnlock()
    var out []model.Booking
    for _, b := range f.bookings {
        if b.UserID == userID && b.LabID == labID && b.BookingDate == date && b.Status == model.BookingConfirmed {
            out = append(out, b)
        }
    }
    return out, nil
}

type fakeLabs struct {
    labs map[uint64]model.Lab
}

func (f *fakeLabs) GetLab(ctx context.Context, id uint64) (model.Lab, error) {
    lab, ok := f.labs[id]
    if !ok {
        return model.Lab{}, repository.ErrLabNotFound
    }
    return lab, nil
}

func testWindow() booking.Window {
    return booking.Window{OpenMin: 8 * 60, CloseMin: 20 * 60, MaxDurationMin: 240}
}

func newTestService(store *fakeStore) *BookingService {
    labs := &fakeLabs{labs: map[uint64]model.Lab{
        1: {ID: 1, Name: "Robotics Lab A", Status: model.LabAvailable},
        2: {ID: 2, Name: "Robotics Lab B", Status: model.LabMaintenance},
    }}
    return NewBookingService(store, labs, testWindow())
}

func TestCreateBooking_Success(t *testing.T) {
    store := newFakeStore()
    svc := newTestService(store)

    b, err := svc.CreateBooking(context.Background(), CreateRequest{
        UserID: 10, LabID: 1, Date: "2026-09-01", StartMin: 600, DurationMin: 60,
    })
    require.NoError(t, err)
    assert.NotZero(t, b.ID)
    assert.Equal(t, model.BookingConfirmed, b.Status)
    assert.Equal(t, 600, b.StartMin)
}

func TestCreateBooking_LabMaintenance(t *testing.T) {
    svc := newTestService(newFakeStore())

    _, err := svc.CreateBooking(context.Background(), CreateRequest{
        UserID: 10, LabID: 2, Date: "2026-09-01", StartMin: 600, DurationMin: 60,
    })
    assert.ErrorIs(t, err, ErrLabUnavailable)
}

func TestCreateBooking_UnknownLab(t *testing.T) {
    svc := newTestService(newFakeStore())

    _, err := svc.CreateBooking(context.Background(), CreateRequest{
        UserID: 10, LabID: 99, Date: "2026-09-01", StartMin: 600, DurationMin: 60,
    })
    assert.ErrorIs(t, err, ErrLabUnavailable)
}

func TestCreateBooking_InvalidTimeRange(t *testing.T) {
    svc := newTestService(newFakeStore())

    cases := []struct {
        name string
        req  CreateRequest
    }{
        {"bad date", CreateRequest{UserID: 1, LabID: 1, Date: "01-09-2026", StartMin: 600, DurationMin: 60}},
        {"zero duration", CreateRequest{UserID: 1, LabID: 1, Date: "2026-09-01", StartMin: 600, DurationMin: 0}},
        {"negative duration", CreateRequest{UserID: 1, LabID: 1, Date: "2026-09-01", StartMin: 600, DurationMin: -30}},
        {"before opening", CreateRequest{UserID: 1, LabID: 1, Date: "2026-09-01", StartMin: 7 * 60, DurationMin: 60}},
        {"past closing", CreateRequest{UserID: 1, LabID: 1, Date: "2026-09-01", StartMin: 19*60 + 30, DurationMin: 60}},
        {"over max duration", CreateRequest{UserID: 1, LabID: 1, Date: "2026-09-01", StartMin: 600, DurationMin: 300}},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            _, err := svc.CreateBooking(context.Background(), tc.req)
            assert.ErrorIs(t, err, ErrInvalidTimeRange)
        })
    }
}

func TestCreateBooking_Overlap(t *testing.T) {
    store := newFakeStore()
    svc := newTestService(store)
    ctx := context.Background()

    first, err := svc.CreateBooking(ctx, CreateRequest{
        UserID: 10, LabID: 1, Date: "2026-09-01", StartMin: 600, DurationMin: 60,
    })
    require.NoError(t, err)

    // Identical retry conflicts with the first booking.
    _, err = svc.CreateBooking(ctx, CreateRequest{
        UserID: 10, LabID: 1, Date: "2026-09-01", StartMin: 600, DurationMin: 60,
    })
    var slotErr *SlotUnavailableError
    require.ErrorAs(t, err, &slotErr)
    assert.Equal(t, first.ID, slotErr.ConflictingID)

    // Partial overlap by another user fails the same way.
    _, err = svc.CreateBooking(ctx, CreateRequest{
        UserID: 11, LabID: 1, Date: "2026-09-01", StartMin: 630, DurationMin: 60,
    })
    assert.ErrorAs(t, err, &slotErr)
}

func TestCreateBooking_BoundaryTouchAllowed(t *testing.T) {
    store := newFakeStore()
    svc := newTestService(store)
    ctx := context.Background()

    _, err := svc.CreateBooking(ctx, CreateRequest{
        UserID: 10, LabID: 1, Date: "2026-09-01", StartMin: 600, DurationMin: 60,
    })
    require.NoError(t, err)

    // Back-to-back slots on both sides of the existing one.
    _, err = svc.CreateBooking(ctx, CreateRequest{
        UserID: 11, LabID: 1, Date: "2026-09-01", StartMin: 660, DurationMin: 60,
    })
    assert.NoError(t, err)
    _, err = svc.CreateBooking(ctx, CreateRequest{
        UserID: 12, LabID: 1, Date: "2026-09-01", StartMin: 540, DurationMin: 60,
    })
    assert.NoError(t, err)
}

func TestCreateBooking_SameSlotDifferentLabOrDate(t *testing.T) {
    store := newFakeStore()
    labs := &fakeLabs{labs: map[uint64]model.Lab{
        1: {ID: 1, Status: model.LabAvailable},
        3: {ID: 3, Status: model.LabAvailable},
    }}
    svc := NewBookingService(store, labs, testWindow())
    ctx := context.Background()

    _, err := svc.CreateBooking(ctx, CreateRequest{
        UserID: 10, LabID: 1, Date: "2026-09-01", StartMin: 600, DurationMin: 60,
    })
    require.NoError(t, err)

    _, err = svc.CreateBooking(ctx, CreateRequest{
        UserID: 10, LabID: 3, Date: "2026-09-01", StartMin: 600, DurationMin: 60,
    })
    assert.NoError(t, err, "other lab, same slot")

    _, err = svc.CreateBooking(ctx, CreateRequest{
        UserID: 10, LabID: 1, Date: "2026-09-02", StartMin: 600, DurationMin: 60,
    })
    assert.NoError(t, err, "other date, same slot")
}

func TestCreateBooking_CancelledDoesNotBlock(t *testing.T) {
    store := newFakeStore()
    store.bookings = append(store.bookings, model.Booking{
        ID: 1, UserID: 5, LabID: 1, BookingDate: "2026-09-01",
        StartMin: 600, DurationMin: 60, Status: model.BookingCancelled,
    })
    store.nextID = 2
    svc := newTestService(store)

    _, err := svc.CreateBooking(context.Background(), CreateRequest{
        UserID: 10, LabID: 1, Date: "2026-09-01", StartMin: 600, DurationMin: 60,
    })
    assert.NoError(t, err)
}

func TestCreateBooking_StoreFailure(t *testing.T) {
    store := newFakeStore()
    store.err = errors.New("connection refused")
    svc := newTestService(store)

    _, err := svc.CreateBooking(context.Background(), CreateRequest{
        UserID: 10, LabID: 1, Date: "2026-09-01", StartMin: 600, DurationMin: 60,
    })
    assert.ErrorIs(t, err, ErrStoreError)

    store.err = context.DeadlineExceeded
    _, err = svc.CreateBooking(context.Background(), CreateRequest{
        UserID: 10, LabID: 1, Date: "2026-09-01", StartMin: 600, DurationMin: 60,
    })
    assert.ErrorIs(t, err, ErrStoreTimeout)
}

// Concurrent requests for the same slot must yield exactly one booking.
// The fake store's check and insert are separate steps, so this only holds
// when the service serializes per (lab, date).
func TestCreateBooking_ConcurrentSameSlot(t *testing.T) {
    store := newFakeStore()
    svc := newTestService(store)

    const attempts = 16
    var (
        wg        sync.WaitGroup
        successes int64
        conflicts int64
        mu        sync.Mutex
    )
    for i := 0; i < attempts; i++ {
        wg.Add(1)
        go func(user uint64) {
            defer wg.Done()
            _, err := svc.CreateBooking(context.Background(), CreateRequest{
                UserID: user, LabID: 1, Date: "2026-09-01", StartMin: 600, DurationMin: 60,
            })
            mu.Lock()
            defer mu.Unlock()
            if err == nil {
                successes++
                return
            }
            var slotErr *SlotUnavailableError
            if errors.As(err, &slotErr) {
                conflicts++
            }
        }(uint64(100 + i))
    }
    wg.Wait()

    assert.Equal(t, int64(1), successes)
    assert.Equal(t, int64(attempts-1), conflicts)
    assert.Len(t, store.bookings, 1)
}

func TestHasActiveBookingNow(t *testing.T) {
    store := newFakeStore()
    svc := newTestService(store)
    ctx := context.Background()

    _, err := svc.CreateBooking(ctx, CreateRequest{
        UserID: 10, LabID: 1, Date: "2026-09-01", StartMin: 600, DurationMin: 60,
    })
    require.NoError(t, err)

    ok, err := svc.HasActiveBookingNow(ctx, 10, 1, "2026-09-01")
    require.NoError(t, err)
    assert.True(t, ok, "confirmed booking on the date grants the day pass")

    ok, err = svc.HasActiveBookingNow(ctx, 10, 1, "2026-09-02")
    require.NoError(t, err)
    assert.False(t, ok, "wrong date")

    ok, err = svc.HasActiveBookingNow(ctx, 11, 1, "2026-09-01")
    require.NoError(t, err)
    assert.False(t, ok, "other user")
}

func TestHasActiveBookingAt(t *testing.T) {
    store := newFakeStore()
    svc := newTestService(store)
    ctx := context.Background()

    _, err := svc.CreateBooking(ctx, CreateRequest{
        UserID: 10, LabID: 1, Date: "2026-09-01", StartMin: 600, DurationMin: 60,
    })
    require.NoError(t, err)

    cases := []struct {
        name   string
        nowMin int
        want   bool
    }{
        {"at start", 600, true},
        {"mid interval", 630, true},
        {"last minute", 659, true},
        {"at end", 660, false},
        {"before start", 599, false},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            ok, err := svc.HasActiveBookingAt(ctx, 10, 1, "2026-09-01", tc.nowMin)
            require.NoError(t, err)
            assert.Equal(t, tc.want, ok)
        })
    }
}
