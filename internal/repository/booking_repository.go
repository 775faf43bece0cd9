package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/GitRE41187/lab-reservation/internal/booking"
    "github.com/GitRE41187/lab-reservation/internal/model"
)

// BookingRepo is the durable Booking Store.  All timestamps are stored in
// UTC; booking dates are DATE columns and travel as YYYY-MM-DD strings in
// and out of this package.
//
// The check-then-insert path runs inside a single transaction that locks
// the lab's rows for the date with SELECT ... FOR UPDATE, so two concurrent
// creations for the same lab and date serialize at the database.  No other
// component writes bookings.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, user_id, lab_id, booking_date, start_min, duration_min, purpose, status, created_at, updated_at`

func scanBooking(scan func(dest ...any) error) (model.Booking, error) {
    var (
        b       model.Booking
        date    time.Time
        purpose sql.NullString
    )
    err := scan(&b.ID, &b.UserID, &b.LabID, &date, &b.StartMin, &b.DurationMin,
        &purpose, &b.Status, &b.CreatedAt, &b.UpdatedAt)
    if err != nil {
        return model.Booking{}, err
    }
    b.BookingDate = date.Format(model.DateLayout)
    if purpose.Valid {
        p := purpose.String
        b.Purpose = &p
    }
    return b, nil
}

// FindActive returns the active (pending or confirmed) bookings for one lab
// and date, ordered by start time.  Read-only; no locks taken.
func (r *BookingRepo) FindActive(ctx context.Context, labID uint64, date string) ([]model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings
               WHERE lab_id = ? AND booking_date = ? AND status IN ('pending','confirmed')
               ORDER BY start_min`
    return r.queryBookings(ctx, r.db, q, labID, date)
}

// findActiveForUpdateTx is the locked variant used inside the create
// transaction.  FOR UPDATE holds the matching rows (and the index gap)
// until commit, serializing concurrent creations for the same lab/date.
func (r *BookingRepo) findActiveForUpdateTx(ctx context.Context, tx *sql.Tx, labID uint64, date string) ([]model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings
               WHERE lab_id = ? AND booking_date = ? AND status IN ('pending','confirmed')
               ORDER BY start_min FOR UPDATE`
    return r.queryBookings(ctx, tx, q, labID, date)
}

type querier interface {
    QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *BookingRepo) queryBookings(ctx context.Context, q querier, query string, args ...any) ([]model.Booking, error) {
    rows, err := q.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := []model.Booking{}
    for rows.Next() {
        b, err := scanBooking(rows.Scan)
        if err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    return out, rows.Err()
}

// insertTx inserts the booking within the transaction, then selects the row
// back to populate the generated id and timestamps.
func (r *BookingRepo) insertTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    const ins = `INSERT INTO bookings (user_id, lab_id, booking_date, start_min, duration_min, purpose, status)
                 VALUES (?, ?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, ins, b.UserID, b.LabID, b.BookingDate,
        b.StartMin, b.DurationMin, b.Purpose, b.Status)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)

    const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
    got, err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID).Scan)
    if err != nil {
        return err
    }
    *b = got
    return nil
}

// CreateIfFree runs the serialized check-and-insert required by the booking
// service: it opens a transaction, loads the active bookings for the lab
// and date under row locks, hands them to resolve, and inserts the booking
// only when resolve returns nil.  Any error from resolve is returned
// unchanged and nothing is written; the transaction boundary is also the
// cancellation boundary, so a timed-out call leaves no half-applied state.
func (r *BookingRepo) CreateIfFree(ctx context.Context, b *model.Booking, resolve func(active []model.Booking) error) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    active, err := r.findActiveForUpdateTx(ctx, tx, b.LabID, b.BookingDate)
    if err != nil {
        return err
    }
    if err := resolve(active); err != nil {
        return err
    }
    if err := r.insertTx(ctx, tx, b); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// ListByUser returns all bookings created by the user joined with lab
// details, newest first (date, then start time descending).
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.BookingDetail, error) {
    const q = `SELECT b.id, b.lab_id, l.name, l.description,
                      b.booking_date, b.start_min, b.duration_min, b.purpose, b.status, b.created_at
               FROM bookings b
               JOIN labs l ON l.id = b.lab_id
               WHERE b.user_id = ?
               ORDER BY b.booking_date DESC, b.start_min DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := []model.BookingDetail{}
    for rows.Next() {
        var (
            d         model.BookingDetail
            labDesc   sql.NullString
            date      time.Time
            startMin  int
            purpose   sql.NullString
            createdAt time.Time
        )
        if err := rows.Scan(&d.ID, &d.LabID, &d.LabName, &labDesc,
            &date, &startMin, &d.DurationMin, &purpose, &d.Status, &createdAt); err != nil {
            return nil, err
        }
        d.BookingDate = date.Format(model.DateLayout)
        d.StartTime = booking.FormatClock(startMin)
        d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
        if labDesc.Valid {
            ld := labDesc.String
            d.LabDescription = &ld
        }
        if purpose.Valid {
            p := purpose.String
            d.Purpose = &p
        }
        out = append(out, d)
    }
    return out, rows.Err()
}

// HasConfirmedOn reports whether the user holds a confirmed booking for the
// lab on the given date.  This is the day-pass authorization query used by
// the control gate.
func (r *BookingRepo) HasConfirmedOn(ctx context.Context, userID, labID uint64, date string) (bool, error) {
    const q = `SELECT EXISTS(
                   SELECT 1 FROM bookings
                   WHERE user_id = ? AND lab_id = ? AND booking_date = ? AND status = 'confirmed')`
    var exists bool
    err := r.db.QueryRowContext(ctx, q, userID, labID, date).Scan(&exists)
    return exists, err
}

// FindConfirmed returns the user's confirmed bookings for the lab and date,
// used by the strict-window authorization variant.
func (r *BookingRepo) FindConfirmed(ctx context.Context, userID, labID uint64, date string) ([]model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings
               WHERE user_id = ? AND lab_id = ? AND booking_date = ? AND status = 'confirmed'
               ORDER BY start_min`
    return r.queryBookings(ctx, r.db, q, userID, labID, date)
}

// CountForUser returns how many confirmed or completed bookings the user
// has made in total.  Used by the dashboard.
func (r *BookingRepo) CountForUser(ctx context.Context, userID uint64) (uint32, error) {
    var n uint32
    err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM bookings WHERE user_id = ? AND status IN ('confirmed','completed')`,
        userID).Scan(&n)
    return n, err
}

// CountConfirmedOn returns the number of confirmed bookings across all labs
// on the given date.  Used by the dashboard.
func (r *BookingRepo) CountConfirmedOn(ctx context.Context, date string) (uint32, error) {
    var n uint32
    err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM bookings WHERE booking_date = ? AND status = 'confirmed'`,
        date).Scan(&n)
    return n, err
}
