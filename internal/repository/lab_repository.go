package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/GitRE41187/lab-reservation/internal/model"
)

// LabRepo provides read access to the labs catalog.  Labs are maintained by
// administrative tooling outside this service; the booking core only ever
// reads them.
type LabRepo struct {
    db *sql.DB
}

// NewLabRepo returns a LabRepo bound to the given database.
func NewLabRepo(db *sql.DB) *LabRepo { return &LabRepo{db: db} }

// GetLab fetches a single lab by id.  It returns ErrLabNotFound when no row
// exists.
func (r *LabRepo) GetLab(ctx context.Context, id uint64) (model.Lab, error) {
    const q = `SELECT id, name, description, capacity, status, equipment, created_at, updated_at
               FROM labs WHERE id = ?`
    var (
        lab         model.Lab
        description sql.NullString
        equipment   sql.NullString
    )
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &lab.ID, &lab.Name, &description, &lab.Capacity, &lab.Status,
        &equipment, &lab.CreatedAt, &lab.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.Lab{}, ErrLabNotFound
        }
        return model.Lab{}, err
    }
    if description.Valid {
        d := description.String
        lab.Description = &d
    }
    if equipment.Valid {
        e := equipment.String
        lab.Equipment = &e
    }
    return lab, nil
}

// ListWithBookingCounts returns every lab together with the number of active
// bookings it holds on the given date.  Ordering by name keeps the listing
// deterministic.
func (r *LabRepo) ListWithBookingCounts(ctx context.Context, date string) ([]model.LabSummary, error) {
    const q = `SELECT l.id, l.name, l.description, l.capacity, l.status, l.equipment,
                      COUNT(b.id)
               FROM labs l
               LEFT JOIN bookings b ON b.lab_id = l.id
                    AND b.booking_date = ?
                    AND b.status IN ('pending','confirmed')
               GROUP BY l.id
               ORDER BY l.name`
    rows, err := r.db.QueryContext(ctx, q, date)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := []model.LabSummary{}
    for rows.Next() {
        var (
            s           model.LabSummary
            description sql.NullString
            equipment   sql.NullString
        )
        if err := rows.Scan(&s.ID, &s.Name, &description, &s.Capacity, &s.Status, &equipment, &s.TodayBookings); err != nil {
            return nil, err
        }
        if description.Valid {
            d := description.String
            s.Description = &d
        }
        if equipment.Valid {
            e := equipment.String
            s.Equipment = &e
        }
        out = append(out, s)
    }
    return out, rows.Err()
}

// CountAvailable returns the number of labs currently marked available.
func (r *LabRepo) CountAvailable(ctx context.Context) (uint32, error) {
    var n uint32
    err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM labs WHERE status = 'available'`).Scan(&n)
    return n, err
}
