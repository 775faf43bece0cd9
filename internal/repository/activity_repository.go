package repository

import (
    "context"
    "database/sql"

    "github.com/GitRE41187/lab-reservation/internal/model"
)

// ActivityRepo appends and lists audit entries.  Writes are best effort at
// the call sites; a failed audit insert never fails the user's request.
type ActivityRepo struct {
    db *sql.DB
}

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{db: db} }

// Log appends one audit entry for the user.
func (r *ActivityRepo) Log(ctx context.Context, userID uint64, action, detail string) error {
    _, err := r.db.ExecContext(ctx,
        `INSERT INTO activity_logs (user_id, action, detail) VALUES (?,?,?)`,
        userID, action, detail)
    return err
}

// ListByUser returns the user's most recent activity, newest first.
func (r *ActivityRepo) ListByUser(ctx context.Context, userID uint64, limit int) ([]model.ActivityLog, error) {
    if limit <= 0 || limit > 200 {
        limit = 50
    }
    const q = `SELECT id, user_id, action, detail, created_at
               FROM activity_logs WHERE user_id = ?
               ORDER BY created_at DESC, id DESC LIMIT ?`
    rows, err := r.db.QueryContext(ctx, q, userID, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := []model.ActivityLog{}
    for rows.Next() {
        var (
            a      model.ActivityLog
            detail sql.NullString
        )
        if err := rows.Scan(&a.ID, &a.UserID, &a.Action, &detail, &a.CreatedAt); err != nil {
            return nil, err
        }
        if detail.Valid {
            d := detail.String
            a.Detail = &d
        }
        out = append(out, a)
    }
    return out, rows.Err()
}
