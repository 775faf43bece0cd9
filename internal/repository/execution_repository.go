package repository

import (
    "context"
    "database/sql"
    "errors"
)

// ExecutionRepo records robot code executions.  A row is opened in the
// running state before the device gateway is contacted and finalised with
// the gateway's verdict, so the history never claims success for a run the
// gateway rejected.
type ExecutionRepo struct {
    db *sql.DB
}

func NewExecutionRepo(db *sql.DB) *ExecutionRepo { return &ExecutionRepo{db: db} }

// Start inserts a running execution row and returns its id.
func (r *ExecutionRepo) Start(ctx context.Context, userID, labID uint64, code string) (uint64, error) {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO robot_executions (user_id, lab_id, code, status) VALUES (?,?,?, 'running')`,
        userID, labID, code)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// Finish transitions the execution to a terminal status and records the
// gateway's result text and elapsed time.
func (r *ExecutionRepo) Finish(ctx context.Context, id uint64, status, result string, elapsedMS int64) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE robot_executions
         SET status = ?, result = ?, execution_ms = ?, completed_at = NOW()
         WHERE id = ? AND status = 'running'`,
        status, result, elapsedMS, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrExecutionNotFound
    }
    return nil
}

// CountForUser returns the number of executions the user has submitted.
func (r *ExecutionRepo) CountForUser(ctx context.Context, userID uint64) (uint32, error) {
    var n uint32
    err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM robot_executions WHERE user_id = ?`, userID).Scan(&n)
    if err != nil && !errors.Is(err, sql.ErrNoRows) {
        return 0, err
    }
    return n, nil
}
