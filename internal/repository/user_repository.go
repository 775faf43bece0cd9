package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/GitRE41187/lab-reservation/internal/model"
    "github.com/GitRE41187/lab-reservation/internal/utils"
)

// UserRepo persists application accounts.  Passwords are stored as bcrypt
// hashes only.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NewUser carries the fields accepted at registration time.
type NewUser struct {
    Username  string
    Email     string
    Password  string
    FirstName string
    LastName  string
    StudentID string // optional
}

// Create inserts a user with the STUDENT role and returns its ID.  Unique
// collisions on username or email map to ErrUsernameExists.
func (r *UserRepo) Create(ctx context.Context, nu NewUser, bcryptCost int) (uint64, error) {
    hash, err := utils.HashPassword(nu.Password, bcryptCost)
    if err != nil {
        return 0, err
    }
    var studentID any
    if s := strings.TrimSpace(nu.StudentID); s != "" {
        studentID = s
    }
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO users (username, email, password_hash, first_name, last_name, student_id, role)
         VALUES (?,?,?,?,?,?,?)`,
        strings.TrimSpace(nu.Username), strings.ToLower(strings.TrimSpace(nu.Email)),
        hash, nu.FirstName, nu.LastName, studentID, model.RoleStudent)
    if err != nil {
        // 1062 = ER_DUP_ENTRY
        if strings.Contains(err.Error(), "1062") {
            return 0, ErrUsernameExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

const userColumns = `id, username, email, password_hash, first_name, last_name, student_id, role, is_active, created_at, updated_at`

func scanUser(scan func(dest ...any) error) (model.User, error) {
    var (
        u         model.User
        studentID sql.NullString
    )
    err := scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName,
        &u.LastName, &studentID, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
    if err != nil {
        return model.User{}, err
    }
    if studentID.Valid {
        s := studentID.String
        u.StudentID = &s
    }
    return u, nil
}

// GetByUsername fetches a user by login name.  Login also accepts the email
// address, so both columns are checked.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
    username = strings.TrimSpace(username)
    return scanUser(r.DB.QueryRowContext(ctx,
        `SELECT `+userColumns+` FROM users WHERE username = ? OR email = ? LIMIT 1`,
        username, strings.ToLower(username)).Scan)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
    return scanUser(r.DB.QueryRowContext(ctx,
        `SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, id).Scan)
}
