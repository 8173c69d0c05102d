package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/job-board/internal/utils"
)

// Role values stored in the users.role column.  The set is closed: every
// user carries exactly one of these.
const (
	RoleAdmin     = "ADMIN"
	RoleRecruiter = "RECRUITER"
	RoleCandidate = "CANDIDATE"
)

// User mirrors the 'users' table.  CurrentOrganization references the
// company the user currently belongs to and is nil for users without an
// organization.
type User struct {
	ID                  uint64    `json:"id"`
	Username            string    `json:"username"`
	Email               string    `json:"email"`
	PasswordHash        string    `json:"-"`
	Role                string    `json:"role"`
	CurrentOrganization *uint64   `json:"current_organization"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var (
	ErrUserExists   = errors.New("username or email already exists")
	ErrUserNotFound = errors.New("user not found")
)

// Create inserts a user and returns its ID.  The plaintext password is
// hashed with bcrypt before it touches the database.
func (r *UserRepo) Create(ctx context.Context, username, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role) VALUES (?,?,?,?)",
		username, email, hash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrUserExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(ctx,
		"SELECT id,username,email,password_hash,role,current_organization,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*User, error) {
	return r.scanOne(ctx,
		"SELECT id,username,email,password_hash,role,current_organization,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id)
}

func (r *UserRepo) scanOne(ctx context.Context, query string, arg any) (*User, error) {
	var (
		u   User
		org sql.NullInt64
	)
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &org, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if org.Valid {
		v := uint64(org.Int64)
		u.CurrentOrganization = &v
	}
	return &u, nil
}

// Update changes the mutable profile fields.  Returns ErrUserNotFound when
// no row was affected and ErrUserExists when the new username or email
// collides with another account.
func (r *UserRepo) Update(ctx context.Context, id uint64, username, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET username=?, email=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		username, email, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrUserExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetOrganization points the user's current_organization at a company.
func (r *UserRepo) SetOrganization(ctx context.Context, id, companyID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET current_organization=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		companyID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes a user together with their applications and refresh
// tokens.  Runs inside a transaction so a partial delete never survives.
func (r *UserRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx, "DELETE FROM applications WHERE user_id=?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE user_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListAll returns every user ordered by id.  Admin-only at the API layer.
func (r *UserRepo) ListAll(ctx context.Context) ([]*User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,username,email,password_hash,role,current_organization,created_at,updated_at FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*User
	for rows.Next() {
		var (
			u   User
			org sql.NullInt64
		)
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &org, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		if org.Valid {
			v := uint64(org.Int64)
			u.CurrentOrganization = &v
		}
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
