// This file defines the Application model and repository methods. An
// application links a candidate to a job together with the uploaded resume
// and a review status. A user may apply to a given job at most once; the
// database enforces this with a unique (user_id, job_id) index.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Application status values stored in applications.status.
const (
	StatusApplied     = "APPLIED"
	StatusUnderReview = "UNDER_REVIEW"
	StatusAccepted    = "ACCEPTED"
	StatusRejected    = "REJECTED"
)

// ValidStatus reports whether s is one of the known application statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusApplied, StatusUnderReview, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Application represents one candidate's application to one job.
type Application struct {
	ID             uint64    `json:"id"`
	UserID         uint64    `json:"user_id"`
	JobID          uint64    `json:"job_id"`
	ResumeFilename string    `json:"resume_filename"`
	ResumePath     string    `json:"-"`
	Message        string    `json:"message"`
	Status         string    `json:"status"`
	AppliedAt      time.Time `json:"applied_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

var (
	// ErrApplicationNotFound is returned when an application cannot be found.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrAlreadyApplied is returned when the candidate already has an
	// application for the job.
	ErrAlreadyApplied = errors.New("user already applied")
)

// ApplicationRepo encapsulates all database queries related to applications.
type ApplicationRepo struct {
	db *sql.DB
}

// NewApplicationRepo constructs an ApplicationRepo with the provided DB handle.
func NewApplicationRepo(db *sql.DB) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

const applicationCols = "id, user_id, job_id, resume_filename, resume_path, message, status, applied_at, updated_at"

// Create inserts a new application with status APPLIED. A duplicate
// (user_id, job_id) pair surfaces as ErrAlreadyApplied.
func (r *ApplicationRepo) Create(ctx context.Context, a *Application) error {
	a.Status = StatusApplied
	const qInsert = `INSERT INTO applications (user_id, job_id, resume_filename, resume_path, message, status)
	                 VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		a.UserID, a.JobID, a.ResumeFilename, a.ResumePath, a.Message, a.Status)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrAlreadyApplied
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	const qSelect = "SELECT applied_at, updated_at FROM applications WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, a.ID).Scan(&a.AppliedAt, &a.UpdatedAt)
}

// ExistsForUserAndJob reports whether the user already applied to the job.
func (r *ApplicationRepo) ExistsForUserAndJob(ctx context.Context, userID, jobID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM applications WHERE user_id = ? AND job_id = ? LIMIT 1",
		userID, jobID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByID fetches an application by its ID. It returns
// ErrApplicationNotFound if no row is found.
func (r *ApplicationRepo) GetByID(ctx context.Context, id uint64) (*Application, error) {
	const q = "SELECT " + applicationCols + " FROM applications WHERE id = ?"
	var a Application
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.UserID, &a.JobID, &a.ResumeFilename, &a.ResumePath,
		&a.Message, &a.Status, &a.AppliedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListByJob returns all applications submitted for a job.
func (r *ApplicationRepo) ListByJob(ctx context.Context, jobID uint64) ([]*Application, error) {
	const q = "SELECT " + applicationCols + " FROM applications WHERE job_id = ? ORDER BY id"
	return r.list(ctx, q, jobID)
}

// ListByUser returns all applications submitted by a user.
func (r *ApplicationRepo) ListByUser(ctx context.Context, userID uint64) ([]*Application, error) {
	const q = "SELECT " + applicationCols + " FROM applications WHERE user_id = ? ORDER BY id"
	return r.list(ctx, q, userID)
}

func (r *ApplicationRepo) list(ctx context.Context, q string, arg any) ([]*Application, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Application
	for rows.Next() {
		a := new(Application)
		if err := rows.Scan(&a.ID, &a.UserID, &a.JobID, &a.ResumeFilename, &a.ResumePath,
			&a.Message, &a.Status, &a.AppliedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves an application to a new review status. It returns
// ErrApplicationNotFound when no row is affected.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE applications SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

// Delete removes an application. It returns ErrApplicationNotFound when no
// row is affected.
func (r *ApplicationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM applications WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
