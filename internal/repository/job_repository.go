// This file defines the Job model and repository methods. Jobs are always
// scoped to a company; the posting recruiter's current organization decides
// which company a job belongs to.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Work mode values stored in jobs.mode.
const (
	ModeOnsite = "ONSITE"
	ModeRemote = "REMOTE"
	ModeHybrid = "HYBRID"
)

// Employment type values stored in jobs.employment_type.
const (
	EmploymentFullTime = "FULL_TIME"
	EmploymentPartTime = "PART_TIME"
	EmploymentIntern   = "INTERN"
)

// Job represents a job posting. Tags are stored as a JSON array column and
// marshalled transparently by the repository.
type Job struct {
	ID                uint64    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Location          string    `json:"location"`
	Mode              string    `json:"mode"`
	EmploymentType    string    `json:"employment_type"`
	RemunerationRange string    `json:"remuneration_range"`
	CompanyID         uint64    `json:"company_id"`
	Tags              []string  `json:"tags"`
	PostedAt          time.Time `json:"posted_at"`
}

// ErrJobNotFound is returned when a job cannot be found in the DB.
var ErrJobNotFound = errors.New("job not found")

// JobFilter captures the optional query parameters of the job list
// endpoint. Zero values mean "no filter". OrderType is "asc" or "desc"
// (default) and orders by posted_at.
type JobFilter struct {
	Search         string
	Location       string
	Mode           string
	EmploymentType string
	Tags           []string
	OrderType      string
}

// JobRepo encapsulates all database queries related to jobs.
type JobRepo struct {
	db *sql.DB
}

// NewJobRepo constructs a JobRepo with the provided DB handle.
func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{db: db}
}

const jobCols = "id, title, description, location, mode, employment_type, remuneration_range, company_id, tags, posted_at"

// Create inserts a new job. On success the job's ID and PostedAt fields
// are populated.
func (r *JobRepo) Create(ctx context.Context, j *Job) error {
	tags, err := json.Marshal(j.Tags)
	if err != nil {
		return err
	}
	const qInsert = `INSERT INTO jobs (title, description, location, mode, employment_type, remuneration_range, company_id, tags)
	                 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		j.Title, j.Description, j.Location, j.Mode, j.EmploymentType,
		j.RemunerationRange, j.CompanyID, tags)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	j.ID = uint64(id)
	const qSelect = "SELECT posted_at FROM jobs WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, j.ID).Scan(&j.PostedAt)
}

// GetByID fetches a job by its ID. It returns ErrJobNotFound if no row is
// found.
func (r *JobRepo) GetByID(ctx context.Context, id uint64) (*Job, error) {
	const q = "SELECT " + jobCols + " FROM jobs WHERE id = ?"
	var (
		j    Job
		tags []byte
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&j.ID, &j.Title, &j.Description, &j.Location, &j.Mode, &j.EmploymentType,
		&j.RemunerationRange, &j.CompanyID, &tags, &j.PostedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &j.Tags); err != nil {
			return nil, err
		}
	}
	return &j, nil
}

// List returns jobs matching the filter, newest first unless asc ordering
// is requested. Search matches title and description case-insensitively;
// the tags filter requires every given tag to be present in the job's tag
// array.
func (r *JobRepo) List(ctx context.Context, f JobFilter) ([]*Job, error) {
	q := "SELECT " + jobCols + " FROM jobs WHERE 1=1"
	var args []any
	if f.Search != "" {
		q += " AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ?)"
		p := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, p, p)
	}
	if f.Location != "" {
		q += " AND LOWER(location) LIKE ?"
		args = append(args, "%"+strings.ToLower(f.Location)+"%")
	}
	if f.Mode != "" {
		q += " AND mode = ?"
		args = append(args, f.Mode)
	}
	if f.EmploymentType != "" {
		q += " AND employment_type = ?"
		args = append(args, f.EmploymentType)
	}
	for _, tag := range f.Tags {
		q += " AND JSON_CONTAINS(tags, JSON_QUOTE(?))"
		args = append(args, tag)
	}
	if f.OrderType == "asc" {
		q += " ORDER BY posted_at ASC"
	} else {
		q += " ORDER BY posted_at DESC"
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Job
	for rows.Next() {
		var (
			j    Job
			tags []byte
		)
		if err := rows.Scan(&j.ID, &j.Title, &j.Description, &j.Location, &j.Mode,
			&j.EmploymentType, &j.RemunerationRange, &j.CompanyID, &tags, &j.PostedAt); err != nil {
			return nil, err
		}
		if len(tags) > 0 {
			if err := json.Unmarshal(tags, &j.Tags); err != nil {
				return nil, err
			}
		}
		out = append(out, &j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites the mutable fields of a job. It returns ErrJobNotFound
// when no row is affected.
func (r *JobRepo) Update(ctx context.Context, j *Job) error {
	tags, err := json.Marshal(j.Tags)
	if err != nil {
		return err
	}
	const q = `UPDATE jobs
	           SET title = ?, description = ?, location = ?, mode = ?, employment_type = ?,
	               remuneration_range = ?, tags = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		j.Title, j.Description, j.Location, j.Mode, j.EmploymentType,
		j.RemunerationRange, tags, j.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrJobNotFound
	}
	return nil
}

// Delete removes a job and all applications submitted for it, within a
// transaction.
func (r *JobRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
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
	if _, err = tx.ExecContext(ctx, "DELETE FROM applications WHERE job_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrJobNotFound
	}
	return nil
}
