// This file defines the Company model and repository methods for CRUD and
// lookup operations. A Company is created by a recruiter or admin; its
// owner_id column is the sole source of truth for who may administer it.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to define custom error values
	"strings"      // strings detects duplicate-key errors
	"time"
)

// Company represents a company entity persisted in the database. Each
// company belongs to a single owner and may post multiple jobs. The ID
// field is the primary key and is auto-incremented by the DB.
type Company struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Website     string    `json:"website"`
	Location    string    `json:"location"`
	Domain      string    `json:"domain"`
	CompanySize int       `json:"company_size"`
	OwnerID     uint64    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var (
	// ErrCompanyNotFound is returned when a company cannot be found in the DB.
	ErrCompanyNotFound = errors.New("company not found")
	// ErrCompanyExists is returned when a company name is already taken.
	ErrCompanyExists = errors.New("company already exists")
)

// CompanyRepo encapsulates all database queries related to companies.
type CompanyRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewCompanyRepo constructs a CompanyRepo with the provided DB handle.
func NewCompanyRepo(db *sql.DB) *CompanyRepo {
	return &CompanyRepo{db: db}
}

const companyCols = "id, name, description, website, location, domain, company_size, owner_id, created_at, updated_at"

// Create inserts a new company.  On success the company's ID, CreatedAt
// and UpdatedAt fields are populated.  Name uniqueness is enforced by the
// database; a duplicate surfaces as ErrCompanyExists.
func (r *CompanyRepo) Create(ctx context.Context, c *Company) error {
	const qInsert = `INSERT INTO companies (name, description, website, location, domain, company_size, owner_id)
	                 VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		c.Name, c.Description, c.Website, c.Location, c.Domain, c.CompanySize, c.OwnerID)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrCompanyExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)

	// Follow-up SELECT to populate default timestamp fields.
	const qSelect = "SELECT created_at, updated_at FROM companies WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, c.ID).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a company by its ID.  It returns ErrCompanyNotFound if
// no row is found.
func (r *CompanyRepo) GetByID(ctx context.Context, id uint64) (*Company, error) {
	const q = "SELECT " + companyCols + " FROM companies WHERE id = ?"
	var c Company
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.Website, &c.Location, &c.Domain,
		&c.CompanySize, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListAll returns all companies ordered by id.  Used by the public browse
// endpoint; no authentication is required to view companies.
func (r *CompanyRepo) ListAll(ctx context.Context) ([]*Company, error) {
	const q = "SELECT " + companyCols + " FROM companies ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Company
	for rows.Next() {
		c := new(Company)
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Website, &c.Location,
			&c.Domain, &c.CompanySize, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites the descriptive fields of a company.  Ownership is
// enforced by the handler before this is called.  It returns
// ErrCompanyNotFound when no row is affected and ErrCompanyExists when the
// new name collides with another company.
func (r *CompanyRepo) Update(ctx context.Context, c *Company) error {
	const q = `UPDATE companies
	           SET name = ?, description = ?, website = ?, location = ?, domain = ?,
	               company_size = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		c.Name, c.Description, c.Website, c.Location, c.Domain, c.CompanySize, c.ID)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrCompanyExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

// Delete removes a company and all dependent records: applications for the
// company's jobs, the jobs themselves, and the membership references of
// every user whose current_organization points at the company (those are
// cleared to NULL, not deleted). The whole sequence runs in a transaction
// to maintain integrity.
func (r *CompanyRepo) Delete(ctx context.Context, id uint64) (err error) {
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
	// Verify the company exists before touching dependents.
	var exists uint64
	if err = tx.QueryRowContext(ctx, "SELECT id FROM companies WHERE id = ?", id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCompanyNotFound
		}
		return err
	}
	// Remove applications for jobs posted by this company.
	if _, err = tx.ExecContext(ctx,
		`DELETE a FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 WHERE j.company_id = ?`, id); err != nil {
		return err
	}
	// Remove the company's jobs.
	if _, err = tx.ExecContext(ctx, "DELETE FROM jobs WHERE company_id = ?", id); err != nil {
		return err
	}
	// Detach every member: their current_organization becomes NULL.
	if _, err = tx.ExecContext(ctx,
		"UPDATE users SET current_organization = NULL WHERE current_organization = ?", id); err != nil {
		return err
	}
	// Finally delete the company itself.
	if _, err = tx.ExecContext(ctx, "DELETE FROM companies WHERE id = ?", id); err != nil {
		return err
	}
	return nil
}
