package handler // handler defines http handlers

// The handlers depend on narrow store interfaces rather than the concrete
// repository types so that tests can substitute in-memory fakes. The
// repositories in internal/repository satisfy these interfaces.

import (
	"context"
	"time"

	"github.com/iliyamo/job-board/internal/repository"
)

// UserStore covers the user lookups and mutations the handlers need.
type UserStore interface {
	Create(ctx context.Context, username, email, password, role string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (*repository.User, error)
	GetByID(ctx context.Context, id uint64) (*repository.User, error)
	Update(ctx context.Context, id uint64, username, email string) error
	SetOrganization(ctx context.Context, id, companyID uint64) error
	Delete(ctx context.Context, id uint64) error
	ListAll(ctx context.Context) ([]*repository.User, error)
}

// TokenStore persists refresh-token metadata.
type TokenStore interface {
	Store(ctx context.Context, tokenID string, userID uint64, exp time.Time) error
	Rotate(ctx context.Context, oldTokenID, newTokenID string, userID uint64, exp time.Time) error
	RevokeByTokenID(ctx context.Context, tokenID string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// CompanyStore covers company persistence.
type CompanyStore interface {
	Create(ctx context.Context, c *repository.Company) error
	GetByID(ctx context.Context, id uint64) (*repository.Company, error)
	ListAll(ctx context.Context) ([]*repository.Company, error)
	Update(ctx context.Context, c *repository.Company) error
	Delete(ctx context.Context, id uint64) error
}

// JobStore covers job persistence.
type JobStore interface {
	Create(ctx context.Context, j *repository.Job) error
	GetByID(ctx context.Context, id uint64) (*repository.Job, error)
	List(ctx context.Context, f repository.JobFilter) ([]*repository.Job, error)
	Update(ctx context.Context, j *repository.Job) error
	Delete(ctx context.Context, id uint64) error
}

// ApplicationStore covers application persistence.
type ApplicationStore interface {
	Create(ctx context.Context, a *repository.Application) error
	ExistsForUserAndJob(ctx context.Context, userID, jobID uint64) (bool, error)
	GetByID(ctx context.Context, id uint64) (*repository.Application, error)
	ListByJob(ctx context.Context, jobID uint64) ([]*repository.Application, error)
	ListByUser(ctx context.Context, userID uint64) ([]*repository.Application, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	Delete(ctx context.Context, id uint64) error
}
