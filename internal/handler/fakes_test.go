package handler_test

// In-memory stand-ins for the store interfaces. They keep just enough
// state to drive the HTTP handlers through httptest without MySQL.

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/job-board/internal/repository"
	"github.com/iliyamo/job-board/internal/utils"
)

type fakeUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]*repository.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: map[uint64]*repository.User{}}
}

func (s *fakeUserStore) add(username, email, password, role string) *repository.User {
	hash, _ := utils.HashPassword(password, 4)
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &repository.User{
		ID: s.nextID, Username: username, Email: email,
		PasswordHash: hash, Role: role,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	s.users[u.ID] = u
	s.nextID++
	return u
}

func (s *fakeUserStore) Create(_ context.Context, username, email, password, role string, _ int) (uint64, error) {
	s.mu.Lock()
	for _, u := range s.users {
		if u.Email == email || u.Username == username {
			s.mu.Unlock()
			return 0, repository.ErrUserExists
		}
	}
	s.mu.Unlock()
	return s.add(username, email, password, role).ID, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) Update(_ context.Context, id uint64, username, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Username, u.Email = username, email
	return nil
}

func (s *fakeUserStore) SetOrganization(_ context.Context, id, companyID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	org := companyID
	u.CurrentOrganization = &org
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

// clearOrganization detaches every member of a company, the way the
// company delete transaction does against MySQL.
func (s *fakeUserStore) clearOrganization(companyID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.CurrentOrganization != nil && *u.CurrentOrganization == companyID {
			u.CurrentOrganization = nil
		}
	}
}

func (s *fakeUserStore) ListAll(_ context.Context) ([]*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*repository.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

type tokenRow struct {
	userID  uint64
	exp     time.Time
	revoked bool
}

type fakeTokenStore struct {
	mu   sync.Mutex
	rows map[string]*tokenRow
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{rows: map[string]*tokenRow{}}
}

func (s *fakeTokenStore) Store(_ context.Context, tokenID string, userID uint64, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[tokenID] = &tokenRow{userID: userID, exp: exp}
	return nil
}

// Rotate mirrors the SQL transaction: the old row must still exist and be
// unrevoked, and it is gone once the new row is in.
func (s *fakeTokenStore) Rotate(_ context.Context, oldTokenID, newTokenID string, userID uint64, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[oldTokenID]
	if !ok || row.revoked {
		return repository.ErrTokenNotFound
	}
	delete(s.rows, oldTokenID)
	s.rows[newTokenID] = &tokenRow{userID: userID, exp: exp}
	return nil
}

func (s *fakeTokenStore) RevokeByTokenID(_ context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[tokenID]
	if !ok || row.revoked {
		return repository.ErrTokenNotFound
	}
	row.revoked = true
	return nil
}

func (s *fakeTokenStore) RevokeAllForUser(_ context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.userID == userID {
			row.revoked = true
		}
	}
	return nil
}

func (s *fakeTokenStore) has(tokenID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[tokenID]
	return ok && !row.revoked
}
