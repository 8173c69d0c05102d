package handler_test

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/job-board/internal/repository"
)

type fakeCompanyStore struct {
	mu        sync.Mutex
	nextID    uint64
	companies map[uint64]*repository.Company
}

func newFakeCompanyStore() *fakeCompanyStore {
	return &fakeCompanyStore{nextID: 1, companies: map[uint64]*repository.Company{}}
}

func (s *fakeCompanyStore) Create(_ context.Context, c *repository.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.companies {
		if existing.Name == c.Name {
			return repository.ErrCompanyExists
		}
	}
	c.ID = s.nextID
	c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
	s.nextID++
	cp := *c
	s.companies[c.ID] = &cp
	return nil
}

func (s *fakeCompanyStore) GetByID(_ context.Context, id uint64) (*repository.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companies[id]
	if !ok {
		return nil, repository.ErrCompanyNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeCompanyStore) ListAll(_ context.Context) ([]*repository.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*repository.Company, 0, len(s.companies))
	for _, c := range s.companies {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeCompanyStore) Update(_ context.Context, c *repository.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[c.ID]; !ok {
		return repository.ErrCompanyNotFound
	}
	cp := *c
	s.companies[c.ID] = &cp
	return nil
}

func (s *fakeCompanyStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.companies, id)
	return nil
}

type fakeJobStore struct {
	mu     sync.Mutex
	nextID uint64
	jobs   map[uint64]*repository.Job
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{nextID: 1, jobs: map[uint64]*repository.Job{}}
}

func (s *fakeJobStore) Create(_ context.Context, j *repository.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j.ID = s.nextID
	j.PostedAt = time.Now()
	s.nextID++
	cp := *j
	s.jobs[j.ID] = &cp
	return nil
}

func (s *fakeJobStore) GetByID(_ context.Context, id uint64) (*repository.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, repository.ErrJobNotFound
	}
	cp := *j
	return &cp, nil
}

func (s *fakeJobStore) List(_ context.Context, f repository.JobFilter) ([]*repository.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*repository.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if f.Search != "" && !strings.Contains(strings.ToLower(j.Title), strings.ToLower(f.Search)) {
			continue
		}
		if f.Mode != "" && j.Mode != f.Mode {
			continue
		}
		if f.EmploymentType != "" && j.EmploymentType != f.EmploymentType {
			continue
		}
		cp := *j
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeJobStore) Update(_ context.Context, j *repository.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[j.ID]; !ok {
		return repository.ErrJobNotFound
	}
	cp := *j
	s.jobs[j.ID] = &cp
	return nil
}

func (s *fakeJobStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
	return nil
}

type fakeApplicationStore struct {
	mu     sync.Mutex
	nextID uint64
	apps   map[uint64]*repository.Application
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{nextID: 1, apps: map[uint64]*repository.Application{}}
}

func (s *fakeApplicationStore) Create(_ context.Context, a *repository.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.apps {
		if existing.UserID == a.UserID && existing.JobID == a.JobID {
			return repository.ErrAlreadyApplied
		}
	}
	a.ID = s.nextID
	a.Status = repository.StatusApplied
	a.AppliedAt, a.UpdatedAt = time.Now(), time.Now()
	s.nextID++
	cp := *a
	s.apps[a.ID] = &cp
	return nil
}

func (s *fakeApplicationStore) ExistsForUserAndJob(_ context.Context, userID, jobID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.apps {
		if a.UserID == userID && a.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeApplicationStore) GetByID(_ context.Context, id uint64) (*repository.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[id]
	if !ok {
		return nil, repository.ErrApplicationNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *fakeApplicationStore) ListByJob(_ context.Context, jobID uint64) ([]*repository.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*repository.Application
	for _, a := range s.apps {
		if a.JobID == jobID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeApplicationStore) ListByUser(_ context.Context, userID uint64) ([]*repository.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*repository.Application
	for _, a := range s.apps {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeApplicationStore) UpdateStatus(_ context.Context, id uint64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[id]
	if !ok {
		return repository.ErrApplicationNotFound
	}
	a.Status = status
	return nil
}

func (s *fakeApplicationStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.apps, id)
	return nil
}

// fakeResumeStore keeps uploads in memory, keyed by stored filename.
type fakeResumeStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newFakeResumeStore() *fakeResumeStore {
	return &fakeResumeStore{files: map[string][]byte{}}
}

func (s *fakeResumeStore) Save(filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[filename] = buf.Bytes()
	return "mem://" + filename, nil
}
