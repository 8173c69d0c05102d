package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/job-board/internal/auth"
	"github.com/iliyamo/job-board/internal/repository"
)

func userWithRole(role string) *repository.User {
	return &repository.User{ID: 1, Role: role}
}

func TestRolePredicatesAreExclusive(t *testing.T) {
	cases := []struct {
		role                           string
		admin, recruiter, candidate bool
	}{
		{repository.RoleAdmin, true, false, false},
		{repository.RoleRecruiter, false, true, false},
		{repository.RoleCandidate, false, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			u := userWithRole(tc.role)
			assert.Equal(t, tc.admin, auth.IsAdmin(u))
			assert.Equal(t, tc.recruiter, auth.IsRecruiter(u))
			assert.Equal(t, tc.candidate, auth.IsCandidate(u))
		})
	}
}

func TestPredicatesHandleNilUser(t *testing.T) {
	assert.False(t, auth.IsAdmin(nil))
	assert.False(t, auth.IsRecruiter(nil))
	assert.False(t, auth.IsCandidate(nil))
	assert.False(t, auth.OwnsCompany(nil, &repository.Company{}))
	assert.False(t, auth.InOrganization(nil, 1))
	assert.False(t, auth.RecruiterOrAdmin(nil))
}

func TestOwnsCompany(t *testing.T) {
	owner := &repository.User{ID: 10, Role: repository.RoleRecruiter}
	other := &repository.User{ID: 11, Role: repository.RoleRecruiter}
	company := &repository.Company{ID: 3, OwnerID: 10}

	assert.True(t, auth.OwnsCompany(owner, company))
	assert.False(t, auth.OwnsCompany(other, company))
	assert.False(t, auth.OwnsCompany(owner, nil))
}

func TestInOrganization(t *testing.T) {
	org := uint64(5)
	member := &repository.User{ID: 1, Role: repository.RoleRecruiter, CurrentOrganization: &org}
	loner := &repository.User{ID: 2, Role: repository.RoleRecruiter}

	assert.True(t, auth.InOrganization(member, 5))
	assert.False(t, auth.InOrganization(member, 6))
	// No organization means no membership anywhere.
	assert.False(t, auth.InOrganization(loner, 5))
}

func TestAnyOf(t *testing.T) {
	assert.True(t, auth.RecruiterOrAdmin(userWithRole(repository.RoleAdmin)))
	assert.True(t, auth.RecruiterOrAdmin(userWithRole(repository.RoleRecruiter)))
	assert.False(t, auth.RecruiterOrAdmin(userWithRole(repository.RoleCandidate)))

	never := auth.AnyOf()
	assert.False(t, never(userWithRole(repository.RoleAdmin)))
}
