// Package auth contains the authorization predicates applied across the
// API. Handlers compose these small pure functions into per-endpoint
// access decisions instead of repeating inline role conditionals. All
// predicates operate on the live user record resolved by the authenticator
// middleware, never on raw token claims, so role or organization changes
// take effect on the very next request.
package auth

import "github.com/iliyamo/job-board/internal/repository"

// Rule is a single access predicate over a resolved user.
type Rule func(u *repository.User) bool

// IsAdmin reports whether the user holds the ADMIN role.
func IsAdmin(u *repository.User) bool { return u != nil && u.Role == repository.RoleAdmin }

// IsRecruiter reports whether the user holds the RECRUITER role.
func IsRecruiter(u *repository.User) bool { return u != nil && u.Role == repository.RoleRecruiter }

// IsCandidate reports whether the user holds the CANDIDATE role.
func IsCandidate(u *repository.User) bool { return u != nil && u.Role == repository.RoleCandidate }

// OwnsCompany reports whether the user created (and therefore administers)
// the company.
func OwnsCompany(u *repository.User, c *repository.Company) bool {
	return u != nil && c != nil && u.ID == c.OwnerID
}

// InOrganization reports whether the user's current organization is the
// given company. Users without an organization are never members.
func InOrganization(u *repository.User, companyID uint64) bool {
	return u != nil && u.CurrentOrganization != nil && *u.CurrentOrganization == companyID
}

// AnyOf combines rules with OR: the composed rule passes as soon as one of
// its parts does.
func AnyOf(rules ...Rule) Rule {
	return func(u *repository.User) bool {
		for _, r := range rules {
			if r(u) {
				return true
			}
		}
		return false
	}
}

// RecruiterOrAdmin gates the endpoints restricted to hiring staff: company
// creation, job management and application review.
var RecruiterOrAdmin = AnyOf(IsRecruiter, IsAdmin)
