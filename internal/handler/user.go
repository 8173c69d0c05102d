package handler

import (
    "context"  // provides context with cancellation for DB calls
    "errors"   // errors.Is matches repository sentinels
    "net/http" // HTTP status codes and primitives
    "strings"  // string manipulation utilities
    "time"     // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/job-board/internal/middleware" // current-user extraction
    "github.com/iliyamo/job-board/internal/repository" // DB repositories
)

// UserHandler serves the /users endpoints: self-service profile management
// plus the admin user listing.
type UserHandler struct {
	Users     UserStore
	Companies CompanyStore
}

func NewUserHandler(u UserStore, co CompanyStore) *UserHandler {
	return &UserHandler{Users: u, Companies: co}
}

// GetMe returns the caller's own profile.
func (h *UserHandler) GetMe(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, u)
}

// UpdateMe changes the caller's username and/or email.  Empty fields keep
// their current value.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" {
		username = u.Username
	}
	if email == "" {
		email = u.Email
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Update(ctx, u.ID, username, email); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username or email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	fresh, err := h.Users.GetByID(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, fresh)
}

// DeleteMe removes the caller's account along with their applications and
// refresh tokens.
func (h *UserHandler) DeleteMe(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, u.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// JoinOrganization attaches a recruiter to a company.  The company must
// exist; membership is what later grants job and application management
// rights within that organization.
func (h *UserHandler) JoinOrganization(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		CompanyID uint64 `json:"company_id"`
	}
	if err := c.Bind(&req); err != nil || req.CompanyID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Companies.GetByID(ctx, req.CompanyID); err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Users.SetOrganization(ctx, u.ID, req.CompanyID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	fresh, err := h.Users.GetByID(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, fresh)
}

// ListUsers is admin-only (enforced at the route level).
func (h *UserHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, users)
}
