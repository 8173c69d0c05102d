package handler

import (
    "context"  // provides context with cancellation for DB calls
    "errors"   // errors.Is matches repository sentinels
    "net/http" // HTTP status codes and primitives
    "strconv"  // string-to-int conversion
    "strings"  // string manipulation utilities
    "time"     // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/job-board/internal/auth"       // authorization predicates
    "github.com/iliyamo/job-board/internal/middleware" // current-user extraction
    "github.com/iliyamo/job-board/internal/repository" // DB repositories
)

// CompanyHandler serves the /companies endpoints.  Reads are public;
// creation is limited to recruiters and admins at the route level, and
// mutation of an existing company requires ownership or ADMIN.
type CompanyHandler struct {
	Companies CompanyStore
	Users     UserStore
}

func NewCompanyHandler(co CompanyStore, u UserStore) *CompanyHandler {
	return &CompanyHandler{Companies: co, Users: u}
}

type companyReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Location    string `json:"location"`
	Domain      string `json:"domain"`
	CompanySize int    `json:"company_size"`
}

// Create registers a company owned by the caller.  The owner is also made
// a member of the new organization so they can post jobs right away.
func (h *CompanyHandler) Create(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req companyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	company := &repository.Company{
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
		Location:    req.Location,
		Domain:      req.Domain,
		CompanySize: req.CompanySize,
		OwnerID:     u.ID,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Companies.Create(ctx, company); err != nil {
		if errors.Is(err, repository.ErrCompanyExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "company name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create company failed"})
	}
	if err := h.Users.SetOrganization(ctx, u.ID, company.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update owner failed"})
	}

	return c.JSON(http.StatusCreated, company)
}

// Get returns one company by ID.  Public.
func (h *CompanyHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	company, err := h.Companies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, company)
}

// List returns all companies.  Public.
func (h *CompanyHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	companies, err := h.Companies.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, companies)
}

// Update edits the descriptive fields of a company.  Existence is checked
// before ownership so a missing company reports 404 even to non-owners.
func (h *CompanyHandler) Update(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	company, err := h.Companies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !auth.OwnsCompany(u, company) && !auth.IsAdmin(u) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
	}

	var req companyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		company.Name = name
	}
	if req.Description != "" {
		company.Description = req.Description
	}
	if req.Website != "" {
		company.Website = req.Website
	}
	if req.Location != "" {
		company.Location = req.Location
	}
	if req.Domain != "" {
		company.Domain = req.Domain
	}
	if req.CompanySize != 0 {
		company.CompanySize = req.CompanySize
	}

	if err := h.Companies.Update(ctx, company); err != nil {
		if errors.Is(err, repository.ErrCompanyExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "company name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, company)
}

// Delete removes a company together with its jobs and their applications.
// Members pointing at the deleted organization are detached.
func (h *CompanyHandler) Delete(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	company, err := h.Companies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !auth.OwnsCompany(u, company) && !auth.IsAdmin(u) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
	}

	if err := h.Companies.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
