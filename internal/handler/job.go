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

// JobHandler serves the /jobs endpoints.  Browsing is public; posting and
// editing require membership in the job's organization.
type JobHandler struct {
	Jobs      JobStore
	Companies CompanyStore
}

func NewJobHandler(j JobStore, co CompanyStore) *JobHandler {
	return &JobHandler{Jobs: j, Companies: co}
}

type jobReq struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Location          string   `json:"location"`
	Mode              string   `json:"mode"`
	EmploymentType    string   `json:"employment_type"`
	RemunerationRange string   `json:"remuneration_range"`
	Tags              []string `json:"tags"`
}

// Create posts a job under the caller's current organization.  Recruiters
// without an organization get a 404 for the missing company rather than a
// 403, matching the lookup order.
func (h *JobHandler) Create(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if u.CurrentOrganization == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
	}

	var req jobReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	mode := strings.ToUpper(strings.TrimSpace(req.Mode))
	if mode != "" && mode != repository.ModeOnsite && mode != repository.ModeRemote && mode != repository.ModeHybrid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mode"})
	}
	employment := strings.ToUpper(strings.TrimSpace(req.EmploymentType))
	if employment != "" && employment != repository.EmploymentFullTime &&
		employment != repository.EmploymentPartTime && employment != repository.EmploymentIntern {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid employment_type"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Companies.GetByID(ctx, *u.CurrentOrganization); err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	job := &repository.Job{
		Title:             req.Title,
		Description:       req.Description,
		Location:          req.Location,
		Mode:              mode,
		EmploymentType:    employment,
		RemunerationRange: req.RemunerationRange,
		CompanyID:         *u.CurrentOrganization,
		Tags:              req.Tags,
	}
	if err := h.Jobs.Create(ctx, job); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create job failed"})
	}
	return c.JSON(http.StatusCreated, job)
}

// Get returns one job by ID.  Public.
func (h *JobHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	job, err := h.Jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, job)
}

// List returns jobs matching the optional query filters.  Public.
func (h *JobHandler) List(c echo.Context) error {
	filter := repository.JobFilter{
		Search:         strings.TrimSpace(c.QueryParam("search")),
		Location:       strings.TrimSpace(c.QueryParam("location")),
		Mode:           strings.ToUpper(strings.TrimSpace(c.QueryParam("mode"))),
		EmploymentType: strings.ToUpper(strings.TrimSpace(c.QueryParam("employment_type"))),
		OrderType:      strings.ToLower(strings.TrimSpace(c.QueryParam("order_type"))),
	}
	if raw := c.QueryParam("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filter.Tags = append(filter.Tags, t)
			}
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	jobs, err := h.Jobs.List(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, jobs)
}

// Update edits a job.  The caller's current organization must be the
// job's company, for admins as well; existence is checked first so a
// missing job is a 404 for everyone.
func (h *JobHandler) Update(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	job, err := h.Jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !auth.InOrganization(u, job.CompanyID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
	}

	var req jobReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if title := strings.TrimSpace(req.Title); title != "" {
		job.Title = title
	}
	if req.Description != "" {
		job.Description = req.Description
	}
	if req.Location != "" {
		job.Location = req.Location
	}
	if mode := strings.ToUpper(strings.TrimSpace(req.Mode)); mode != "" {
		if mode != repository.ModeOnsite && mode != repository.ModeRemote && mode != repository.ModeHybrid {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mode"})
		}
		job.Mode = mode
	}
	if emp := strings.ToUpper(strings.TrimSpace(req.EmploymentType)); emp != "" {
		if emp != repository.EmploymentFullTime && emp != repository.EmploymentPartTime && emp != repository.EmploymentIntern {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid employment_type"})
		}
		job.EmploymentType = emp
	}
	if req.RemunerationRange != "" {
		job.RemunerationRange = req.RemunerationRange
	}
	if req.Tags != nil {
		job.Tags = req.Tags
	}

	if err := h.Jobs.Update(ctx, job); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, job)
}

// Delete removes a job and its applications.  Same organization rule as
// Update.
func (h *JobHandler) Delete(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	job, err := h.Jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !auth.InOrganization(u, job.CompanyID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
	}

	if err := h.Jobs.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
