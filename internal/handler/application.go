package handler

import (
    "context"       // provides context with cancellation for DB calls
    "errors"        // errors.Is matches repository sentinels
    "fmt"           // resume filename formatting
    "net/http"      // HTTP status codes and primitives
    "path/filepath" // sanitizes uploaded filenames
    "strconv"       // string-to-int conversion
    "strings"       // string manipulation utilities
    "time"          // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/job-board/internal/auth"            // authorization predicates
    "github.com/iliyamo/job-board/internal/middleware"      // current-user extraction
    "github.com/iliyamo/job-board/internal/queue"           // event payloads
    "github.com/iliyamo/job-board/internal/repository"      // DB repositories
    publisher "github.com/iliyamo/job-board/internal/service" // queue publisher
    "github.com/iliyamo/job-board/internal/storage"         // resume persistence
)

// ApplicationHandler serves the /applications endpoints.  Candidates
// submit and read their own applications; review operations (listing,
// status updates, deletion) are open to recruiters and admins.
type ApplicationHandler struct {
	Applications ApplicationStore
	Jobs         JobStore
	Companies    CompanyStore
	Resumes      storage.ResumeStore
}

func NewApplicationHandler(a ApplicationStore, j JobStore, co CompanyStore, r storage.ResumeStore) *ApplicationHandler {
	return &ApplicationHandler{Applications: a, Jobs: j, Companies: co, Resumes: r}
}

// canView reports whether u may read a single application for this job:
// a recruiter in the job's organization, or an admin.  Listing and status
// updates are gated by role alone at the route level.
func canView(u *repository.User, job *repository.Job) bool {
	if auth.IsAdmin(u) {
		return true
	}
	return auth.IsRecruiter(u) && auth.InOrganization(u, job.CompanyID)
}

// Create submits an application to a job.  The request is multipart: a
// "resume" file plus an optional "message" field.  One application per
// user per job; a duplicate is rejected before anything is written.
func (h *ApplicationHandler) Create(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	jobID, err := strconv.ParseUint(c.Param("job_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	job, err := h.Jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	exists, err := h.Applications.ExistsForUserAndJob(ctx, u.ID, jobID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if exists {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "already applied to this job"})
	}

	company, err := h.Companies.GetByID(ctx, job.CompanyID)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "resume file required"})
	}
	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read resume"})
	}
	defer src.Close()

	// Stored under a name that encodes who applied to what; the original
	// filename is preserved for display only.
	original := filepath.Base(file.Filename)
	stored := fmt.Sprintf("%d_%d_%s", u.ID, jobID, original)
	path, err := h.Resumes.Save(stored, src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save resume failed"})
	}

	app := &repository.Application{
		UserID:         u.ID,
		JobID:          jobID,
		ResumeFilename: original,
		ResumePath:     path,
		Message:        strings.TrimSpace(c.FormValue("message")),
	}
	if err := h.Applications.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrAlreadyApplied) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "already applied to this job"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create application failed"})
	}

	// Fire and forget: a broker outage must not fail the submission.
	event := queue.ApplicationSubmittedEvent{
		ApplicationID: app.ID,
		UserID:        u.ID,
		JobID:         jobID,
		JobTitle:      job.Title,
		CompanyID:     company.ID,
		CompanyName:   company.Name,
		ResumeName:    original,
		AppliedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pubCancel()
		_ = publisher.PublishApplicationSubmitted(pubCtx, event)
	}()

	return c.JSON(http.StatusCreated, app)
}

// Get returns one application.  Visible to the candidate who submitted
// it, recruiters in the job's organization, and admins.
func (h *ApplicationHandler) Get(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid application id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	app, err := h.Applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if app.UserID != u.ID {
		job, err := h.Jobs.GetByID(ctx, app.JobID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if !canView(u, job) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
		}
	}
	return c.JSON(http.StatusOK, app)
}

// ListByJob returns all applications for a job.  Restricted to recruiters
// and admins at the route level.
func (h *ApplicationHandler) ListByJob(c echo.Context) error {
	jobID, err := strconv.ParseUint(c.Param("job_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Jobs.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	apps, err := h.Applications.ListByJob(ctx, jobID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, apps)
}

// ListByUser returns every application a given user has submitted.
// Restricted to recruiters and admins at the route level; it is the
// candidate-history view used during review.
func (h *ApplicationHandler) ListByUser(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	apps, err := h.Applications.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, apps)
}

// ListMine returns the caller's own applications.
func (h *ApplicationHandler) ListMine(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	apps, err := h.Applications.ListByUser(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, apps)
}

// UpdateStatus moves an application through its review lifecycle.
// Restricted to recruiters and admins at the route level.
func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid application id"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !repository.ValidStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	app, err := h.Applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Applications.UpdateStatus(ctx, id, status); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	app.Status = status
	return c.JSON(http.StatusOK, app)
}

// Delete removes an application.  Restricted to recruiters and admins at
// the route level; the role gate runs before the existence lookup.
func (h *ApplicationHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid application id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Applications.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Applications.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
