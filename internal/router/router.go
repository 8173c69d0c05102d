package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/job-board/internal/config"     // cache configuration for public endpoints
	"github.com/iliyamo/job-board/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/job-board/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/iliyamo/job-board/internal/repository" // role constants

	"github.com/redis/go-redis/v9" // Redis client for the response cache
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Register, login,
// refresh and logout live under /v1/auth and require no session; /v1/me
// requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, users middleware.UserStore) {
	g := e.Group("/v1/auth")
	// Create an account.  No tokens are issued here; clients log in next.
	g.POST("/register", a.Register)
	// Exchange credentials for an access/refresh pair.
	g.POST("/login", a.Login)
	// Rotate the refresh token: the presented token is consumed and a new
	// pair is returned.  A rotated or revoked token yields 401.
	g.POST("/refresh", a.Refresh)
	// Logout accepts either a refresh token in the body (revokes that one
	// session) or a bearer access token (revokes every session).
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.Authenticate(a.Cfg.AccessSecret, users))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints.  Job and
// company reads go through the Redis response cache; everything else in
// the API is per-user and is never cached.
func RegisterPublic(e *echo.Echo, co *handler.CompanyHandler, j *handler.JobHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cache := middleware.NewRedisCache(cacheCfg, rdb)

	e.GET("/v1/companies", co.List, cache)
	e.GET("/v1/companies/:id", co.Get, cache)
	// Supports ?search=&location=&mode=&employment_type=&tags=a,b&order_type=asc
	e.GET("/v1/jobs", j.List, cache)
	e.GET("/v1/jobs/:id", j.Get, cache)
}

// RegisterProtected registers every endpoint that requires a valid access
// token.  Pure role gates sit on the routes; ownership and organization
// checks run inside the handlers after the resource is loaded, so a
// missing resource reports 404 before a permission error can leak
// anything.
func RegisterProtected(e *echo.Echo, accessSecret string, users middleware.UserStore,
	uh *handler.UserHandler, co *handler.CompanyHandler, j *handler.JobHandler, ap *handler.ApplicationHandler) {

	recruiterOrAdmin := middleware.RequireRole(repository.RoleRecruiter, repository.RoleAdmin)
	candidateOnly := middleware.RequireRole(repository.RoleCandidate)
	adminOnly := middleware.RequireRole(repository.RoleAdmin)

	g := e.Group("/v1")
	g.Use(middleware.Authenticate(accessSecret, users))

	// Self-service profile.
	g.GET("/users/me", uh.GetMe)
	g.PUT("/users/me", uh.UpdateMe)
	g.DELETE("/users/me", uh.DeleteMe)
	// The caller joins an organization; membership gates job management.
	g.PUT("/users/me/organization", uh.JoinOrganization)
	g.GET("/users", uh.ListUsers, adminOnly)

	// Company management.  Reads are registered in RegisterPublic.
	g.POST("/companies", co.Create, recruiterOrAdmin)
	g.PUT("/companies/:id", co.Update, recruiterOrAdmin)
	g.DELETE("/companies/:id", co.Delete, recruiterOrAdmin)

	// Job management.
	g.POST("/jobs", j.Create, recruiterOrAdmin)
	g.PUT("/jobs/:id", j.Update, recruiterOrAdmin)
	g.DELETE("/jobs/:id", j.Delete, recruiterOrAdmin)

	// Applications.
	g.POST("/applications/jobs/:job_id", ap.Create, candidateOnly)
	g.GET("/applications/jobs/:job_id", ap.ListByJob, recruiterOrAdmin)
	g.GET("/applications/users/:user_id", ap.ListByUser, recruiterOrAdmin)
	g.GET("/applications/me", ap.ListMine)
	g.GET("/applications/:id", ap.Get)
	g.PUT("/applications/:id", ap.UpdateStatus, recruiterOrAdmin)
	g.DELETE("/applications/:id", ap.Delete, recruiterOrAdmin)
}
