package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/job-board/internal/handler"
	"github.com/iliyamo/job-board/internal/middleware"
	"github.com/iliyamo/job-board/internal/repository"
)

// cascadeCompanyStore mirrors the company delete transaction: removing a
// company also detaches every user whose current organization it was.
type cascadeCompanyStore struct {
	*fakeCompanyStore
	users *fakeUserStore
}

func (s *cascadeCompanyStore) Delete(ctx context.Context, id uint64) error {
	s.users.clearOrganization(id)
	return s.fakeCompanyStore.Delete(ctx, id)
}

// companyFixture stands up the company and user endpoints with the full
// middleware chain: an owner recruiter, a second recruiter, a candidate
// and an admin.
type companyFixture struct {
	e         *echo.Echo
	users     *fakeUserStore
	owner     tokenPair
	recruiter tokenPair
	candidate tokenPair
	admin     tokenPair
}

func newCompanyFixture(t *testing.T) *companyFixture {
	t.Helper()
	cfg := testConfig()
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	companies := &cascadeCompanyStore{fakeCompanyStore: newFakeCompanyStore(), users: users}

	a := handler.NewAuthHandler(cfg, users, tokens)
	co := handler.NewCompanyHandler(companies, users)
	uh := handler.NewUserHandler(users, companies)

	e := echo.New()
	e.POST("/v1/auth/login", a.Login)
	e.GET("/v1/companies/:id", co.Get)

	recruiterOrAdmin := middleware.RequireRole(repository.RoleRecruiter, repository.RoleAdmin)

	g := e.Group("/v1")
	g.Use(middleware.Authenticate(cfg.AccessSecret, users))
	g.GET("/users/me", uh.GetMe)
	g.PUT("/users/me/organization", uh.JoinOrganization)
	g.POST("/companies", co.Create, recruiterOrAdmin)
	g.PUT("/companies/:id", co.Update, recruiterOrAdmin)
	g.DELETE("/companies/:id", co.Delete, recruiterOrAdmin)

	users.add("olga", "olga@example.com", "pw", repository.RoleRecruiter)
	users.add("rui", "rui@example.com", "pw", repository.RoleRecruiter)
	users.add("cam", "cam@example.com", "pw", repository.RoleCandidate)
	users.add("ana", "ana@example.com", "pw", repository.RoleAdmin)

	return &companyFixture{
		e:         e,
		users:     users,
		owner:     login(t, e, "olga@example.com", "pw"),
		recruiter: login(t, e, "rui@example.com", "pw"),
		candidate: login(t, e, "cam@example.com", "pw"),
		admin:     login(t, e, "ana@example.com", "pw"),
	}
}

func (f *companyFixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *companyFixture) createCompany(t *testing.T, token, name string) repository.Company {
	t.Helper()
	rec := f.do(http.MethodPost, "/v1/companies", token, `{"name":"`+name+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var c repository.Company
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	return c
}

func (f *companyFixture) currentOrg(t *testing.T, token string) *uint64 {
	t.Helper()
	rec := f.do(http.MethodGet, "/v1/users/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var u repository.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	return u.CurrentOrganization
}

func TestCompanyCreation(t *testing.T) {
	f := newCompanyFixture(t)

	t.Run("recruiter creates and becomes a member", func(t *testing.T) {
		c := f.createCompany(t, f.owner.AccessToken, "Globex")
		assert.NotZero(t, c.ID)

		org := f.currentOrg(t, f.owner.AccessToken)
		require.NotNil(t, org)
		assert.Equal(t, c.ID, *org)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/v1/companies", f.recruiter.AccessToken, `{"name":"Globex"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("candidate is role-gated", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/v1/companies", f.candidate.AccessToken, `{"name":"CamCo"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("name required", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/v1/companies", f.recruiter.AccessToken, `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestJoinOrganization(t *testing.T) {
	f := newCompanyFixture(t)
	c := f.createCompany(t, f.owner.AccessToken, "Globex")

	t.Run("candidate joins an existing company", func(t *testing.T) {
		rec := f.do(http.MethodPut, "/v1/users/me/organization", f.candidate.AccessToken,
			`{"company_id":`+strconv.FormatUint(c.ID, 10)+`}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		org := f.currentOrg(t, f.candidate.AccessToken)
		require.NotNil(t, org)
		assert.Equal(t, c.ID, *org)
	})

	t.Run("missing company is 404", func(t *testing.T) {
		rec := f.do(http.MethodPut, "/v1/users/me/organization", f.recruiter.AccessToken,
			`{"company_id":999}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("company_id required", func(t *testing.T) {
		rec := f.do(http.MethodPut, "/v1/users/me/organization", f.recruiter.AccessToken, `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCompanyUpdateAuthorization(t *testing.T) {
	f := newCompanyFixture(t)
	c := f.createCompany(t, f.owner.AccessToken, "Globex")
	path := "/v1/companies/" + strconv.FormatUint(c.ID, 10)

	t.Run("owner updates", func(t *testing.T) {
		rec := f.do(http.MethodPut, path, f.owner.AccessToken, `{"description":"industrial"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got repository.Company
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "industrial", got.Description)
	})

	t.Run("non-owner recruiter is forbidden", func(t *testing.T) {
		rec := f.do(http.MethodPut, path, f.recruiter.AccessToken, `{"description":"x"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin may update any company", func(t *testing.T) {
		rec := f.do(http.MethodPut, path, f.admin.AccessToken, `{"location":"Lisbon"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing company reports 404 before permissions", func(t *testing.T) {
		rec := f.do(http.MethodPut, "/v1/companies/999", f.recruiter.AccessToken, `{"description":"x"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCompanyDeletion(t *testing.T) {
	f := newCompanyFixture(t)
	c := f.createCompany(t, f.owner.AccessToken, "Globex")
	path := "/v1/companies/" + strconv.FormatUint(c.ID, 10)

	// A second member, so deletion has to detach more than the owner.
	rec := f.do(http.MethodPut, "/v1/users/me/organization", f.recruiter.AccessToken,
		`{"company_id":`+strconv.FormatUint(c.ID, 10)+`}`)
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("non-owner recruiter is forbidden", func(t *testing.T) {
		rec := f.do(http.MethodDelete, path, f.recruiter.AccessToken, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner deletes and members are detached", func(t *testing.T) {
		rec := f.do(http.MethodDelete, path, f.owner.AccessToken, "")
		require.Equal(t, http.StatusNoContent, rec.Code)

		assert.Nil(t, f.currentOrg(t, f.owner.AccessToken))
		assert.Nil(t, f.currentOrg(t, f.recruiter.AccessToken))

		rec = f.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
