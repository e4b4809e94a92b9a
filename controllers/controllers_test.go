package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blogem/audit-console/auditview"
	"github.com/blogem/audit-console/authenticator"
	"github.com/blogem/audit-console/middleware"
	"github.com/blogem/audit-console/models"
	"github.com/blogem/audit-console/services"
	"github.com/blogem/audit-console/services/mocks"
	"github.com/blogem/audit-console/userctx"
)

func init() {
	templateDir = "../templates"
}

func newTestRouter(t *testing.T) (*chi.Mux, *mocks.MockAuditService) {
	svc := mocks.NewMockAuditService(t)
	ctrl := NewControllers(&services.Services{Audit: svc})

	r := chi.NewRouter()
	r.Get("/", ctrl.Dashboard.Index)
	r.Get("/audit", ctrl.Audit.Index)
	r.Get("/audit/{id}", ctrl.Audit.Show)
	r.Post("/audit/purge", ctrl.Audit.Purge)
	r.Get("/api/audit-logs", ctrl.Audit.APIList)
	r.Get("/api/audit-logs/{id}", ctrl.Audit.APIGet)
	r.Post("/api/audit-logs", ctrl.Audit.APIIngest)
	return r, svc
}

func sampleView() services.AuditLogView {
	return services.AuditLogView{
		ID:        7,
		EventID:   "e-7",
		Timestamp: time.Date(2025, 10, 6, 9, 30, 0, 0, time.UTC),
		Source:    models.SourceIngest,
		EventType: "user_login_success",
		DisplayFields: auditview.DisplayFields{
			Username:   "Ada Lovelace",
			Email:      "ada@example.com",
			HasEmail:   true,
			Device:     "Pixel 8 • Android",
			IPAddress:  "203.0.113.7",
			Category:   auditview.CategoryLogin,
			EventLabel: "User Login Success",
		},
	}
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestDashboard_RendersSummary(t *testing.T) {
	r, svc := newTestRouter(t)
	svc.EXPECT().Summary(mock.Anything).Return(&services.DashboardData{
		Total:      3,
		Categories: []services.CategoryCount{{Category: auditview.CategoryLogin, Label: "Login", Count: 3}},
		Recent:     []services.AuditLogView{sampleView()},
	}, nil)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "3 audit entries stored")
	assert.Contains(t, body, "badge-login")
	assert.Contains(t, body, "Ada Lovelace")
	assert.Contains(t, body, "2025-10-06 09:30:00")
}

func TestLayout_LogoutLinkOnlyForSignedInOperator(t *testing.T) {
	r, svc := newTestRouter(t)
	svc.EXPECT().Summary(mock.Anything).Return(&services.DashboardData{}, nil)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "/logout")
	assert.NotContains(t, rec.Body.String(), userctx.Anonymous)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := userctx.SetUserID(req.Context(), "auth0|42")
	req = req.WithContext(userctx.SetUserNickname(ctx, "ops"))
	rec = serve(r, req)
	assert.Contains(t, rec.Body.String(), `href="/logout"`)
	assert.Contains(t, rec.Body.String(), "ops")
}

func TestDashboard_ServiceError(t *testing.T) {
	r, svc := newTestRouter(t)
	svc.EXPECT().Summary(mock.Anything).Return(nil, errors.New("db down"))

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuditIndex_PassesFilterAndPage(t *testing.T) {
	r, svc := newTestRouter(t)
	want := models.AuditLogFilter{Category: "login", Search: "ada", Limit: models.DefaultAuditPageSize, Offset: 2 * models.DefaultAuditPageSize}
	svc.EXPECT().List(mock.Anything, want).Return(&services.AuditLogPage{
		Entries:    []services.AuditLogView{sampleView()},
		Pagination: models.NewPagination(want.Offset, want.Limit, 80),
		Filter:     want,
	}, nil)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/audit?category=login&q=ada&page=3", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "User Login Success")
	assert.Contains(t, body, "ada@example.com")
	assert.Contains(t, body, "Page 3 of 4")
}

func TestAuditIndex_PurgedFlashOnlyShowsCounts(t *testing.T) {
	r, svc := newTestRouter(t)
	svc.EXPECT().List(mock.Anything, mock.Anything).Return(&services.AuditLogPage{}, nil)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/audit?purged=12", nil))
	assert.Contains(t, rec.Body.String(), "Deleted 12 old audit entries")

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/audit?purged=all%20your", nil))
	assert.NotContains(t, rec.Body.String(), "all your")
	assert.NotContains(t, rec.Body.String(), `class="flash flash-success"`)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/audit?purged=-3", nil))
	assert.NotContains(t, rec.Body.String(), `class="flash flash-success"`)
}

func TestAuditIndex_UnknownCategory(t *testing.T) {
	r, svc := newTestRouter(t)
	svc.EXPECT().List(mock.Anything, mock.Anything).Return(nil, services.ErrInvalidCategory)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/audit?category=bogus", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown category: bogus")
}

func TestAuditShow(t *testing.T) {
	r, svc := newTestRouter(t)
	svc.EXPECT().Get(mock.Anything, int64(7)).Return(&services.AuditLogDetail{
		AuditLogView: sampleView(),
		RequestJSON:  "{\n  \"password\": \"********\"\n}",
		ResponseJSON: auditview.NoData,
	}, nil)
	svc.EXPECT().Get(mock.Anything, int64(8)).Return(nil, models.ErrAuditLogNotFound)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/audit/7", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "********")
	assert.Contains(t, rec.Body.String(), auditview.NoData)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/audit/8", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/audit/abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuditPurge(t *testing.T) {
	r, svc := newTestRouter(t)
	svc.EXPECT().Purge(mock.Anything, 90).Return(int64(4), nil)
	svc.EXPECT().Purge(mock.Anything, 0).Return(int64(0), services.ErrInvalidRetention)

	post := func(days string) *httptest.ResponseRecorder {
		form := url.Values{"older_than_days": {days}}
		req := httptest.NewRequest(http.MethodPost, "/audit/purge", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return serve(r, req)
	}

	rec := post("90")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/audit?purged=4", rec.Header().Get("Location"))

	assert.Equal(t, http.StatusBadRequest, post("0").Code)
	assert.Equal(t, http.StatusBadRequest, post("soon").Code)
}

func TestAPIList(t *testing.T) {
	r, svc := newTestRouter(t)
	svc.EXPECT().List(mock.Anything, models.AuditLogFilter{Category: "login", Limit: 5, Offset: 10}).Return(&services.AuditLogPage{
		Entries:    []services.AuditLogView{sampleView()},
		Pagination: models.NewPagination(10, 5, 11),
	}, nil)
	svc.EXPECT().List(mock.Anything, models.AuditLogFilter{Category: "bogus"}).Return(nil, services.ErrInvalidCategory)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/api/audit-logs?category=login&limit=5&offset=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var page struct {
		Entries []map[string]interface{} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "Ada Lovelace", page.Entries[0]["username"])
	assert.Equal(t, "login", page.Entries[0]["category"])
	assert.Equal(t, "User Login Success", page.Entries[0]["event_label"])

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/api/audit-logs?category=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/api/audit-logs?limit=many", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIGet(t *testing.T) {
	r, svc := newTestRouter(t)
	svc.EXPECT().Get(mock.Anything, int64(7)).Return(&services.AuditLogDetail{AuditLogView: sampleView(), RequestJSON: "[]", ResponseJSON: auditview.NoData}, nil)
	svc.EXPECT().Get(mock.Anything, int64(9)).Return(nil, models.ErrAuditLogNotFound)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/api/audit-logs/7", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"request_json":"[]"`)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/api/audit-logs/9", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIIngest(t *testing.T) {
	r, svc := newTestRouter(t)
	record := []byte(`{"event_type":"user_login","user_id":"u-1"}`)
	svc.EXPECT().Ingest(mock.Anything, record).Return(&models.AuditLogEntry{ID: 12, EventID: "e-12", EventCategory: "login"}, nil)
	svc.EXPECT().Ingest(mock.Anything, []byte(`[1,2]`)).Return(nil, services.ErrInvalidRecord)

	rec := serve(r, httptest.NewRequest(http.MethodPost, "/api/audit-logs", bytes.NewReader(record)))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":12,"event_id":"e-12","category":"login"}`, rec.Body.String())

	rec = serve(r, httptest.NewRequest(http.MethodPost, "/api/audit-logs", strings.NewReader(`[1,2]`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	huge := bytes.Repeat([]byte("a"), maxIngestBytes+1)
	rec = serve(r, httptest.NewRequest(http.MethodPost, "/api/audit-logs", bytes.NewReader(huge)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) GetAuthURL(state string) string {
	return "https://idp.example.com/authorize?state=" + url.QueryEscape(state)
}

func (m *mockProvider) ExchangeCode(ctx context.Context, code string) (*authenticator.Token, error) {
	args := m.Called(ctx, code)
	token, _ := args.Get(0).(*authenticator.Token)
	return token, args.Error(1)
}

func (m *mockProvider) GetClaims(ctx context.Context, token *authenticator.Token) (authenticator.Claims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(authenticator.Claims)
	return claims, args.Error(1)
}

func TestAuthFlow(t *testing.T) {
	provider := &mockProvider{}
	provider.Test(t)
	token := &authenticator.Token{AccessToken: "at", IDToken: "id"}
	provider.On("ExchangeCode", mock.Anything, "code-1").Return(token, nil)
	provider.On("GetClaims", mock.Anything, token).Return(authenticator.Claims{
		"sub":      "auth0|42",
		"email":    "ops@example.com",
		"nickname": "ops",
	}, nil)
	defer provider.AssertExpectations(t)

	auth := NewAuthController()
	var operator string

	r := chi.NewRouter()
	sessioner, err := session.Sessioner(session.Options{Provider: "memory", CookieName: "test_session"})
	require.NoError(t, err)
	r.Use(sessioner)
	r.Use(middleware.LoadUser)
	r.Get("/login", auth.Login(provider))
	r.Get("/callback", auth.Callback(provider))
	r.Get("/logout", auth.Logout)
	r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		operator = userctx.Operator(r.Context())
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)
	cookies := rec.Result().Cookies()

	withCookies := func(req *http.Request) *http.Request {
		for _, c := range cookies {
			req.AddCookie(c)
		}
		return req
	}

	rec = serve(r, withCookies(httptest.NewRequest(http.MethodGet, "/callback?state=wrong&code=code-1", nil)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(r, withCookies(httptest.NewRequest(http.MethodGet, "/callback?state="+url.QueryEscape(state)+"&code=code-1", nil)))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	serve(r, withCookies(httptest.NewRequest(http.MethodGet, "/whoami", nil)))
	assert.Equal(t, "ops", operator)

	serve(r, withCookies(httptest.NewRequest(http.MethodGet, "/logout", nil)))
	serve(r, withCookies(httptest.NewRequest(http.MethodGet, "/whoami", nil)))
	assert.Equal(t, userctx.Anonymous, operator)
}

func TestRedirectTarget(t *testing.T) {
	assert.Equal(t, "/audit?category=login", redirectTarget("/audit?category=login"))
	assert.Equal(t, "/", redirectTarget("//evil.example.com"))
	assert.Equal(t, "/", redirectTarget("https://evil.example.com"))
	assert.Equal(t, "/", redirectTarget(nil))
}

func TestCategoryClass(t *testing.T) {
	assert.Equal(t, "badge-delete", categoryClass(auditview.CategoryDelete))
	assert.Equal(t, "badge-default", categoryClass(auditview.EventCategory("other")))
}
