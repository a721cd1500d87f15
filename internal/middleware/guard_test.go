package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fatla/fatla-admin/internal/session"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		path          string
		wantRedirect  string
		wantOK        bool
	}{
		{name: "anonymous dashboard", path: "/", wantRedirect: LoginPath},
		{name: "anonymous brands", path: "/brands", wantRedirect: LoginPath},
		{name: "anonymous nested", path: "/orders/12", wantRedirect: LoginPath},
		{name: "anonymous login", path: "/login", wantOK: true},
		{name: "anonymous request otp", path: "/request-otp", wantOK: true},
		{name: "anonymous verify otp", path: "/verify-otp", wantOK: true},
		{name: "anonymous reset password", path: "/reset-password", wantOK: true},
		{name: "anonymous static", path: "/static/app.css", wantOK: true},
		{name: "anonymous next static", path: "/_next/static/chunk.js", wantOK: true},
		{name: "anonymous next image", path: "/_next/image/logo.png", wantOK: true},
		{name: "anonymous api", path: "/api/en/Brand/GetAllBrands", wantOK: true},
		{name: "anonymous favicon", path: "/favicon.ico", wantOK: true},
		{name: "signed in login", authenticated: true, path: "/login", wantRedirect: HomePath},
		{name: "signed in dashboard", authenticated: true, path: "/", wantOK: true},
		{name: "signed in verify otp", authenticated: true, path: "/verify-otp", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			redirect, ok := Decide(tt.authenticated, tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantRedirect, redirect)
		})
	}
}

func newTestGuard() http.Handler {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	guard := NewRouteGuard(session.NewManager(session.Options{}), logger)
	return guard.Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
}

func TestRouteGuard_RedirectsAnonymous(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestGuard().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/colors", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))
}

func TestRouteGuard_PassesAllowListUnmodified(t *testing.T) {
	for path := range PublicPaths {
		rec := httptest.NewRecorder()
		newTestGuard().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusTeapot, rec.Code, path)
		assert.Empty(t, rec.Header().Get("Location"), path)
		assert.Empty(t, rec.Result().Cookies(), path)
	}
}

func TestRouteGuard_SignedInLeavesLogin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: session.TokenCookie, Value: "abc"})
	rec := httptest.NewRecorder()
	newTestGuard().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, HomePath, rec.Header().Get("Location"))
}

func TestRouteGuard_SignedInPassesThrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/brands", nil)
	req.AddCookie(&http.Cookie{Name: session.TokenCookie, Value: "abc"})
	rec := httptest.NewRecorder()
	newTestGuard().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
