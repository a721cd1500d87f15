package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	require.NotNil(t, found, "cookie %s not set", name)
	return found
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	_, ok := s.Token()
	assert.False(t, ok)

	s.Set("access", "refresh")
	token, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "access", token)
	refresh, ok := s.RefreshToken()
	assert.True(t, ok)
	assert.Equal(t, "refresh", refresh)

	s.Remove()
	_, ok = s.Token()
	assert.False(t, ok)
	_, ok = s.RefreshToken()
	assert.False(t, ok)
}

func TestCookieStore_SetWritesSecureCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	s := NewCookieStore(rec, req, Options{Secure: true})

	s.Set("abc", "def")

	for _, name := range []string{TokenCookie, RefreshTokenCookie} {
		c := findCookie(t, rec, name)
		assert.True(t, c.HttpOnly, name)
		assert.True(t, c.Secure, name)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite, name)
		assert.Equal(t, "/", c.Path, name)
		assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), c.MaxAge, name)
	}
	assert.Equal(t, "abc", findCookie(t, rec, TokenCookie).Value)

	token, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "abc", token)
}

func TestCookieStore_ReadsRequestCookies(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "from-cookie"})
	s := NewCookieStore(httptest.NewRecorder(), req, Options{})

	token, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "from-cookie", token)

	_, ok = s.RefreshToken()
	assert.False(t, ok)
}

func TestCookieStore_RemoveExpiresCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "stale"})
	s := NewCookieStore(rec, req, Options{})

	s.Remove()

	_, ok := s.Token()
	assert.False(t, ok)
	assert.Less(t, findCookie(t, rec, TokenCookie).MaxAge, 0)
	assert.Less(t, findCookie(t, rec, RefreshTokenCookie).MaxAge, 0)
}

func TestHeaderStore(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "bearer", header: "Bearer tok", want: "tok"},
		{name: "lowercase scheme", header: "bearer tok", want: "tok"},
		{name: "basic", header: "Basic dXNlcjpwYXNz", want: ""},
		{name: "missing", header: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			token, ok := NewHeaderStore(req).Token()
			assert.Equal(t, tt.want, token)
			assert.Equal(t, tt.want != "", ok)
		})
	}
}

func TestFallback(t *testing.T) {
	primary := NewMemoryStore()
	secondary := NewMemoryStore()
	secondary.Set("local", "local-refresh")
	s := Fallback(primary, secondary)

	token, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "local", token)

	s.Set("server", "server-refresh")
	token, _ = s.Token()
	assert.Equal(t, "server", token)
	token, _ = secondary.Token()
	assert.Equal(t, "server", token)

	s.Remove()
	_, ok = s.Token()
	assert.False(t, ok)
	_, ok = secondary.Token()
	assert.False(t, ok)
}

func TestManager_FromRequestPrefersCookie(t *testing.T) {
	m := NewManager(Options{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer header-token")

	token, ok := m.FromRequest(httptest.NewRecorder(), req).Token()
	assert.True(t, ok)
	assert.Equal(t, "header-token", token)

	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "cookie-token"})
	token, _ = m.FromRequest(httptest.NewRecorder(), req).Token()
	assert.Equal(t, "cookie-token", token)
}

func TestResetFlow(t *testing.T) {
	m := NewManager(Options{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/request-otp", nil)
	f := m.ResetFlow(rec, req)

	_, ok := f.Mobile()
	assert.False(t, ok)

	f.SetMobile("+201234567890")
	mobile, ok := f.Mobile()
	assert.True(t, ok)
	assert.Equal(t, "+201234567890", mobile)
	assert.False(t, f.Verified())

	c := findCookie(t, rec, ResetMobileCookie)
	assert.Equal(t, 0, c.MaxAge)
	assert.True(t, c.HttpOnly)

	f.MarkVerified()
	assert.True(t, f.Verified())
	mobile, _ = f.Mobile()
	assert.Equal(t, "+201234567890", mobile)

	f.Complete()
	_, ok = f.Mobile()
	assert.False(t, ok)
	assert.False(t, f.Verified())
	assert.True(t, f.Completed())

	f.SetMobile("+201234567890")
	assert.False(t, f.Completed())

	f.Complete()
	f.Clear()
	_, ok = f.Mobile()
	assert.False(t, ok)
	assert.False(t, f.Verified())
	assert.False(t, f.Completed())
}

func TestResetFlow_ReadsCookies(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/reset-password", nil)
	req.AddCookie(&http.Cookie{Name: ResetMobileCookie, Value: "+201234567890"})
	req.AddCookie(&http.Cookie{Name: ResetVerifiedCookie, Value: "1"})
	f := NewManager(Options{}).ResetFlow(httptest.NewRecorder(), req)

	mobile, ok := f.Mobile()
	assert.True(t, ok)
	assert.Equal(t, "+201234567890", mobile)
	assert.True(t, f.Verified())
	assert.False(t, f.Completed())

	req = httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: ResetDoneCookie, Value: "1"})
	assert.True(t, NewManager(Options{}).ResetFlow(httptest.NewRecorder(), req).Completed())
}

func TestIdentityFromToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    "42",
		"mobile": "+201234567890",
		"exp":    exp.Unix(),
	})
	signed, err := token.SignedString([]byte("any-key-the-dashboard-never-sees"))
	require.NoError(t, err)

	id, ok := IdentityFromToken(signed)
	require.True(t, ok)
	assert.Equal(t, "42", id.Subject)
	assert.Equal(t, "+201234567890", id.Mobile)
	assert.Equal(t, "+201234567890", id.DisplayName())
	assert.True(t, exp.Equal(id.ExpiresAt))

	_, ok = IdentityFromToken("not-a-jwt")
	assert.False(t, ok)
}
