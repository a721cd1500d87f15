package session

import (
	"net/http"
	"strings"
	"time"
)

const (
	TokenCookie        = "token"
	RefreshTokenCookie = "refreshToken"

	DefaultMaxAge = 7 * 24 * time.Hour
)

// Options controls the cookies written by the stores a Manager hands out.
type Options struct {
	Secure bool
	MaxAge time.Duration
}

// Manager builds the session objects for one incoming request.
type Manager struct {
	opts Options
}

func NewManager(opts Options) *Manager {
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultMaxAge
	}
	return &Manager{opts: opts}
}

// FromRequest returns the token store for r. Cookies win; a bearer header on
// the incoming request is used when no cookie is present.
func (m *Manager) FromRequest(w http.ResponseWriter, r *http.Request) Store {
	return Fallback(NewCookieStore(w, r, m.opts), NewHeaderStore(r))
}

// ResetFlow returns the password-reset state carried by r.
func (m *Manager) ResetFlow(w http.ResponseWriter, r *http.Request) *ResetFlow {
	return &ResetFlow{w: w, r: r, secure: m.opts.Secure}
}

// CookieStore keeps the token pair in HttpOnly, SameSite=Strict cookies.
// Writes are visible to later reads on the same store.
type CookieStore struct {
	w    http.ResponseWriter
	r    *http.Request
	opts Options

	written      bool
	token        string
	refreshToken string
}

func NewCookieStore(w http.ResponseWriter, r *http.Request, opts Options) *CookieStore {
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultMaxAge
	}
	return &CookieStore{w: w, r: r, opts: opts}
}

func (s *CookieStore) Token() (string, bool) {
	if s.written {
		return s.token, s.token != ""
	}
	return cookieValue(s.r, TokenCookie)
}

func (s *CookieStore) RefreshToken() (string, bool) {
	if s.written {
		return s.refreshToken, s.refreshToken != ""
	}
	return cookieValue(s.r, RefreshTokenCookie)
}

func (s *CookieStore) Set(token, refreshToken string) {
	s.written = true
	s.token = token
	s.refreshToken = refreshToken

	maxAge := int(s.opts.MaxAge.Seconds())
	http.SetCookie(s.w, s.cookie(TokenCookie, token, maxAge))
	http.SetCookie(s.w, s.cookie(RefreshTokenCookie, refreshToken, maxAge))
}

func (s *CookieStore) Remove() {
	s.written = true
	s.token = ""
	s.refreshToken = ""

	http.SetCookie(s.w, s.cookie(TokenCookie, "", -1))
	http.SetCookie(s.w, s.cookie(RefreshTokenCookie, "", -1))
}

func (s *CookieStore) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// HeaderStore exposes an incoming "Authorization: Bearer" header as a
// read-only store. Set and Remove are no-ops.
type HeaderStore struct {
	token string
}

func NewHeaderStore(r *http.Request) *HeaderStore {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return &HeaderStore{}
	}
	return &HeaderStore{token: strings.TrimSpace(parts[1])}
}

func (s *HeaderStore) Token() (string, bool) { return s.token, s.token != "" }

func (s *HeaderStore) RefreshToken() (string, bool) { return "", false }

func (s *HeaderStore) Set(string, string) {}

func (s *HeaderStore) Remove() {}

func cookieValue(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
