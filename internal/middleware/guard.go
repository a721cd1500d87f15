package middleware

import (
	"net/http"
	"strings"

	"github.com/fatla/fatla-admin/internal/session"
	"github.com/sirupsen/logrus"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// PublicPaths are reachable without a token.
var PublicPaths = map[string]bool{
	LoginPath:         true,
	"/request-otp":    true,
	"/verify-otp":     true,
	"/reset-password": true,
}

// skippedPrefixes are never gated: assets, health and API passthrough.
var skippedPrefixes = []string{
	"/api/",
	"/static/",
	"/_next/static/",
	"/_next/image/",
}

var skippedPaths = map[string]bool{
	"/favicon.ico": true,
	"/health":      true,
}

// Decide is the guard's predicate. It returns the redirect target and false
// when the request must not proceed.
func Decide(authenticated bool, path string) (string, bool) {
	if skipped(path) {
		return "", true
	}
	if !authenticated && !PublicPaths[path] {
		return LoginPath, false
	}
	if authenticated && path == LoginPath {
		return HomePath, false
	}
	return "", true
}

func skipped(path string) bool {
	if skippedPaths[path] {
		return true
	}
	for _, prefix := range skippedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// SessionProvider hands out the token store for a request.
type SessionProvider interface {
	FromRequest(w http.ResponseWriter, r *http.Request) session.Store
}

type RouteGuard struct {
	sessions SessionProvider
	logger   *logrus.Logger
}

func NewRouteGuard(sessions SessionProvider, logger *logrus.Logger) *RouteGuard {
	return &RouteGuard{
		sessions: sessions,
		logger:   logger,
	}
}

// Protect redirects anonymous requests to the login page and signed-in admins
// away from it. Only token presence is checked.
func (g *RouteGuard) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, authenticated := g.sessions.FromRequest(w, r).Token()

		if target, ok := Decide(authenticated, r.URL.Path); !ok {
			g.logger.WithFields(logrus.Fields{
				"path":     r.URL.Path,
				"redirect": target,
			}).Debug("Route guard redirect")
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}
