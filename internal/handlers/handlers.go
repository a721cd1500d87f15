// Package handlers renders the admin screens and turns form posts into
// backend calls.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fatla/fatla-admin/internal/apiclient"
	"github.com/fatla/fatla-admin/internal/hooks"
	"github.com/fatla/fatla-admin/internal/models"
	"github.com/fatla/fatla-admin/internal/service"
	"github.com/fatla/fatla-admin/internal/session"
	"github.com/sirupsen/logrus"
)

// AuditLog is the read side of the audit repository.
type AuditLog interface {
	ListRecent(ctx context.Context, limit int32) ([]models.AuditEntry, error)
	ListForTarget(ctx context.Context, resource, targetID string, limit int) ([]models.AuditEntry, error)
}

type Handlers struct {
	sessions *session.Manager
	clients  *apiclient.Factory
	auth     *service.AuthService
	hooks    *hooks.Set
	audit    AuditLog
	views    *Views
	logger   *logrus.Logger
}

// Deps are the collaborators of Handlers. Audit may be nil.
type Deps struct {
	Sessions *session.Manager
	Clients  *apiclient.Factory
	Auth     *service.AuthService
	Hooks    *hooks.Set
	Audit    AuditLog
	Views    *Views
	Logger   *logrus.Logger
}

func New(deps Deps) *Handlers {
	return &Handlers{
		sessions: deps.Sessions,
		clients:  deps.Clients,
		auth:     deps.Auth,
		hooks:    deps.Hooks,
		audit:    deps.Audit,
		views:    deps.Views,
		logger:   deps.Logger,
	}
}

// requestScope binds the hooks to the caller's session and language.
func (h *Handlers) requestScope(w http.ResponseWriter, r *http.Request) hooks.Request {
	sess := h.sessions.FromRequest(w, r)
	req := hooks.Request{
		API:  h.clients.New(sess),
		Lang: requestLang(w, r),
	}
	if token, ok := sess.Token(); ok {
		if id, ok := session.IdentityFromToken(token); ok {
			req.Actor = id.DisplayName()
		}
	}
	return req
}

type navLink struct {
	Href   string
	Label  string
	Active bool
}

var navigation = []navLink{
	{Href: "/", Label: "Dashboard"},
	{Href: "/brands", Label: "Brands"},
	{Href: "/categories", Label: "Categories"},
	{Href: "/colors", Label: "Colors"},
	{Href: "/sizes", Label: "Sizes"},
	{Href: "/products", Label: "Products"},
	{Href: "/sliders", Label: "Sliders"},
	{Href: "/faqs", Label: "FAQs"},
	{Href: "/clients", Label: "Clients"},
	{Href: "/orders", Label: "Orders"},
	{Href: "/returns", Label: "Returns"},
	{Href: "/notifications", Label: "Notifications"},
	{Href: "/contact", Label: "Contact"},
	{Href: "/pages/about-us", Label: "About us"},
	{Href: "/pages/privacy-policy", Label: "Privacy policy"},
	{Href: "/pages/terms", Label: "Terms"},
}

// pageData is what the layout receives; Content is the page's own model.
type pageData struct {
	Title    string
	Lang     string
	RTL      bool
	Identity *session.Identity
	Toast    *Toast
	Nav      []navLink
	Content  any
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, page, title string, content any) {
	h.renderWithToast(w, r, status, page, title, content, nil)
}

// renderWithToast shows toast now instead of a pending one from the cookie.
func (h *Handlers) renderWithToast(w http.ResponseWriter, r *http.Request, status int, page, title string, content any, toast *Toast) {
	lang := requestLang(w, r)
	pending := takeToast(w, r)
	if toast == nil {
		toast = pending
	}
	data := pageData{
		Title:   title,
		Lang:    lang,
		RTL:     lang == apiclient.LangArabic,
		Toast:   toast,
		Content: content,
	}

	if token, ok := h.sessions.FromRequest(w, r).Token(); ok {
		if id, ok := session.IdentityFromToken(token); ok {
			data.Identity = &id
		} else {
			data.Identity = &session.Identity{}
		}
		data.Nav = make([]navLink, len(navigation))
		for i, link := range navigation {
			link.Active = link.Href == r.URL.Path
			data.Nav[i] = link
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.views.Render(w, page, data); err != nil {
		h.logger.WithError(err).WithField("page", page).Error("Failed to render page")
	}
}

type errorPage struct {
	Message string
}

func (h *Handlers) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, r, status, "error", http.StatusText(status), errorPage{Message: message})
}

// NotFound renders the error page for unknown routes.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "This page does not exist.")
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

type meResponse struct {
	Authenticated bool   `json:"authenticated"`
	Name          string `json:"name,omitempty"`
	Mobile        string `json:"mobile,omitempty"`
	Subject       string `json:"subject,omitempty"`
	ExpiresAt     int64  `json:"expires_at,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Me reports who the session belongs to, decoded from the unverified token.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	token, ok := h.sessions.FromRequest(w, r).Token()
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "No session")
		return
	}

	resp := meResponse{Authenticated: true}
	if id, ok := session.IdentityFromToken(token); ok {
		resp.Name = id.Name
		resp.Mobile = id.Mobile
		resp.Subject = id.Subject
		if !id.ExpiresAt.IsZero() {
			resp.ExpiresAt = id.ExpiresAt.Unix()
		}
	}
	h.respondWithJSON(w, http.StatusOK, resp)
}

func (h *Handlers) respondWithError(w http.ResponseWriter, status int, code, message string) {
	h.respondWithJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

func (h *Handlers) respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}
