package handlers

import (
	"net/http"
	"net/url"

	"github.com/fatla/fatla-admin/internal/hooks"
	"github.com/fatla/fatla-admin/internal/models"
	"github.com/fatla/fatla-admin/internal/query"
	"github.com/fatla/fatla-admin/internal/validation"
	"github.com/gorilla/mux"
)

const recentActivityLimit = 10

type contactForm struct {
	Email     string `schema:"email" json:"email" validate:"omitempty,email"`
	Phone     string `schema:"phone" json:"phone" validate:"omitempty,e164"`
	WhatsApp  string `schema:"whatsApp" json:"whatsApp" validate:"omitempty,e164"`
	AddressEn string `schema:"addressEn" json:"addressEn"`
	AddressAr string `schema:"addressAr" json:"addressAr"`
	Facebook  string `schema:"facebook" json:"facebook" validate:"omitempty,url"`
	Instagram string `schema:"instagram" json:"instagram" validate:"omitempty,url"`
}

type staticPageForm struct {
	ContentEn string `schema:"contentEn" json:"contentEn" validate:"required"`
	ContentAr string `schema:"contentAr" json:"contentAr" validate:"required"`
}

var (
	contactFields = []field{
		withKind("email", text("email", "Email")),
		withKind("tel", text("phone", "Phone")),
		withKind("tel", text("whatsApp", "WhatsApp")),
		text("addressEn", "Address (EN)"),
		text("addressAr", "Address (AR)"),
		withKind("url", text("facebook", "Facebook")),
		withKind("url", text("instagram", "Instagram")),
	}
	staticPageFields = []field{
		textarea("contentEn", "Content (EN)"),
		textarea("contentAr", "Content (AR)"),
	}
)

// singletonScreen edits a resource that has one record per language.
type singletonScreen[T any, F any] struct {
	h      *Handlers
	hook   *hooks.Singleton[T]
	path   string
	title  string
	fields []field
	toForm func(T) F
}

type singletonPage struct {
	Title     string
	Form      *formView
	LoadError string
}

func (s *singletonScreen[T, F]) mount(router *mux.Router) {
	router.HandleFunc(s.path, s.show).Methods(http.MethodGet)
	router.HandleFunc(s.path, s.save).Methods(http.MethodPost)
}

func (s *singletonScreen[T, F]) show(w http.ResponseWriter, r *http.Request) {
	view := singletonPage{Title: s.title}
	item, err := s.hook.Get(r.Context(), s.h.requestScope(w, r))
	if err != nil {
		s.h.logger.WithError(err).WithField("resource", s.hook.Name()).Warn("Failed to load page content")
		view.LoadError = query.UserMessage(err, "Failed to load "+s.hook.Label())
		view.Form = newFormView(s.path, "Save", s.fields, nil, nil)
	} else {
		view.Form = newFormView(s.path, "Save", s.fields, encodeForm(s.toForm(item)), nil)
	}
	s.h.render(w, r, http.StatusOK, "singleton", s.title, view)
}

func (s *singletonScreen[T, F]) save(w http.ResponseWriter, r *http.Request) {
	var f F
	values, err := decodeForm(r, &f)
	if err == nil {
		err = validation.Check(f)
	}
	if err == nil {
		err = s.hook.Update(r.Context(), s.h.requestScope(w, r), &f)
	}
	if err != nil {
		s.fail(w, r, values, err)
		return
	}

	setToast(w, ToastSuccess, capitalize(s.hook.Label())+" saved")
	http.Redirect(w, r, s.path, http.StatusSeeOther)
}

func (s *singletonScreen[T, F]) fail(w http.ResponseWriter, r *http.Request, values url.Values, err error) {
	fields, message := formFailure(err, "Failed to save "+s.hook.Label())
	view := singletonPage{
		Title: s.title,
		Form:  newFormView(s.path, "Save", s.fields, values, fields),
	}
	view.Form.Error = message

	var toast *Toast
	if message != "" {
		toast = &Toast{Kind: ToastError, Message: message}
	}
	s.h.renderWithToast(w, r, http.StatusUnprocessableEntity, "singleton", s.title, view, toast)
}

func staticPageToForm(p models.StaticPage) staticPageForm {
	return staticPageForm{ContentEn: p.ContentEn, ContentAr: p.ContentAr}
}

func (h *Handlers) mountContent(router *mux.Router) {
	(&singletonScreen[models.ContactInfo, contactForm]{
		h: h, hook: h.hooks.Contact, path: "/contact", title: "Contact info",
		fields: contactFields,
		toForm: func(c models.ContactInfo) contactForm {
			return contactForm{
				Email:     c.Email,
				Phone:     c.Phone,
				WhatsApp:  c.WhatsApp,
				AddressEn: c.AddressEn,
				AddressAr: c.AddressAr,
				Facebook:  c.Facebook,
				Instagram: c.Instagram,
			}
		},
	}).mount(router)

	pages := []struct {
		path  string
		title string
		hook  *hooks.Singleton[models.StaticPage]
	}{
		{path: "/pages/about-us", title: "About us", hook: h.hooks.AboutUs},
		{path: "/pages/privacy-policy", title: "Privacy policy", hook: h.hooks.PrivacyPolicy},
		{path: "/pages/terms", title: "Terms and conditions", hook: h.hooks.Terms},
	}
	for _, p := range pages {
		(&singletonScreen[models.StaticPage, staticPageForm]{
			h: h, hook: p.hook, path: p.path, title: p.title,
			fields: staticPageFields,
			toForm: staticPageToForm,
		}).mount(router)
	}
}

type dashboardPage struct {
	Stats  *models.DashboardStats
	Error  string
	Recent []models.AuditEntry
}

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view := dashboardPage{}

	stats, err := h.hooks.Dashboard.Stats(ctx, h.requestScope(w, r))
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load dashboard statistics")
		view.Error = query.UserMessage(err, "Failed to load statistics")
	} else {
		view.Stats = &stats
	}

	if h.audit != nil {
		recent, err := h.audit.ListRecent(ctx, recentActivityLimit)
		if err != nil {
			h.logger.WithError(err).Warn("Failed to load recent activity")
		}
		view.Recent = recent
	}

	h.render(w, r, http.StatusOK, "dashboard", "Dashboard", view)
}
