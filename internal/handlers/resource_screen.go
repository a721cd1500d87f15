package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fatla/fatla-admin/internal/apiclient"
	"github.com/fatla/fatla-admin/internal/hooks"
	"github.com/fatla/fatla-admin/internal/models"
	"github.com/fatla/fatla-admin/internal/query"
	"github.com/fatla/fatla-admin/internal/validation"
	"github.com/gorilla/mux"
)

const historyLimit = 20

// column renders one table cell of T. Exactly one of Text and Image is set;
// Badge optionally names the badge class of a Text cell.
type column[T any] struct {
	Header string
	Text   func(T) string
	Image  func(T) string
	Badge  func(T) string
}

type detailRow struct {
	Label string
	Value string
}

// screen is the list, dialogs and optional detail page of one resource. F is
// the form struct decoded from posts; by default it is also the JSON payload.
// editFields replaces fields in the edit dialog when the backend updates a
// different shape than it creates.
type screen[T any, F any] struct {
	h          *Handlers
	hook       *hooks.Resource[T]
	path       string
	title      string
	columns    []column[T]
	id         func(T) int
	fields     []field
	editFields []field
	toForm     func(T) F
	payload    func(r *http.Request, f *F, id string) (any, error)
	details    func(T) []detailRow
}

type tableCell struct {
	Text  string
	Image string
	Badge string
}

type tableRow struct {
	ID    string
	Cells []tableCell
}

type listPage struct {
	Path       string
	Title      string
	Label      string
	Headers    []string
	Rows       []tableRow
	Query      models.ListQuery
	TotalPages int
	TotalCount int
	Dialog     DialogState
	Form       *formView
	CanCreate  bool
	CanEdit    bool
	CanDelete  bool
	HasDetail  bool
	LoadError  string
}

type detailPage struct {
	Path    string
	Title   string
	ID      string
	Rows    []detailRow
	Form    *formView
	History []models.AuditEntry
}

func (s *screen[T, F]) mount(router *mux.Router) {
	router.HandleFunc(s.path, s.list).Methods(http.MethodGet)
	router.HandleFunc(s.path, s.create).Methods(http.MethodPost)
	router.HandleFunc(s.path+"/{id}/edit", s.update).Methods(http.MethodPost)
	router.HandleFunc(s.path+"/{id}/delete", s.remove).Methods(http.MethodPost)
	if s.details != nil {
		router.HandleFunc(s.path+"/{id}", s.detail).Methods(http.MethodGet)
	}
}

func (s *screen[T, F]) canEdit() bool {
	return s.toForm != nil && s.hook.Supports(hooks.ActionUpdate)
}

func (s *screen[T, F]) updateFields() []field {
	if s.editFields != nil {
		return s.editFields
	}
	return s.fields
}

// dialog drops states the resource cannot serve, so an edit dialog never
// opens on a resource without an update action.
func (s *screen[T, F]) dialog(q url.Values) DialogState {
	d := ParseDialog(q)
	switch {
	case d.IsCreating() && !s.hook.Supports(hooks.ActionCreate),
		d.IsEditing() && !s.canEdit(),
		d.IsConfirmingDelete() && !s.hook.Supports(hooks.ActionDelete):
		return Idle()
	}
	return d
}

func listQuery(q url.Values) models.ListQuery {
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("pageSize"))
	return models.ListQuery{
		Page:     page,
		PageSize: size,
		Search:   strings.TrimSpace(q.Get("search")),
	}.Normalize()
}

func (s *screen[T, F]) list(w http.ResponseWriter, r *http.Request) {
	s.show(w, r, http.StatusOK, s.dialog(r.URL.Query()), nil, nil, nil)
}

// show renders the list with dialog open. values and errs re-populate a form
// that failed; toast reports a failed write.
func (s *screen[T, F]) show(w http.ResponseWriter, r *http.Request, status int, dialog DialogState, values url.Values, errs validation.Errors, toast *Toast) {
	ctx := r.Context()
	req := s.h.requestScope(w, r)
	q := listQuery(r.URL.Query())

	view := listPage{
		Path:      s.path,
		Title:     s.title,
		Label:     s.hook.Label(),
		Query:     q,
		Dialog:    dialog,
		CanCreate: s.hook.Supports(hooks.ActionCreate),
		CanEdit:   s.canEdit(),
		CanDelete: s.hook.Supports(hooks.ActionDelete),
		HasDetail: s.details != nil,
	}
	for _, c := range s.columns {
		view.Headers = append(view.Headers, c.Header)
	}

	page, err := s.hook.List(ctx, req, q)
	if err != nil {
		s.h.logger.WithError(err).WithField("resource", s.hook.Name()).Warn("Failed to load list")
		view.LoadError = query.UserMessage(err, "Failed to load "+s.title)
	} else {
		view.TotalCount = page.TotalCount
		view.TotalPages = page.TotalPages()
		for _, item := range page.Items {
			view.Rows = append(view.Rows, s.row(item))
		}
	}

	var formErr string
	if toast != nil {
		formErr = toast.Message
	}

	switch dialog.Kind {
	case DialogCreating:
		view.Form = newFormView(s.path, "Create", s.fields, values, errs)
	case DialogEditing:
		if values == nil {
			item, err := s.hook.Detail(ctx, req, dialog.ID)
			if err != nil {
				formErr = query.UserMessage(err, "Failed to load "+s.hook.Label())
			} else {
				values = encodeForm(s.toForm(item))
			}
		}
		view.Form = newFormView(s.itemPath(dialog.ID, "edit"), "Save", s.updateFields(), values, errs)
	case DialogConfirmingDelete:
		view.Form = newFormView(s.itemPath(dialog.ID, "delete"), "Delete", nil, nil, nil)
	}
	if view.Form != nil {
		view.Form.Error = formErr
	}

	s.h.renderWithToast(w, r, status, "list", s.title, view, toast)
}

func (s *screen[T, F]) row(item T) tableRow {
	row := tableRow{ID: strconv.Itoa(s.id(item))}
	for _, c := range s.columns {
		var cell tableCell
		if c.Image != nil {
			cell.Image = c.Image(item)
		} else {
			cell.Text = c.Text(item)
		}
		if c.Badge != nil {
			cell.Badge = c.Badge(item)
		}
		row.Cells = append(row.Cells, cell)
	}
	return row
}

func (s *screen[T, F]) itemPath(id, action string) string {
	p := s.path + "/" + url.PathEscape(id)
	if action != "" {
		p += "/" + action
	}
	return p
}

func (s *screen[T, F]) buildPayload(r *http.Request, f *F, id string) (any, error) {
	if s.payload != nil {
		return s.payload(r, f, id)
	}
	return f, nil
}

// submit decodes and validates the posted form, then hands the payload to
// write. Nothing reaches the backend when validation fails.
func (s *screen[T, F]) submit(r *http.Request, id string, write func(payload any) error) (url.Values, error) {
	var f F
	values, err := decodeForm(r, &f)
	if err != nil {
		return values, err
	}
	if err := validation.Check(f); err != nil {
		return values, err
	}
	payload, err := s.buildPayload(r, &f, id)
	if err != nil {
		return values, err
	}
	return values, write(payload)
}

func (s *screen[T, F]) fail(w http.ResponseWriter, r *http.Request, dialog DialogState, values url.Values, err error) {
	fields, message := formFailure(err, "Failed to save "+s.hook.Label())
	var toast *Toast
	if message != "" {
		toast = &Toast{Kind: ToastError, Message: message}
	}
	s.show(w, r, http.StatusUnprocessableEntity, dialog, values, fields, toast)
}

func (s *screen[T, F]) create(w http.ResponseWriter, r *http.Request) {
	if !s.hook.Supports(hooks.ActionCreate) {
		s.h.NotFound(w, r)
		return
	}

	req := s.h.requestScope(w, r)
	values, err := s.submit(r, "", func(payload any) error {
		return s.hook.Create(r.Context(), req, payload)
	})
	if err != nil {
		s.fail(w, r, Creating(), values, err)
		return
	}

	setToast(w, ToastSuccess, capitalize(s.hook.Label())+" created")
	http.Redirect(w, r, s.path, http.StatusSeeOther)
}

func (s *screen[T, F]) update(w http.ResponseWriter, r *http.Request) {
	if !s.canEdit() {
		s.h.NotFound(w, r)
		return
	}

	id := mux.Vars(r)["id"]
	req := s.h.requestScope(w, r)
	values, err := s.submit(r, id, func(payload any) error {
		return s.hook.Update(r.Context(), req, id, payload)
	})
	if err != nil {
		s.fail(w, r, Editing(id), values, err)
		return
	}

	setToast(w, ToastSuccess, capitalize(s.hook.Label())+" updated")
	http.Redirect(w, r, s.next(r), http.StatusSeeOther)
}

func (s *screen[T, F]) remove(w http.ResponseWriter, r *http.Request) {
	if !s.hook.Supports(hooks.ActionDelete) {
		s.h.NotFound(w, r)
		return
	}

	id := mux.Vars(r)["id"]
	if err := s.hook.Delete(r.Context(), s.h.requestScope(w, r), id); err != nil {
		s.fail(w, r, ConfirmingDelete(id), nil, err)
		return
	}

	setToast(w, ToastSuccess, capitalize(s.hook.Label())+" deleted")
	http.Redirect(w, r, s.path, http.StatusSeeOther)
}

// next is where a successful edit lands: the posted "next" when it stays
// under this screen, otherwise the list.
func (s *screen[T, F]) next(r *http.Request) string {
	next := r.PostFormValue("next")
	if next == s.path || strings.HasPrefix(next, s.path+"/") {
		return next
	}
	return s.path
}

func (s *screen[T, F]) detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]
	req := s.h.requestScope(w, r)

	item, err := s.hook.Detail(ctx, req, id)
	if err != nil {
		status := http.StatusBadGateway
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			status = http.StatusNotFound
		}
		s.h.renderError(w, r, status, query.UserMessage(err, "Failed to load "+s.hook.Label()))
		return
	}

	view := detailPage{
		Path:  s.path,
		Title: capitalize(s.hook.Label()) + " #" + id,
		ID:    id,
		Rows:  s.details(item),
	}
	if s.canEdit() {
		view.Form = newFormView(s.itemPath(id, "edit"), "Save", s.updateFields(), encodeForm(s.toForm(item)), nil)
		view.Form.Next = s.itemPath(id, "")
	}
	if s.h.audit != nil {
		history, err := s.h.audit.ListForTarget(ctx, s.hook.Name(), id, historyLimit)
		if err != nil {
			s.h.logger.WithError(err).WithField("resource", s.hook.Name()).Warn("Failed to load audit history")
		}
		view.History = history
	}

	s.h.render(w, r, http.StatusOK, "detail", view.Title, view)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
