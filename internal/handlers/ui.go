package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/fatla/fatla-admin/internal/apiclient"
)

// DialogKind is which dialog, if any, is open over a list screen.
type DialogKind int

const (
	DialogIdle DialogKind = iota
	DialogCreating
	DialogEditing
	DialogConfirmingDelete
)

// DialogState is the whole dialog state of a list screen. ID is set only for
// DialogEditing and DialogConfirmingDelete.
type DialogState struct {
	Kind DialogKind
	ID   string
}

func Idle() DialogState {
	return DialogState{Kind: DialogIdle}
}

func Creating() DialogState {
	return DialogState{Kind: DialogCreating}
}

func Editing(id string) DialogState {
	return DialogState{Kind: DialogEditing, ID: id}
}

func ConfirmingDelete(id string) DialogState {
	return DialogState{Kind: DialogConfirmingDelete, ID: id}
}

// ParseDialog reads ?dialog=create|edit|delete&id=. Anything incomplete or
// unknown is Idle.
func ParseDialog(q url.Values) DialogState {
	id := strings.TrimSpace(q.Get("id"))
	switch q.Get("dialog") {
	case "create":
		return Creating()
	case "edit":
		if id != "" {
			return Editing(id)
		}
	case "delete":
		if id != "" {
			return ConfirmingDelete(id)
		}
	}
	return Idle()
}

func (d DialogState) IsIdle() bool {
	return d.Kind == DialogIdle
}

func (d DialogState) IsCreating() bool {
	return d.Kind == DialogCreating
}

func (d DialogState) IsEditing() bool {
	return d.Kind == DialogEditing
}

func (d DialogState) IsConfirmingDelete() bool {
	return d.Kind == DialogConfirmingDelete
}

const (
	ToastCookie = "toast"
	LangCookie  = "lang"

	ToastSuccess = "success"
	ToastError   = "error"
)

// Toast is a one-shot message shown on the next rendered page.
type Toast struct {
	Kind    string
	Message string
}

func setToast(w http.ResponseWriter, kind, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     ToastCookie,
		Value:    url.QueryEscape(kind + "|" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeToast reads the pending toast and expires its cookie.
func takeToast(w http.ResponseWriter, r *http.Request) *Toast {
	c, err := r.Cookie(ToastCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	clearCookie(w, ToastCookie)

	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}
	kind, message, ok := strings.Cut(raw, "|")
	if !ok || message == "" {
		return nil
	}
	if kind != ToastSuccess {
		kind = ToastError
	}
	return &Toast{Kind: kind, Message: message}
}

// requestLang honours ?lang= and remembers it in a cookie; otherwise the
// cookie decides, then English.
func requestLang(w http.ResponseWriter, r *http.Request) string {
	if q := r.URL.Query().Get("lang"); q == apiclient.LangEnglish || q == apiclient.LangArabic {
		http.SetCookie(w, &http.Cookie{
			Name:     LangCookie,
			Value:    q,
			Path:     "/",
			MaxAge:   365 * 24 * 60 * 60,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		return q
	}
	if c, err := r.Cookie(LangCookie); err == nil {
		return apiclient.NormalizeLang(c.Value)
	}
	return apiclient.LangEnglish
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
