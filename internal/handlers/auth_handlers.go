package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fatla/fatla-admin/internal/query"
	"github.com/fatla/fatla-admin/internal/service"
	"github.com/fatla/fatla-admin/internal/session"
	"github.com/fatla/fatla-admin/internal/validation"
)

type loginForm struct {
	Mobile   string `schema:"mobile"`
	Password string `schema:"password"`
}

type mobileForm struct {
	Mobile string `schema:"mobile"`
}

type codeForm struct {
	Code string `schema:"code"`
}

type resetForm struct {
	NewPassword     string `schema:"newPassword"`
	ConfirmPassword string `schema:"confirmPassword"`
}

var (
	loginFields = []field{
		withKind("tel", text("mobile", "Mobile number")),
		withKind("password", text("password", "Password")),
	}
	mobileFields = []field{
		withKind("tel", text("mobile", "Mobile number")),
	}
	codeFields = []field{
		text("code", "Verification code"),
	}
	resetFields = []field{
		withKind("password", text("newPassword", "New password")),
		withKind("password", text("confirmPassword", "Confirm password")),
	}
)

// authPage is the model of the sign-in and reset screens.
type authPage struct {
	Form   *formView
	Mobile string
}

// formFailure splits err into inline field errors and a banner message.
func formFailure(err error, fallback string) (validation.Errors, string) {
	var fields validation.Errors
	if errors.As(err, &fields) {
		return fields, ""
	}
	return nil, query.UserMessage(err, fallback)
}

func (h *Handlers) renderAuth(w http.ResponseWriter, r *http.Request, status int, page, title string, form *formView, mobile string) {
	h.render(w, r, status, page, title, authPage{Form: form, Mobile: mobile})
}

func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderAuth(w, r, http.StatusOK, "login", "Sign in", newFormView("/login", "Sign in", loginFields, nil, nil), "")
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	values, err := decodeForm(r, &form)
	if err == nil {
		sess := h.sessions.FromRequest(w, r)
		err = h.auth.Login(r.Context(), sess, requestLang(w, r), strings.TrimSpace(form.Mobile), form.Password)
	}
	if err != nil {
		values.Del("password")
		fields, message := formFailure(err, "Login failed, check your mobile number and password")
		view := newFormView("/login", "Sign in", loginFields, values, fields)
		view.Error = message
		status := http.StatusUnprocessableEntity
		if message != "" {
			status = http.StatusUnauthorized
		}
		h.renderAuth(w, r, status, "login", "Sign in", view, "")
		return
	}

	h.sessions.ResetFlow(w, r).Clear()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) RequestOTPPage(w http.ResponseWriter, r *http.Request) {
	values := map[string][]string{}
	if mobile, ok := h.sessions.ResetFlow(w, r).Mobile(); ok {
		values["mobile"] = []string{mobile}
	}
	h.renderAuth(w, r, http.StatusOK, "request_otp", "Forgot password",
		newFormView("/request-otp", "Send code", mobileFields, values, nil), "")
}

func (h *Handlers) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var form mobileForm
	values, err := decodeForm(r, &form)
	mobile := strings.TrimSpace(form.Mobile)
	if err == nil {
		err = h.auth.RequestOTP(r.Context(), requestLang(w, r), mobile)
	}
	if err != nil {
		fields, message := formFailure(err, "Could not send the verification code")
		view := newFormView("/request-otp", "Send code", mobileFields, values, fields)
		view.Error = message
		h.renderAuth(w, r, http.StatusUnprocessableEntity, "request_otp", "Forgot password", view, "")
		return
	}

	h.sessions.ResetFlow(w, r).SetMobile(mobile)
	http.Redirect(w, r, "/verify-otp", http.StatusSeeOther)
}

func (h *Handlers) VerifyOTPPage(w http.ResponseWriter, r *http.Request) {
	mobile, ok := h.sessions.ResetFlow(w, r).Mobile()
	if !ok {
		http.Redirect(w, r, "/request-otp", http.StatusSeeOther)
		return
	}
	h.renderAuth(w, r, http.StatusOK, "verify_otp", "Verify code",
		newFormView("/verify-otp", "Verify", codeFields, nil, nil), mobile)
}

// VerifyOTP always verifies against the mobile the code was requested for.
func (h *Handlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	flow := h.sessions.ResetFlow(w, r)
	mobile, ok := flow.Mobile()
	if !ok {
		http.Redirect(w, r, "/request-otp", http.StatusSeeOther)
		return
	}

	var form codeForm
	values, err := decodeForm(r, &form)
	if err == nil {
		err = h.auth.VerifyOTP(r.Context(), requestLang(w, r), mobile, strings.TrimSpace(form.Code))
	}
	if err != nil {
		fields, message := formFailure(err, "The code is invalid or has expired")
		view := newFormView("/verify-otp", "Verify", codeFields, values, fields)
		view.Error = message
		h.renderAuth(w, r, http.StatusUnprocessableEntity, "verify_otp", "Verify code", view, mobile)
		return
	}

	flow.MarkVerified()
	http.Redirect(w, r, "/reset-password", http.StatusSeeOther)
}

func (h *Handlers) ResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	flow := h.sessions.ResetFlow(w, r)
	mobile, ok := flow.Mobile()
	if !ok || !flow.Verified() {
		http.Redirect(w, r, "/verify-otp", http.StatusSeeOther)
		return
	}
	h.renderAuth(w, r, http.StatusOK, "reset_password", "Reset password",
		newFormView("/reset-password", "Reset password", resetFields, nil, nil), mobile)
}

func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	flow := h.sessions.ResetFlow(w, r)
	mobile, ok := flow.Mobile()
	if !ok || !flow.Verified() {
		http.Redirect(w, r, "/verify-otp", http.StatusSeeOther)
		return
	}

	var form resetForm
	_, err := decodeForm(r, &form)
	if err == nil {
		err = h.auth.ResetPassword(r.Context(), requestLang(w, r), mobile, form.NewPassword, form.ConfirmPassword)
	}
	if err != nil {
		fields, message := formFailure(err, "Could not reset the password")
		if errors.Is(err, service.ErrPasswordMismatch) {
			fields, message = validation.Errors{"confirmPassword": "Passwords do not match"}, ""
		}
		view := newFormView("/reset-password", "Reset password", resetFields, nil, fields)
		view.Error = message
		h.renderAuth(w, r, http.StatusUnprocessableEntity, "reset_password", "Reset password", view, mobile)
		return
	}

	flow.Complete()
	setToast(w, ToastSuccess, "Password updated, please sign in")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Logout drops the session whatever the backend says and clears every
// client-side cookie the dashboard writes.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	lang := requestLang(w, r)
	h.auth.Logout(r.Context(), h.sessions.FromRequest(w, r), lang)
	h.sessions.ResetFlow(w, r).Clear()
	clearCookie(w, ToastCookie)
	clearCookie(w, LangCookie)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

type apiLoginRequest struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

type apiLoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// APILogin is the JSON login for callers without cookies; the token pair is
// returned instead of stored.
func (h *Handlers) APILogin(w http.ResponseWriter, r *http.Request) {
	var req apiLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	sess := session.NewMemoryStore()
	if err := h.auth.Login(r.Context(), sess, requestLang(w, r), strings.TrimSpace(req.Mobile), req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			h.respondWithError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
			return
		}
		h.respondWithError(w, http.StatusUnauthorized, "LOGIN_FAILED", query.UserMessage(err, "Login failed"))
		return
	}

	token, _ := sess.Token()
	refresh, _ := sess.RefreshToken()
	h.respondWithJSON(w, http.StatusOK, apiLoginResponse{Token: token, RefreshToken: refresh})
}

// APILogout logs out the bearer token of the request.
func (h *Handlers) APILogout(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.FromRequest(w, r)
	if _, ok := sess.Token(); !ok {
		h.respondWithError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "No session")
		return
	}
	h.auth.Logout(r.Context(), sess, requestLang(w, r))
	w.WriteHeader(http.StatusNoContent)
}
