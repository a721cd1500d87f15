package session

import "net/http"

const (
	ResetMobileCookie   = "resetMobileNumber"
	ResetVerifiedCookie = "resetVerified"
	ResetDoneCookie     = "resetDone"
)

// ResetFlow carries the mobile number between the OTP request, OTP verify and
// password reset steps. Its cookies have no Max-Age, so they end with the
// browser session.
type ResetFlow struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool

	written  bool
	mobile   string
	verified bool
	done     bool
}

func (f *ResetFlow) Mobile() (string, bool) {
	if f.written {
		return f.mobile, f.mobile != ""
	}
	return cookieValue(f.r, ResetMobileCookie)
}

func (f *ResetFlow) Verified() bool {
	if f.written {
		return f.verified
	}
	v, ok := cookieValue(f.r, ResetVerifiedCookie)
	return ok && v == "1"
}

// Completed reports a password reset that has not been followed by a login.
func (f *ResetFlow) Completed() bool {
	if f.written {
		return f.done
	}
	v, ok := cookieValue(f.r, ResetDoneCookie)
	return ok && v == "1"
}

// SetMobile starts a new flow; any earlier verification is dropped.
func (f *ResetFlow) SetMobile(mobile string) {
	f.written = true
	f.mobile = mobile
	f.verified = false
	f.done = false
	http.SetCookie(f.w, f.cookie(ResetMobileCookie, mobile, 0))
	http.SetCookie(f.w, f.cookie(ResetVerifiedCookie, "", -1))
	http.SetCookie(f.w, f.cookie(ResetDoneCookie, "", -1))
}

func (f *ResetFlow) MarkVerified() {
	f.mobile, _ = f.Mobile()
	f.written = true
	f.verified = true
	http.SetCookie(f.w, f.cookie(ResetVerifiedCookie, "1", 0))
}

// Complete ends a successful reset. The mobile and verification are dropped
// and only the completion marker remains until the next login.
func (f *ResetFlow) Complete() {
	f.written = true
	f.mobile = ""
	f.verified = false
	f.done = true
	http.SetCookie(f.w, f.cookie(ResetMobileCookie, "", -1))
	http.SetCookie(f.w, f.cookie(ResetVerifiedCookie, "", -1))
	http.SetCookie(f.w, f.cookie(ResetDoneCookie, "1", 0))
}

func (f *ResetFlow) Clear() {
	f.written = true
	f.mobile = ""
	f.verified = false
	f.done = false
	http.SetCookie(f.w, f.cookie(ResetMobileCookie, "", -1))
	http.SetCookie(f.w, f.cookie(ResetVerifiedCookie, "", -1))
	http.SetCookie(f.w, f.cookie(ResetDoneCookie, "", -1))
}

func (f *ResetFlow) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
