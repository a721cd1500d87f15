package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Routes registers every page, form action and JSON endpoint on router.
func (h *Handlers) Routes(router *mux.Router) {
	router.NotFoundHandler = http.HandlerFunc(h.NotFound)

	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/me", h.Me).Methods(http.MethodGet)
	api.HandleFunc("/auth/login", h.APILogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.APILogout).Methods(http.MethodPost)

	router.HandleFunc("/login", h.LoginPage).Methods(http.MethodGet)
	router.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	router.HandleFunc("/request-otp", h.RequestOTPPage).Methods(http.MethodGet)
	router.HandleFunc("/request-otp", h.RequestOTP).Methods(http.MethodPost)
	router.HandleFunc("/verify-otp", h.VerifyOTPPage).Methods(http.MethodGet)
	router.HandleFunc("/verify-otp", h.VerifyOTP).Methods(http.MethodPost)
	router.HandleFunc("/reset-password", h.ResetPasswordPage).Methods(http.MethodGet)
	router.HandleFunc("/reset-password", h.ResetPassword).Methods(http.MethodPost)
	router.HandleFunc("/logout", h.Logout).Methods(http.MethodPost)

	router.HandleFunc("/", h.Dashboard).Methods(http.MethodGet)
	h.mountScreens(router)
	h.mountContent(router)
}
