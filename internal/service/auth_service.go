package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/fatla/fatla-admin/internal/apiclient"
	"github.com/fatla/fatla-admin/internal/models"
	"github.com/fatla/fatla-admin/internal/session"
	"github.com/fatla/fatla-admin/internal/validation"
	"github.com/sirupsen/logrus"
)

var (
	ErrPasswordMismatch = errors.New("new password and confirmation do not match")
	ErrInvalidInput     = validation.ErrInvalid
)

const authSegment = "Auth"

// AuthState is where an admin stands in the sign-in and reset flow.
type AuthState int

const (
	StateAnonymous AuthState = iota
	StateOTPRequested
	StateOTPVerified
	StatePasswordReset
	StateAuthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateOTPRequested:
		return "otp_requested"
	case StateOTPVerified:
		return "otp_verified"
	case StatePasswordReset:
		return "password_reset"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// ResetFlowReader is the read side of session.ResetFlow.
type ResetFlowReader interface {
	Mobile() (string, bool)
	Verified() bool
	Completed() bool
}

// State derives the current AuthState from the request's session objects.
func State(tokens session.TokenReader, flow ResetFlowReader) AuthState {
	if _, ok := tokens.Token(); ok {
		return StateAuthenticated
	}
	if flow != nil {
		if flow.Completed() {
			return StatePasswordReset
		}
		if flow.Verified() {
			return StateOTPVerified
		}
		if _, ok := flow.Mobile(); ok {
			return StateOTPRequested
		}
	}
	return StateAnonymous
}

type loginInput struct {
	Mobile   string `json:"mobile" validate:"required,e164"`
	Password string `json:"password" validate:"required,min=6"`
}

type mobileInput struct {
	Mobile string `json:"mobile" validate:"required,e164"`
}

type verifyInput struct {
	Mobile string `json:"mobile" validate:"required,e164"`
	Code   string `json:"code" validate:"required,numeric,min=4,max=8"`
}

type resetInput struct {
	Mobile          string `json:"mobile" validate:"required,e164"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

type AuthService struct {
	clients *apiclient.Factory
	logger  *logrus.Logger
}

func NewAuthService(clients *apiclient.Factory, logger *logrus.Logger) *AuthService {
	return &AuthService{
		clients: clients,
		logger:  logger,
	}
}

// Login exchanges credentials for a token pair and stores it in sess. On
// failure sess is left as it was.
func (s *AuthService) Login(ctx context.Context, sess session.Store, lang, mobile, password string) error {
	if err := validation.Check(loginInput{Mobile: mobile, Password: password}); err != nil {
		return err
	}

	var tokens models.TokenPair
	err := s.clients.New(nil).Call(ctx, http.MethodPost, apiclient.Path(lang, authSegment, "Login"),
		models.LoginRequest{Mobile: mobile, Password: password}, &tokens)
	if err != nil {
		s.logger.WithError(err).WithField("mobile", mobile).Info("Login rejected")
		return fmt.Errorf("failed to login: %w", err)
	}

	sess.Set(tokens.Token, tokens.RefreshToken)
	s.logger.WithField("mobile", mobile).Info("Admin logged in")
	return nil
}

// RequestOTP asks the backend to send a reset code to mobile.
func (s *AuthService) RequestOTP(ctx context.Context, lang, mobile string) error {
	if err := validation.Check(mobileInput{Mobile: mobile}); err != nil {
		return err
	}

	err := s.clients.New(nil).Call(ctx, http.MethodPost, apiclient.Path(lang, authSegment, "SendOtp"),
		models.OTPRequest{Mobile: mobile}, nil)
	if err != nil {
		return fmt.Errorf("failed to request otp: %w", err)
	}
	return nil
}

// VerifyOTP checks code for the mobile the OTP was requested for. No token is
// issued at this step.
func (s *AuthService) VerifyOTP(ctx context.Context, lang, mobile, code string) error {
	if err := validation.Check(verifyInput{Mobile: mobile, Code: code}); err != nil {
		return err
	}

	err := s.clients.New(nil).Call(ctx, http.MethodPost, apiclient.Path(lang, authSegment, "VerifyOtp"),
		models.VerifyOTPRequest{Mobile: mobile, Code: code}, nil)
	if err != nil {
		return fmt.Errorf("failed to verify otp: %w", err)
	}
	return nil
}

// ResetPassword sets a new password. Mismatched passwords are rejected before
// anything is sent.
func (s *AuthService) ResetPassword(ctx context.Context, lang, mobile, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	in := resetInput{Mobile: mobile, NewPassword: newPassword, ConfirmPassword: confirmPassword}
	if err := validation.Check(in); err != nil {
		return err
	}

	err := s.clients.New(nil).Call(ctx, http.MethodPost, apiclient.Path(lang, authSegment, "ResetPassword"),
		models.ResetPasswordRequest{Mobile: mobile, NewPassword: newPassword, ConfirmPassword: confirmPassword}, nil)
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	s.logger.WithField("mobile", mobile).Info("Password reset completed")
	return nil
}

// Logout tells the backend on a best-effort basis and always removes the
// token pair from sess, whatever the backend answers.
func (s *AuthService) Logout(ctx context.Context, sess session.Store, lang string) {
	defer sess.Remove()

	body := map[string]string{}
	if refresh, ok := sess.RefreshToken(); ok {
		body["refreshToken"] = refresh
	}

	err := s.clients.New(sess).Call(ctx, http.MethodPost, apiclient.Path(lang, authSegment, "Logout"), body, nil)
	if err != nil {
		s.logger.WithError(err).Warn("Backend logout failed, clearing session anyway")
	}
}
