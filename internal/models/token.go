package models

// TokenPair is what the backend issues on a successful login.
type TokenPair struct {
	Token        string `json:"token" validate:"required"`
	RefreshToken string `json:"refreshToken"`
}

type LoginRequest struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

type OTPRequest struct {
	Mobile string `json:"mobile"`
}

type VerifyOTPRequest struct {
	Mobile string `json:"mobile"`
	Code   string `json:"code"`
}

type ResetPasswordRequest struct {
	Mobile          string `json:"mobile"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}
