package application

import (
	"time"

	"github.com/thermotrap/identity-service/internal/domain"
)

type Config struct {
	OTPTTL         time.Duration
	ResetRetention time.Duration
	RequireLiveOTP bool
	// MinPasswordLength is opt-in; zero accepts any non-empty password.
	MinPasswordLength int
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required"`
}

// LoginVariant selects the response shape. Admin and user clients expect different bodies.
type LoginVariant string

const (
	LoginVariantUser  LoginVariant = "user"
	LoginVariantAdmin LoginVariant = "admin"
)

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Principal domain.PublicPrincipal
	Variant   LoginVariant
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,max=254"`
}

type ForgotPasswordResult struct {
	Email     string
	ExpiresAt time.Time
}

type ConfirmOTPRequest struct {
	Email string `json:"email" validate:"required,max=254"`
	OTP   string `json:"otp" validate:"required"`
}

type ConfirmOTPResult struct {
	Email string
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,max=254"`
	NewPassword string `json:"newPassword" validate:"required"`
	// OTP is only checked when live-OTP completion is enabled.
	OTP string `json:"otp,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}
