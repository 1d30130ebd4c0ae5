package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/thermotrap/identity-service/internal/application"
	"github.com/thermotrap/identity-service/internal/domain"
	"github.com/thermotrap/identity-service/internal/ports"
)

// IdentityService is the application surface the HTTP adapter drives.
type IdentityService interface {
	Login(ctx context.Context, req application.LoginRequest) (application.LoginResult, error)
	ForgotPassword(ctx context.Context, req application.ForgotPasswordRequest) (application.ForgotPasswordResult, error)
	ConfirmOTP(ctx context.Context, req application.ConfirmOTPRequest) (application.ConfirmOTPResult, error)
	ResetPassword(ctx context.Context, req application.ResetPasswordRequest) error
	ChangePassword(ctx context.Context, subjectID uuid.UUID, req application.ChangePasswordRequest) error
	Authenticate(ctx context.Context, rawToken string) (ports.TokenClaims, error)
	CurrentPrincipal(ctx context.Context, subjectID uuid.UUID) (domain.PublicPrincipal, error)
}

// ReadinessCheck reports whether backing stores are reachable.
type ReadinessCheck func(ctx context.Context) error

type Handler struct {
	service IdentityService
	ready   ReadinessCheck
}

func NewHandler(service IdentityService, ready ReadinessCheck) *Handler {
	return &Handler{service: service, ready: ready}
}

// NewRouter registers identity routes and the shared middleware stack.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/login", handler.login)
		r.Post("/forgot-password", handler.forgotPassword)
		r.Post("/confirm-otp", handler.confirmOTP)
		r.Post("/reset-password", handler.resetPassword)

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Post("/change-password", handler.changePassword)
			r.Get("/me", handler.me)
		})
	})

	return r
}
