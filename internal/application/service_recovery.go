package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/thermotrap/identity-service/internal/domain"
)

// ForgotPassword issues a fresh OTP for a user-partition principal and mails it.
// A new request overwrites the previous OTP. If the mail relay fails the OTP stays persisted.
func (s *Service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (ForgotPasswordResult, error) {
	if err := validateRequest(req, "Email is required"); err != nil {
		return ForgotPasswordResult{}, err
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ForgotPasswordResult{}, domain.ErrNotFound
		}
		return ForgotPasswordResult{}, internalError("find user", err)
	}

	otp, err := s.otps.Generate()
	if err != nil {
		return ForgotPasswordResult{}, internalError("generate otp", err)
	}
	now := s.nowFn()
	state := domain.ResetState{
		PrincipalID: user.ID,
		OTP:         otp,
		ExpiresAt:   now.Add(s.cfg.OTPTTL),
		UpdatedAt:   now,
	}
	if err := s.resets.Upsert(ctx, state); err != nil {
		return ForgotPasswordResult{}, internalError("upsert reset state", err)
	}

	msg, err := resetMailMessage(user.Email, otp, s.cfg.OTPTTL)
	if err != nil {
		return ForgotPasswordResult{}, internalError("render reset mail", err)
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		logOperation(ctx, slog.LevelError, "reset mail dispatch failed", "forgot_password", "failure",
			"principal_id", user.ID,
			"error", err,
		)
		return ForgotPasswordResult{}, internalError("send reset mail", err)
	}

	logOperation(ctx, slog.LevelInfo, "reset otp issued", "forgot_password", "success",
		"principal_id", user.ID,
		"phase", domain.ResetPhaseIssued,
		"expires_at", state.ExpiresAt,
	)
	return ForgotPasswordResult{Email: user.Email, ExpiresAt: state.ExpiresAt}, nil
}

// ConfirmOTP checks a code against the live reset state without consuming it.
func (s *Service) ConfirmOTP(ctx context.Context, req ConfirmOTPRequest) (ConfirmOTPResult, error) {
	if err := validateRequest(req, "Email and OTP are required"); err != nil {
		return ConfirmOTPResult{}, err
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ConfirmOTPResult{}, domain.ErrInvalidResetRequest
		}
		return ConfirmOTPResult{}, internalError("find user", err)
	}
	if err := s.checkOTP(ctx, user, req.OTP); err != nil {
		return ConfirmOTPResult{}, err
	}
	return ConfirmOTPResult{Email: user.Email}, nil
}

// ResetPassword sets a new password for a user-partition principal and clears its reset state.
// Unless live-OTP completion is enabled, a prior ConfirmOTP is trusted and no state is required.
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := validateRequest(req, "Email and new password are required"); err != nil {
		return err
	}
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return internalError("find user", err)
	}

	if s.cfg.RequireLiveOTP {
		if req.OTP == "" {
			return domain.NewValidationError("OTP is required")
		}
		if err := s.checkOTP(ctx, user, req.OTP); err != nil {
			return err
		}
	}
	if err := domain.ValidatePassword(req.NewPassword, s.cfg.MinPasswordLength); err != nil {
		return err
	}

	passwordHash, err := s.hasher.Hash(ctx, req.NewPassword)
	if err != nil {
		return internalError("hash password", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, passwordHash, s.nowFn()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return internalError("update password", err)
	}
	if err := s.resets.Delete(ctx, user.ID); err != nil {
		logOperation(ctx, slog.LevelError, "reset state cleanup failed", "reset_password", "failure",
			"principal_id", user.ID,
			"error", err,
		)
		return internalError("delete reset state", err)
	}

	logOperation(ctx, slog.LevelInfo, "password reset completed", "reset_password", "success",
		"principal_id", user.ID,
		"live_otp_required", s.cfg.RequireLiveOTP,
	)
	return nil
}

// SweepExpiredResets removes reset states that expired longer ago than the retention window.
func (s *Service) SweepExpiredResets(ctx context.Context) (int64, error) {
	cutoff := s.nowFn().Add(-s.cfg.ResetRetention)
	n, err := s.resets.DeleteExpired(ctx, cutoff)
	if err != nil {
		return 0, internalError("delete expired reset states", err)
	}
	return n, nil
}

func (s *Service) checkOTP(ctx context.Context, user domain.Principal, code string) error {
	state, err := s.resets.Get(ctx, user.ID)
	if err != nil {
		return internalError("load reset state", err)
	}
	phase := domain.PhaseOf(state, code, s.nowFn())
	if phase != domain.ResetPhaseVerified {
		logOperation(ctx, slog.LevelWarn, "otp rejected", "confirm_otp", "failure",
			"principal_id", user.ID,
			"phase", phase,
		)
	}
	return phase.Err()
}
