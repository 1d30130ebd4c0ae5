package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/thermotrap/identity-service/internal/domain"
)

// ChangePassword replaces the password of an authenticated subject after checking the old one.
// The subject comes from verified token claims; it is not re-derived here.
func (s *Service) ChangePassword(ctx context.Context, subjectID uuid.UUID, req ChangePasswordRequest) error {
	if subjectID == uuid.Nil {
		return domain.ErrUnauthenticated
	}
	if err := validateRequest(req, "Old password and new password are required"); err != nil {
		return err
	}
	principal, source, err := s.resolver.ResolveID(ctx, subjectID)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(ctx, principal.PasswordHash, req.OldPassword); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return internalError("compare password", ctxErr)
		}
		logOperation(ctx, slog.LevelWarn, "password change rejected", "change_password", "failure",
			"principal_id", principal.ID,
			"reason", "current_password_mismatch",
		)
		return domain.ErrInvalidCredentials
	}
	if err := domain.ValidatePassword(req.NewPassword, s.cfg.MinPasswordLength); err != nil {
		return err
	}

	passwordHash, err := s.hasher.Hash(ctx, req.NewPassword)
	if err != nil {
		return internalError("hash password", err)
	}
	if err := source.UpdatePasswordHash(ctx, principal.ID, passwordHash, s.nowFn()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return internalError("update password", err)
	}

	logOperation(ctx, slog.LevelInfo, "password changed", "change_password", "success",
		"principal_id", principal.ID,
		"partition", principal.Partition,
	)
	return nil
}
