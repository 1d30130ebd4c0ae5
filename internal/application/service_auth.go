package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/thermotrap/identity-service/internal/domain"
	"github.com/thermotrap/identity-service/internal/ports"
)

// Login resolves the principal across partitions, verifies the password and issues a token.
// Unknown email and wrong password both return domain.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	if err := validateRequest(req, "Email and password are required"); err != nil {
		return LoginResult{}, err
	}
	email := normalizeEmail(req.Email)

	principal, _, err := s.resolver.ResolveEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Burn a comparison so unknown emails take as long as wrong passwords.
			_ = s.hasher.Compare(ctx, s.timingHash(ctx), req.Password)
			logOperation(ctx, slog.LevelWarn, "login rejected", "login", "failure", "reason", "unknown_principal")
			return LoginResult{}, domain.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := s.hasher.Compare(ctx, principal.PasswordHash, req.Password); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return LoginResult{}, internalError("compare password", ctxErr)
		}
		logOperation(ctx, slog.LevelWarn, "login rejected", "login", "failure",
			"reason", "password_mismatch",
			"partition", principal.Partition,
		)
		return LoginResult{}, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ports.TokenClaims{
		SubjectID: principal.ID,
		Email:     principal.Email,
		Role:      string(principal.Role),
		Name:      principal.DisplayName,
	})
	if err != nil {
		return LoginResult{}, internalError("issue token", err)
	}

	variant := LoginVariantUser
	if principal.Partition == domain.PartitionAdmins {
		variant = LoginVariantAdmin
	}
	logOperation(ctx, slog.LevelInfo, "login succeeded", "login", "success",
		"principal_id", principal.ID,
		"partition", principal.Partition,
	)
	return LoginResult{
		Token:     token,
		ExpiresAt: s.nowFn().Add(s.tokens.TTL()),
		Principal: principal.Public(),
		Variant:   variant,
	}, nil
}

// Authenticate verifies a bearer token and returns its claims.
func (s *Service) Authenticate(_ context.Context, rawToken string) (ports.TokenClaims, error) {
	if rawToken == "" {
		return ports.TokenClaims{}, domain.ErrUnauthenticated
	}
	claims, err := s.tokens.Verify(rawToken)
	if err != nil {
		return ports.TokenClaims{}, domain.ErrUnauthenticated
	}
	return claims, nil
}

// CurrentPrincipal returns the public projection of an authenticated subject.
func (s *Service) CurrentPrincipal(ctx context.Context, subjectID uuid.UUID) (domain.PublicPrincipal, error) {
	if subjectID == uuid.Nil {
		return domain.PublicPrincipal{}, domain.ErrUnauthenticated
	}
	principal, _, err := s.resolver.ResolveID(ctx, subjectID)
	if err != nil {
		return domain.PublicPrincipal{}, err
	}
	return principal.Public(), nil
}

// timingHash returns a throwaway hash at the configured cost. A failed attempt is
// not cached, and the caller's cancellation does not apply to the computation.
func (s *Service) timingHash(ctx context.Context) string {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()
	if s.dummyHash != "" {
		return s.dummyHash
	}
	hash, err := s.hasher.Hash(context.WithoutCancel(ctx), "identity-timing-equalizer")
	if err != nil {
		logOperation(ctx, slog.LevelError, "timing hash unavailable", "login", "failure", "error", err)
		return ""
	}
	s.dummyHash = hash
	return hash
}
