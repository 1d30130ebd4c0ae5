package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Compare(ctx context.Context, hash, password string) error
}

type OTPGenerator interface {
	Generate() (string, error)
}

type TokenClaims struct {
	SubjectID uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type TokenIssuer interface {
	Issue(claims TokenClaims) (string, error)
	Verify(token string) (TokenClaims, error)
	TTL() time.Duration
}
