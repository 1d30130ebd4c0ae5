package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/thermotrap/identity-service/internal/domain"
)

// PrincipalSource is one storage partition of principals (users or admins).
// Lookups return domain.ErrNotFound when no record matches.
type PrincipalSource interface {
	Partition() domain.Partition
	FindByEmail(ctx context.Context, email string) (domain.Principal, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Principal, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string, updatedAt time.Time) error
}

// ResetStateStore keeps at most one live reset state per principal.
// Get returns nil, nil when no state exists.
type ResetStateStore interface {
	Get(ctx context.Context, principalID uuid.UUID) (*domain.ResetState, error)
	Upsert(ctx context.Context, state domain.ResetState) error
	Delete(ctx context.Context, principalID uuid.UUID) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
