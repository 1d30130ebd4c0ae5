package security

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"

	"github.com/thermotrap/identity-service/internal/ports"
)

// HashPool bounds how many hash operations run at once.
// bcrypt is CPU bound; without a bound a login burst starves every other request.
type HashPool struct {
	inner ports.PasswordHasher
	slots *semaphore.Weighted
}

// NewHashPool wraps inner with a pool of the given size. Size <= 0 uses NumCPU.
func NewHashPool(inner ports.PasswordHasher, size int) *HashPool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &HashPool{
		inner: inner,
		slots: semaphore.NewWeighted(int64(size)),
	}
}

func (p *HashPool) Hash(ctx context.Context, password string) (string, error) {
	if err := p.slots.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer p.slots.Release(1)
	return p.inner.Hash(ctx, password)
}

func (p *HashPool) Compare(ctx context.Context, hash, password string) error {
	if err := p.slots.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.slots.Release(1)
	return p.inner.Compare(ctx, hash, password)
}
