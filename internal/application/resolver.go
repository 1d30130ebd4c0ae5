package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/thermotrap/identity-service/internal/domain"
	"github.com/thermotrap/identity-service/internal/ports"
)

// PrincipalResolver tries each partition in order and returns the first match.
// Order is precedence: when an email exists in several partitions the earliest wins.
type PrincipalResolver struct {
	sources []ports.PrincipalSource
}

func NewPrincipalResolver(sources ...ports.PrincipalSource) *PrincipalResolver {
	return &PrincipalResolver{sources: sources}
}

// ResolveEmail returns domain.ErrNotFound when no partition knows the email.
func (r *PrincipalResolver) ResolveEmail(ctx context.Context, email string) (domain.Principal, ports.PrincipalSource, error) {
	return r.resolve(func(src ports.PrincipalSource) (domain.Principal, error) {
		return src.FindByEmail(ctx, email)
	})
}

func (r *PrincipalResolver) ResolveID(ctx context.Context, id uuid.UUID) (domain.Principal, ports.PrincipalSource, error) {
	return r.resolve(func(src ports.PrincipalSource) (domain.Principal, error) {
		return src.FindByID(ctx, id)
	})
}

func (r *PrincipalResolver) resolve(find func(ports.PrincipalSource) (domain.Principal, error)) (domain.Principal, ports.PrincipalSource, error) {
	for _, src := range r.sources {
		principal, err := find(src)
		if err == nil {
			return normalizePrincipal(principal, src.Partition()), src, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return domain.Principal{}, nil, internalError("resolve principal in "+string(src.Partition()), err)
		}
	}
	return domain.Principal{}, nil, domain.ErrNotFound
}

// normalizePrincipal fixes the role tag from the partition the record came from.
func normalizePrincipal(p domain.Principal, partition domain.Partition) domain.Principal {
	p.Partition = partition
	switch {
	case partition == domain.PartitionAdmins:
		p.Role = domain.RoleAdmin
	case p.Role == "":
		p.Role = domain.RoleUser
	}
	return p
}
