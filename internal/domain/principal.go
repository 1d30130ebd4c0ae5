package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Partition names the storage partition a principal was resolved from.
type Partition string

const (
	PartitionUsers  Partition = "users"
	PartitionAdmins Partition = "admins"
)

type Principal struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	DisplayName  string
	Role         Role
	Active       bool
	Partition    Partition
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicPrincipal is the projection that may leave the service.
type PublicPrincipal struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name,omitempty"`
	Role  Role      `json:"role,omitempty"`
}

func (p Principal) Public() PublicPrincipal {
	return PublicPrincipal{
		ID:    p.ID,
		Email: p.Email,
		Name:  p.DisplayName,
		Role:  p.Role,
	}
}
