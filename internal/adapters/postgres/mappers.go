package postgres

import (
	"strings"

	"github.com/thermotrap/identity-service/internal/domain"
)

func toDomainUser(row userModel) domain.Principal {
	role := domain.Role(strings.ToUpper(strings.TrimSpace(row.Role)))
	if role == "" {
		role = domain.RoleUser
	}
	return domain.Principal{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		DisplayName:  row.Name,
		Role:         role,
		Active:       row.IsActivated,
		Partition:    domain.PartitionUsers,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func toDomainAdmin(row adminModel) domain.Principal {
	return domain.Principal{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		DisplayName:  row.Name,
		Role:         domain.RoleAdmin,
		Active:       true,
		Partition:    domain.PartitionAdmins,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func toDomainResetState(row passwordResetModel) domain.ResetState {
	return domain.ResetState{
		PrincipalID: row.PrincipalID,
		OTP:         row.OTP,
		ExpiresAt:   row.ExpiresAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}
