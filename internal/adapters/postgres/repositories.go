package postgres

import (
	"github.com/thermotrap/identity-service/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Users       ports.PrincipalSource
	Admins      ports.PrincipalSource
	ResetStates ports.ResetStateStore
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:       &userRepository{db: db},
		Admins:      &adminRepository{db: db},
		ResetStates: &resetStateRepository{db: db},
	}
}
