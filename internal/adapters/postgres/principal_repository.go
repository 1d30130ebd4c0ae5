package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/thermotrap/identity-service/internal/domain"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Partition() domain.Partition { return domain.PartitionUsers }

func (r *userRepository) FindByEmail(ctx context.Context, email string) (domain.Principal, error) {
	var row userModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", email).
		Take(&row).Error; err != nil {
		return domain.Principal{}, notFoundOr(err)
	}
	return toDomainUser(row), nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Principal, error) {
	var row userModel
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&row).Error; err != nil {
		return domain.Principal{}, notFoundOr(err)
	}
	return toDomainUser(row), nil
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string, updatedAt time.Time) error {
	return updatePasswordHash(ctx, r.db, &userModel{}, id, passwordHash, updatedAt)
}

type adminRepository struct {
	db *gorm.DB
}

func (r *adminRepository) Partition() domain.Partition { return domain.PartitionAdmins }

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (domain.Principal, error) {
	var row adminModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", email).
		Take(&row).Error; err != nil {
		return domain.Principal{}, notFoundOr(err)
	}
	return toDomainAdmin(row), nil
}

func (r *adminRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Principal, error) {
	var row adminModel
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&row).Error; err != nil {
		return domain.Principal{}, notFoundOr(err)
	}
	return toDomainAdmin(row), nil
}

func (r *adminRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string, updatedAt time.Time) error {
	return updatePasswordHash(ctx, r.db, &adminModel{}, id, passwordHash, updatedAt)
}

func updatePasswordHash(ctx context.Context, db *gorm.DB, model any, id uuid.UUID, passwordHash string, updatedAt time.Time) error {
	res := db.WithContext(ctx).
		Model(model).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"updated_at":    updatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
