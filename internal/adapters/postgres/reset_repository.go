package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/thermotrap/identity-service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type resetStateRepository struct {
	db *gorm.DB
}

func (r *resetStateRepository) Get(ctx context.Context, principalID uuid.UUID) (*domain.ResetState, error) {
	var row passwordResetModel
	if err := r.db.WithContext(ctx).
		Where("principal_id = ?", principalID).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	state := toDomainResetState(row)
	return &state, nil
}

// Upsert replaces any previous OTP for the principal; concurrent callers are last-writer-wins.
func (r *resetStateRepository) Upsert(ctx context.Context, state domain.ResetState) error {
	row := passwordResetModel{
		PrincipalID: state.PrincipalID,
		OTP:         state.OTP,
		ExpiresAt:   state.ExpiresAt,
		UpdatedAt:   state.UpdatedAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "principal_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"otp", "expires_at", "updated_at"}),
		}).
		Create(&row).Error
}

func (r *resetStateRepository) Delete(ctx context.Context, principalID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("principal_id = ?", principalID).
		Delete(&passwordResetModel{}).Error
}

func (r *resetStateRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&passwordResetModel{})
	return res.RowsAffected, res.Error
}
