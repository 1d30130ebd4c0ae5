package postgres

import (
	"time"

	"github.com/google/uuid"
)

type userModel struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	Name         string    `gorm:"column:name"`
	Role         string    `gorm:"column:role"`
	IsActivated  bool      `gorm:"column:is_activated"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type adminModel struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	Name         string    `gorm:"column:name"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (adminModel) TableName() string { return "admins" }

type passwordResetModel struct {
	PrincipalID uuid.UUID `gorm:"column:principal_id;type:uuid;primaryKey"`
	OTP         string    `gorm:"column:otp"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (passwordResetModel) TableName() string { return "password_resets" }
