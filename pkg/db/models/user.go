package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the dashboard owner identity used for remote sync scoping.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"column:id;type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"column:email;not null;uniqueIndex:idx_users_email"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `json:"createdAt" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }
