package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel is the login account. One row per normalized email; role never changes once set.
type UserModel struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	Email        string    `json:"email" gorm:"type:varchar(255);not null;column:email;uniqueIndex:uq_users_email"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null;column:password_hash"`
	Role         string    `json:"role" gorm:"type:varchar(20);not null;column:role;index"`
	FullName     string    `json:"full_name" gorm:"type:varchar(120);not null;column:full_name"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true;column:is_active"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }
