package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the canonical identity entity.
type User struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string     `gorm:"not null" json:"name"`
	Email           string     `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash    string     `gorm:"column:password_hash;not null" json:"-"`
	Phone           *string    `gorm:"column:phone" json:"phoneNo,omitempty"`
	ProfileImageURL *string    `gorm:"column:profile_image_url" json:"profileImage,omitempty"`
	FCMToken        *string    `gorm:"column:fcm_token" json:"-"`
	LastLoginAt     *time.Time `gorm:"column:last_login_at" json:"-"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
