package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification records a broadcast push that was (or was attempted to
// be) sent to the public topic, so admins can review history.
type Notification struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title             string    `gorm:"not null" json:"title"`
	Description       string    `gorm:"not null" json:"description"`
	ImageURL          *string   `gorm:"column:image_url" json:"imageUrl,omitempty"`
	Delivered         bool      `gorm:"not null;default:false" json:"delivered"`
	ProviderMessageID *string   `gorm:"column:provider_message_id" json:"providerMessageId,omitempty"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
