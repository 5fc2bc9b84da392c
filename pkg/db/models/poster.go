package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Poster is a promotional banner shown on the storefront home screen.
type Poster struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"posterName"`
	ImageURL  string    `gorm:"column:image_url;not null" json:"imageUrl"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (p *Poster) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
