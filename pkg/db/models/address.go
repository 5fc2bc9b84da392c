package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AddressType tags what kind of place an address points at.
type AddressType string

const (
	AddressTypeHome  AddressType = "home"
	AddressTypeWork  AddressType = "work"
	AddressTypeOther AddressType = "other"
)

func (t AddressType) IsValid() bool {
	switch t {
	case AddressTypeHome, AddressTypeWork, AddressTypeOther:
		return true
	}
	return false
}

// Address is a delivery address owned by a user. The user_id index is
// deliberately non-unique; a user keeps many addresses but at most one
// carries is_default=true, enforced by the address service.
type Address struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID   `gorm:"column:user_id;type:uuid;not null;index:addresses_user_id_idx" json:"userId"`
	Phone       string      `gorm:"not null" json:"phone"`
	Street      string      `gorm:"not null" json:"street"`
	City        string      `gorm:"not null" json:"city"`
	State       string      `gorm:"not null" json:"state"`
	PostalCode  string      `gorm:"column:postal_code;not null" json:"postalCode"`
	Country     string      `gorm:"not null;default:'India'" json:"country"`
	AddressType AddressType `gorm:"column:address_type;not null;default:'home'" json:"addressType"`
	Label       *string     `gorm:"column:label" json:"label,omitempty"`
	IsDefault   bool        `gorm:"column:is_default;not null;default:false" json:"isDefault"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (a *Address) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
