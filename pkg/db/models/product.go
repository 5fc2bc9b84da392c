package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a sellable item. Images live in a child table keyed by
// slot so that a slot can be replaced without touching its siblings.
type Product struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string           `gorm:"not null" json:"name"`
	Description   string           `json:"description"`
	Unit          *string          `json:"unit,omitempty"`
	Quantity      int              `gorm:"not null;default:0" json:"quantity"`
	Price         decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"price"`
	OfferPrice    *decimal.Decimal `gorm:"column:offer_price;type:numeric(12,2)" json:"offerPrice,omitempty"`
	TodaysSpecial bool             `gorm:"column:todays_special;not null;default:false" json:"todaysSpecial"`
	CategoryID    uuid.UUID        `gorm:"column:category_id;type:uuid;not null;index" json:"categoryId"`
	SubCategoryID *uuid.UUID       `gorm:"column:subcategory_id;type:uuid;index" json:"subcategoryId,omitempty"`
	BrandID       *uuid.UUID       `gorm:"column:brand_id;type:uuid;index" json:"brandId,omitempty"`
	VariantTypeID *uuid.UUID       `gorm:"column:variant_type_id;type:uuid" json:"variantTypeId,omitempty"`
	Variants      pq.StringArray   `gorm:"type:text[]" json:"variants"`

	Images []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// EffectivePrice returns the offer price when one is set, the list
// price otherwise.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.OfferPrice != nil && p.OfferPrice.GreaterThan(decimal.Zero) {
		return *p.OfferPrice
	}
	return p.Price
}

// ProductImage occupies one of five fixed slots on a product. Uploading
// to an occupied slot replaces the stored URL.
type ProductImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:product_images_product_slot_key" json:"-"`
	Slot      int       `gorm:"not null;uniqueIndex:product_images_product_slot_key" json:"image"`
	URL       string    `gorm:"not null" json:"url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (i *ProductImage) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

const (
	// ImageSlotMin and ImageSlotMax bound the valid product image slots.
	ImageSlotMin = 1
	ImageSlotMax = 5
)
