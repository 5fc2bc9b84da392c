package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

func (d DiscountType) IsValid() bool {
	return d == DiscountFixed || d == DiscountPercentage
}

type CouponStatus string

const (
	CouponActive   CouponStatus = "active"
	CouponInactive CouponStatus = "inactive"
)

// ApplicabilityScope limits a coupon to a category or product subset.
// An empty scope applies to the whole order.
type ApplicabilityScope string

const (
	ScopeAll      ApplicabilityScope = "all"
	ScopeCategory ApplicabilityScope = "category"
	ScopeProduct  ApplicabilityScope = "product"
)

type Coupon struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	Code               string             `gorm:"not null;uniqueIndex:coupons_code_key" json:"couponCode"`
	DiscountType       DiscountType       `gorm:"column:discount_type;not null" json:"discountType"`
	DiscountAmount     decimal.Decimal    `gorm:"column:discount_amount;type:numeric(12,2);not null" json:"discountAmount"`
	MinimumPurchase    decimal.Decimal    `gorm:"column:minimum_purchase;type:numeric(12,2);not null;default:0" json:"minimumPurchaseAmount"`
	EndDate            time.Time          `gorm:"column:end_date;not null" json:"endDate"`
	Status             CouponStatus       `gorm:"not null;default:'active'" json:"status"`
	ApplicabilityScope ApplicabilityScope `gorm:"column:applicability_scope;not null;default:'all'" json:"applicableTo"`
	ApplicableID       *uuid.UUID         `gorm:"column:applicable_id;type:uuid" json:"applicableId,omitempty"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (c *Coupon) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Code = NormalizeCouponCode(c.Code)
	return nil
}

// NormalizeCouponCode canonicalizes codes so lookups are case and
// whitespace insensitive.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Expired reports whether the coupon's end date has passed.
func (c *Coupon) Expired(now time.Time) bool {
	return now.After(c.EndDate)
}
