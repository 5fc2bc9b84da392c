package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCOD     PaymentMethod = "cod"
	PaymentPrepaid PaymentMethod = "prepaid"
)

func (m PaymentMethod) IsValid() bool {
	return m == PaymentCOD || m == PaymentPrepaid
}

// OrderItem is a denormalized snapshot of a product at purchase time.
// Later catalog edits never change what an order shows.
type OrderItem struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Variant     string          `json:"variant,omitempty"`
}

// OrderAddress is a snapshot of the shipping address at purchase time.
type OrderAddress struct {
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type Order struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	User   *User     `gorm:"foreignKey:UserID" json:"userData,omitempty"`

	Items           []OrderItem  `gorm:"type:jsonb;serializer:json;not null" json:"items"`
	ShippingAddress OrderAddress `gorm:"column:shipping_address;type:jsonb;serializer:json;not null" json:"shippingAddress"`

	Status        OrderStatus   `gorm:"not null;default:'pending';index" json:"orderStatus"`
	PaymentMethod PaymentMethod `gorm:"column:payment_method;not null" json:"paymentMethod"`

	CouponID *uuid.UUID `gorm:"column:coupon_id;type:uuid" json:"couponId,omitempty"`
	Coupon   *Coupon    `gorm:"foreignKey:CouponID" json:"couponCode,omitempty"`

	Subtotal       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"orderTotal"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:numeric(12,2);not null;default:0" json:"discount"`
	GrandTotal     decimal.Decimal `gorm:"column:grand_total;type:numeric(12,2);not null" json:"grandTotal"`

	TrackingURL *string `gorm:"column:tracking_url" json:"trackingUrl,omitempty"`

	OrderDate time.Time `gorm:"column:order_date;autoCreateTime" json:"orderDate"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
