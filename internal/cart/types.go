package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemDTO is one cart line with its product snapshot populated.
type ItemDTO struct {
	ProductID   uuid.UUID        `json:"productId"`
	ProductName string           `json:"productName"`
	Unit        *string          `json:"unit,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	OfferPrice  *decimal.Decimal `json:"offerPrice,omitempty"`
	Images      []string         `json:"images"`
	Quantity    int              `json:"quantity"`
	Variant     *string          `json:"variant"`
}

// CartDTO is the populated cart view returned by every cart operation.
type CartDTO struct {
	ID        uuid.UUID `json:"id,omitempty"`
	UserID    uuid.UUID `json:"userId,omitempty"`
	Items     []ItemDTO `json:"items"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// AddItemInput carries the add-to-cart request payload.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Variant   *string
}

// UpdateItemInput carries the update-quantity request payload.
type UpdateItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}
