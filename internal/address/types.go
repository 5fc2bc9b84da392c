package address

import "github.com/graamkart/graamkart-backend/pkg/db/models"

// CreateInput carries the create-address request payload.
type CreateInput struct {
	Phone       string  `json:"phone" validate:"required"`
	Street      string  `json:"street" validate:"required"`
	City        string  `json:"city" validate:"required"`
	State       string  `json:"state" validate:"required"`
	PostalCode  string  `json:"postalCode" validate:"required"`
	Country     string  `json:"country"`
	AddressType string  `json:"addressType"`
	Label       *string `json:"label"`
	IsDefault   *bool   `json:"isDefault"`
}

// UpdateInput uses pointers so only the keys a client actually sent
// are applied (presence-of-key semantics, not falsy-value semantics).
type UpdateInput struct {
	Phone       *string `json:"phone"`
	Street      *string `json:"street"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	PostalCode  *string `json:"postalCode"`
	Country     *string `json:"country"`
	AddressType *string `json:"addressType"`
	Label       *string `json:"label"`
	IsDefault   *bool   `json:"isDefault"`
}

func defaultAddressType(raw string) models.AddressType {
	if raw == "" {
		return models.AddressTypeHome
	}
	return models.AddressType(raw)
}
