package address

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/graamkart/graamkart-backend/pkg/db/models"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
)

// Service enforces the at-most-one-default-address invariant per user.
type Service interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]models.Address, error)
	Get(ctx context.Context, ownerID, addressID uuid.UUID) (*models.Address, error)
	Create(ctx context.Context, ownerID uuid.UUID, input CreateInput) (*models.Address, error)
	Update(ctx context.Context, ownerID, addressID uuid.UUID, input UpdateInput) (*models.Address, error)
	Delete(ctx context.Context, ownerID, addressID uuid.UUID) error
	SetDefault(ctx context.Context, ownerID, addressID uuid.UUID) (*models.Address, error)
}

type service struct {
	repo *Repository
}

// NewService builds an address service with the required dependencies.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID) ([]models.Address, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	out, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	return out, nil
}

// Get answers NotFound for both a missing id and an id owned by a
// different user, so existence never leaks across owners.
func (s *service) Get(ctx context.Context, ownerID, addressID uuid.UUID) (*models.Address, error) {
	return s.findOwned(ctx, ownerID, addressID)
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateInput) (*models.Address, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.Phone == "" || input.Street == "" || input.City == "" || input.State == "" || input.PostalCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone, street, city, state and postalCode are required")
	}
	addrType := defaultAddressType(input.AddressType)
	if !addrType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "addressType must be home, work or other")
	}

	addr := &models.Address{
		UserID:      ownerID,
		Phone:       input.Phone,
		Street:      input.Street,
		City:        input.City,
		State:       input.State,
		PostalCode:  input.PostalCode,
		AddressType: addrType,
		Label:       input.Label,
		// isDefault omitted means false, never inherited.
		IsDefault: input.IsDefault != nil && *input.IsDefault,
	}
	if input.Country != "" {
		addr.Country = input.Country
	}

	if err := s.repo.Create(ctx, addr); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	return addr, nil
}

// Update applies only the keys the client sent. A false→true default
// transition demotes siblings; true→false simply unsets this one and
// may legally leave zero defaults.
func (s *service) Update(ctx context.Context, ownerID, addressID uuid.UUID, input UpdateInput) (*models.Address, error) {
	addr, err := s.findOwned(ctx, ownerID, addressID)
	if err != nil {
		return nil, err
	}

	if input.Phone != nil {
		addr.Phone = *input.Phone
	}
	if input.Street != nil {
		addr.Street = *input.Street
	}
	if input.City != nil {
		addr.City = *input.City
	}
	if input.State != nil {
		addr.State = *input.State
	}
	if input.PostalCode != nil {
		addr.PostalCode = *input.PostalCode
	}
	if input.Country != nil {
		addr.Country = *input.Country
	}
	if input.AddressType != nil {
		addrType := models.AddressType(*input.AddressType)
		if !addrType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "addressType must be home, work or other")
		}
		addr.AddressType = addrType
	}
	if input.Label != nil {
		addr.Label = input.Label
	}

	becameDefault := false
	if input.IsDefault != nil {
		becameDefault = *input.IsDefault && !addr.IsDefault
		addr.IsDefault = *input.IsDefault
	}

	if err := s.repo.Save(ctx, addr, becameDefault); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
	}
	return addr, nil
}

func (s *service) Delete(ctx context.Context, ownerID, addressID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	affected, err := s.repo.Delete(ctx, ownerID, addressID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return nil
}

func (s *service) SetDefault(ctx context.Context, ownerID, addressID uuid.UUID) (*models.Address, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.repo.SetDefault(ctx, ownerID, addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default address")
	}
	return s.findOwned(ctx, ownerID, addressID)
}

func (s *service) findOwned(ctx context.Context, ownerID, addressID uuid.UUID) (*models.Address, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	addr, err := s.repo.FindByOwner(ctx, ownerID, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	return addr, nil
}
