package favorites

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/graamkart/graamkart-backend/internal/products"
	"github.com/graamkart/graamkart-backend/pkg/db"
	"github.com/graamkart/graamkart-backend/pkg/db/models"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
)

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	Repo        *Repository
	ProductRepo *products.Repository
}

// Service manages a user's favorite products. Duplicates are rejected
// by the unique (user, product) index rather than a read-then-write
// check, so concurrent double-taps cannot slip a second row in.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error)
	Add(ctx context.Context, userID, productID uuid.UUID) (*models.Favorite, error)
	IsFavorited(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

type service struct {
	repo        *Repository
	productRepo *products.Repository
}

// NewService builds a favorites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorites repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{repo: params.Repo, productRepo: params.ProductRepo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	out, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	return out, nil
}

func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) (*models.Favorite, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	fav := &models.Favorite{UserID: userID, ProductID: productID}
	if err := s.repo.Create(ctx, fav); err != nil {
		if db.IsUniqueViolation(err, "favorites_user_product_key") || db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product is already in favorites")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create favorite")
	}

	out, err := s.repo.Find(ctx, userID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload favorite")
	}
	return out, nil
}

func (s *service) IsFavorited(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if _, err := s.repo.Find(ctx, userID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check favorite")
	}
	return true, nil
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	affected, err := s.repo.Delete(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete favorite")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "favorite not found")
	}
	return nil
}
