package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/graamkart/graamkart-backend/internal/products"
	"github.com/graamkart/graamkart-backend/pkg/db/models"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
)

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo    *Repository
	ProductRepo *products.Repository
}

// Service enforces the single-cart-per-user and merge-on-add rules.
//
// Add/update read-modify-write the user's cart without optimistic
// locking; concurrent edits from the same user's devices can lose an
// increment. Accepted: carts are self-contended only.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (CartDTO, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, input UpdateItemInput) (CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) (CartDTO, error)
}

type service struct {
	cartRepo    *Repository
	productRepo *products.Repository
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{cartRepo: params.CartRepo, productRepo: params.ProductRepo}, nil
}

// Get returns the populated cart. A user who never added anything gets
// an empty-items cart, not an error.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartDTO{UserID: userID, Items: []ItemDTO{}}, nil
		}
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return toDTO(cart), nil
}

// AddItem merges quantity into an existing line for the product or
// appends a new line, creating the cart lazily on first use.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.ProductID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}

	if _, err := s.productRepo.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	// The merge-or-append runs in one transaction so a mid-sequence
	// failure rolls the whole mutation back.
	err := s.cartRepo.WithTx(ctx, func(repo *Repository) error {
		cart, err := repo.FindOrCreate(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		existing, err := repo.FindItem(ctx, cart.ID, input.ProductID)
		switch {
		case err == nil:
			// Merge: repeated adds accumulate, never a second line.
			if err := repo.SetItemQuantity(ctx, existing.ID, existing.Quantity+input.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge cart line")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item := &models.CartItem{
				CartID:    cart.ID,
				ProductID: input.ProductID,
				Quantity:  input.Quantity,
				Variant:   input.Variant,
			}
			if err := repo.CreateItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append cart line")
			}
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find cart line")
		}

		return repo.TouchCart(ctx, cart.ID)
	})
	if err != nil {
		return CartDTO{}, codedOr(err, "add cart item")
	}
	return s.Get(ctx, userID)
}

// UpdateItem replaces (never merges) the quantity on an existing line.
func (s *service) UpdateItem(ctx context.Context, userID uuid.UUID, input UpdateItemInput) (CartDTO, error) {
	if input.ProductID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}

	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	err := s.cartRepo.WithTx(ctx, func(repo *Repository) error {
		cart, err := repo.FindRowByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		item, err := repo.FindItem(ctx, cart.ID, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found in cart")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find cart line")
		}

		if err := repo.SetItemQuantity(ctx, item.ID, input.Quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
		}
		return repo.TouchCart(ctx, cart.ID)
	})
	if err != nil {
		return CartDTO{}, codedOr(err, "update cart item")
	}
	return s.Get(ctx, userID)
}

// RemoveItem drops every line for the product. A missing line is a
// no-op that still returns the unchanged cart.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (CartDTO, error) {
	if productID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return CartDTO{}, err
	}

	if err := s.cartRepo.DeleteItem(ctx, cart.ID, productID); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	if err := s.cartRepo.TouchCart(ctx, cart.ID); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch cart")
	}
	return s.Get(ctx, userID)
}

// Clear empties the cart's items; the cart row is retained.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) (CartDTO, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return CartDTO{}, err
	}

	if err := s.cartRepo.ClearItems(ctx, cart.ID); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	if err := s.cartRepo.TouchCart(ctx, cart.ID); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch cart")
	}
	return s.Get(ctx, userID)
}

// codedOr passes coded errors from a transaction closure through and
// wraps anything else (begin/commit failures) as a dependency fault.
func codedOr(err error, msg string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}

func (s *service) requireCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cart, err := s.cartRepo.FindRowByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func toDTO(cart *models.Cart) CartDTO {
	items := make([]ItemDTO, 0, len(cart.Items))
	for _, line := range cart.Items {
		item := ItemDTO{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Variant:   line.Variant,
			Images:    []string{},
		}
		if line.Product != nil {
			item.ProductName = line.Product.Name
			item.Unit = line.Product.Unit
			item.Price = line.Product.Price
			item.OfferPrice = line.Product.OfferPrice
			for _, img := range line.Product.Images {
				item.Images = append(item.Images, img.URL)
			}
		}
		items = append(items, item)
	}
	return CartDTO{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     items,
		UpdatedAt: cart.UpdatedAt,
	}
}
