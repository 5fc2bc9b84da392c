package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/graamkart/graamkart-backend/internal/address"
	"github.com/graamkart/graamkart-backend/internal/coupons"
	"github.com/graamkart/graamkart-backend/internal/products"
	"github.com/graamkart/graamkart-backend/pkg/db/models"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
	"github.com/graamkart/graamkart-backend/pkg/logger"
	"github.com/graamkart/graamkart-backend/pkg/mail"
	"github.com/graamkart/graamkart-backend/pkg/push"
)

// ItemInput is one requested order line.
type ItemInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	Variant   string    `json:"variant"`
}

// CreateInput carries the place-order request payload.
type CreateInput struct {
	Items         []ItemInput          `json:"items" validate:"required,min=1,dive"`
	AddressID     uuid.UUID            `json:"addressId" validate:"required"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" validate:"required"`
	CouponCode    string               `json:"couponCode"`
}

// StatusInput carries the admin order-update payload.
type StatusInput struct {
	Status      models.OrderStatus `json:"orderStatus" validate:"required"`
	TrackingURL *string            `json:"trackingUrl"`
}

// ServiceParams groups dependencies for the order service.
type ServiceParams struct {
	Repo        *Repository
	ProductRepo *products.Repository
	AddressRepo *address.Repository
	Coupons     coupons.Service
	Push        *push.Client
	Mail        *mail.Client
	Logger      *logger.Logger
}

// Service places and manages orders. Line items and the shipping
// address are snapshotted at purchase time; later catalog or address
// edits never change what an order shows.
type Service interface {
	List(ctx context.Context) ([]models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, input StatusInput) (*models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo        *Repository
	productRepo *products.Repository
	addressRepo *address.Repository
	coupons     coupons.Service
	push        *push.Client
	mail        *mail.Client
	logg        *logger.Logger
}

// NewService builds an order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.AddressRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address repo is required")
	}
	if params.Coupons == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon service is required")
	}
	return &service{
		repo:        params.Repo,
		productRepo: params.ProductRepo,
		addressRepo: params.AddressRepo,
		coupons:     params.Coupons,
		push:        params.Push,
		mail:        params.Mail,
		logg:        params.Logger,
	}, nil
}

func (s *service) List(ctx context.Context) ([]models.Order, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return out, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	out, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return o, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "paymentMethod must be cod or prepaid")
	}

	shipTo, err := s.addressRepo.FindByOwner(ctx, userID, input.AddressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}

	items, subtotal, err := s.snapshotItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	discount := decimal.Zero
	var couponID *uuid.UUID
	if input.CouponCode != "" {
		productIDs := make([]uuid.UUID, 0, len(input.Items))
		for _, it := range input.Items {
			productIDs = append(productIDs, it.ProductID)
		}
		check, err := s.coupons.Check(ctx, coupons.CheckInput{
			Code:           input.CouponCode,
			PurchaseAmount: subtotal,
			ProductIDs:     productIDs,
		})
		if err != nil {
			return nil, err
		}
		discount = check.Discount
		couponID = &check.Coupon.ID
	}

	order := &models.Order{
		UserID: userID,
		Items:  items,
		ShippingAddress: models.OrderAddress{
			Phone:      shipTo.Phone,
			Street:     shipTo.Street,
			City:       shipTo.City,
			State:      shipTo.State,
			PostalCode: shipTo.PostalCode,
			Country:    shipTo.Country,
		},
		Status:         models.OrderPending,
		PaymentMethod:  input.PaymentMethod,
		CouponID:       couponID,
		Subtotal:       subtotal,
		DiscountAmount: discount,
		GrandTotal:     subtotal.Sub(discount),
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return s.Get(ctx, order.ID)
}

// UpdateStatus transitions the order and notifies the buyer by email
// and push. Notification failures are logged, never surfaced; the
// status change must not roll back because a provider is down.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, input StatusInput) (*models.Order, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	order.Status = input.Status
	if input.TrackingURL != nil {
		order.TrackingURL = input.TrackingURL
	}
	order.User = nil
	order.Coupon = nil
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
	}

	s.notifyBuyer(ctx, order)
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}

func (s *service) snapshotItems(ctx context.Context, inputs []ItemInput) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	subtotal := decimal.Zero
	for _, in := range inputs {
		if in.Quantity < 1 {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
		}
		product, err := s.productRepo.FindByID(ctx, in.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found").
					WithDetails(map[string]any{"productId": in.ProductID})
			}
			return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		price := product.EffectivePrice()
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    in.Quantity,
			Price:       price,
			Variant:     in.Variant,
		})
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(in.Quantity))))
	}
	return items, subtotal, nil
}

func (s *service) notifyBuyer(ctx context.Context, order *models.Order) {
	buyer, err := s.repo.FindBuyer(ctx, order.UserID)
	if err != nil {
		s.warn(ctx, order.ID, "order status notification skipped, buyer lookup failed", err)
		return
	}

	subject := fmt.Sprintf("Your GraamKart order is %s", order.Status)
	body := fmt.Sprintf("Hello %s,\n\nYour order %s is now %s.", buyer.Name, order.ID, order.Status)
	if order.TrackingURL != nil {
		body += fmt.Sprintf("\nTrack it here: %s", *order.TrackingURL)
	}

	if s.mail.Enabled() {
		if err := s.mail.Send(ctx, buyer.Email, subject, body); err != nil {
			s.warn(ctx, order.ID, "order status email failed", err)
		}
	}
	if s.push.Enabled() && buyer.FCMToken != nil {
		data := map[string]string{"orderId": order.ID.String(), "orderStatus": string(order.Status)}
		if _, err := s.push.SendToToken(ctx, *buyer.FCMToken, "Order update", subject, data); err != nil {
			s.warn(ctx, order.ID, "order status push failed", err)
		}
	}
}

func (s *service) warn(ctx context.Context, orderID uuid.UUID, msg string, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"order_id": orderID.String(), "error": err.Error()})
	s.logg.Warn(ctx, msg)
}
