package coupons

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/graamkart/graamkart-backend/pkg/db"
	"github.com/graamkart/graamkart-backend/pkg/db/models"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
)

// CreateInput carries admin-facing coupon fields.
type CreateInput struct {
	Code               string
	DiscountType       models.DiscountType
	DiscountAmount     decimal.Decimal
	MinimumPurchase    decimal.Decimal
	EndDate            time.Time
	Status             models.CouponStatus
	ApplicabilityScope models.ApplicabilityScope
	ApplicableID       *uuid.UUID
}

// CheckInput is the storefront check-coupon request: the code plus the
// cart the buyer wants to apply it to.
type CheckInput struct {
	Code           string
	PurchaseAmount decimal.Decimal
	ProductIDs     []uuid.UUID
}

// CheckResult is the validated coupon plus the discount it yields for
// the supplied purchase amount.
type CheckResult struct {
	Coupon   *models.Coupon  `json:"coupon"`
	Discount decimal.Decimal `json:"discount"`
}

// ServiceParams groups dependencies for the coupon service.
type ServiceParams struct {
	Repo *Repository
}

// Service manages discount codes and validates them against carts.
type Service interface {
	List(ctx context.Context) ([]models.Coupon, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	Create(ctx context.Context, input CreateInput) (*models.Coupon, error)
	Update(ctx context.Context, id uuid.UUID, input CreateInput) (*models.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Check(ctx context.Context, input CheckInput) (*CheckResult, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService builds a coupon service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon repo is required")
	}
	return &service{repo: params.Repo, now: time.Now}, nil
}

func (s *service) List(ctx context.Context) ([]models.Coupon, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	return c, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Coupon, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	c := couponFromInput(input)
	if err := s.repo.Create(ctx, c); err != nil {
		if db.IsUniqueViolation(err, "coupons_code_key") || db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "coupon code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create coupon")
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input CreateInput) (*models.Coupon, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Code = models.NormalizeCouponCode(input.Code)
	c.DiscountType = input.DiscountType
	c.DiscountAmount = input.DiscountAmount
	c.MinimumPurchase = input.MinimumPurchase
	c.EndDate = input.EndDate
	c.Status = normalizeStatus(input.Status)
	c.ApplicabilityScope = normalizeScope(input.ApplicabilityScope)
	c.ApplicableID = input.ApplicableID
	if err := s.repo.Save(ctx, c); err != nil {
		if db.IsUniqueViolation(err, "coupons_code_key") || db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "coupon code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update coupon")
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete coupon")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	return nil
}

// Check validates the code against the cart: active, unexpired,
// minimum purchase reached, and scope matched by at least one cart
// product. Validation failures come back as coded errors, never as a
// discount of zero.
func (s *service) Check(ctx context.Context, input CheckInput) (*CheckResult, error) {
	if input.Code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	coupon, err := s.repo.FindByCode(ctx, input.Code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	if coupon.Status != models.CouponActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon is inactive")
	}
	if coupon.Expired(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon has expired")
	}
	if input.PurchaseAmount.LessThan(coupon.MinimumPurchase) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum purchase amount not reached").
			WithDetails(map[string]any{"minimumPurchaseAmount": coupon.MinimumPurchase})
	}

	ok, err := s.scopeMatches(ctx, coupon, input.ProductIDs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon is not applicable to the items in the cart")
	}

	return &CheckResult{
		Coupon:   coupon,
		Discount: Discount(coupon, input.PurchaseAmount),
	}, nil
}

func (s *service) scopeMatches(ctx context.Context, coupon *models.Coupon, productIDs []uuid.UUID) (bool, error) {
	scope := normalizeScope(coupon.ApplicabilityScope)
	if scope == models.ScopeAll || coupon.ApplicableID == nil {
		return true, nil
	}
	if len(productIDs) == 0 {
		return false, nil
	}
	if scope == models.ScopeProduct {
		for _, id := range productIDs {
			if id == *coupon.ApplicableID {
				return true, nil
			}
		}
		return false, nil
	}
	refs, err := s.repo.ProductScopeRefs(ctx, productIDs)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}
	for _, p := range refs {
		if p.CategoryID == *coupon.ApplicableID {
			return true, nil
		}
		if p.SubCategoryID != nil && *p.SubCategoryID == *coupon.ApplicableID {
			return true, nil
		}
	}
	return false, nil
}

// Discount computes the money a coupon takes off the given total,
// capped so a fixed coupon never drives the total negative.
func Discount(coupon *models.Coupon, total decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch coupon.DiscountType {
	case models.DiscountPercentage:
		discount = total.Mul(coupon.DiscountAmount).Div(decimal.NewFromInt(100)).Round(2)
	default:
		discount = coupon.DiscountAmount
	}
	if discount.GreaterThan(total) {
		return total
	}
	return discount
}

func validateInput(input CreateInput) error {
	if input.Code == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	if !input.DiscountType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discountType must be fixed or percentage")
	}
	if input.DiscountAmount.IsNegative() || input.DiscountAmount.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discountAmount must be positive")
	}
	if input.DiscountType == models.DiscountPercentage && input.DiscountAmount.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "percentage discount cannot exceed 100")
	}
	if input.MinimumPurchase.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimumPurchaseAmount cannot be negative")
	}
	if input.EndDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "endDate is required")
	}
	scope := normalizeScope(input.ApplicabilityScope)
	if scope != models.ScopeAll && input.ApplicableID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "applicableId is required for a scoped coupon")
	}
	return nil
}

func couponFromInput(input CreateInput) *models.Coupon {
	return &models.Coupon{
		Code:               input.Code,
		DiscountType:       input.DiscountType,
		DiscountAmount:     input.DiscountAmount,
		MinimumPurchase:    input.MinimumPurchase,
		EndDate:            input.EndDate,
		Status:             normalizeStatus(input.Status),
		ApplicabilityScope: normalizeScope(input.ApplicabilityScope),
		ApplicableID:       input.ApplicableID,
	}
}

func normalizeStatus(status models.CouponStatus) models.CouponStatus {
	if status == "" {
		return models.CouponActive
	}
	return status
}

func normalizeScope(scope models.ApplicabilityScope) models.ApplicabilityScope {
	if scope == "" {
		return models.ScopeAll
	}
	return scope
}
