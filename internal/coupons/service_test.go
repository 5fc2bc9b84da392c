package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/graamkart/graamkart-backend/pkg/db/models"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
)

func setupCouponTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE coupons (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  discount_type TEXT NOT NULL,
  discount_amount NUMERIC NOT NULL,
  minimum_purchase NUMERIC NOT NULL DEFAULT 0,
  end_date DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  applicability_scope TEXT NOT NULL DEFAULT 'all',
  applicable_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  unit TEXT,
  quantity INTEGER NOT NULL DEFAULT 0,
  price NUMERIC NOT NULL,
  offer_price NUMERIC,
  todays_special INTEGER NOT NULL DEFAULT 0,
  category_id TEXT NOT NULL,
  subcategory_id TEXT,
  brand_id TEXT,
  variant_type_id TEXT,
  variants TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newCouponService(t *testing.T, db *gorm.DB) *service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: NewRepository(db)})
	require.NoError(t, err)
	return svc.(*service)
}

func validInput() CreateInput {
	return CreateInput{
		Code:            "diwali20",
		DiscountType:    models.DiscountPercentage,
		DiscountAmount:  decimal.NewFromInt(20),
		MinimumPurchase: decimal.NewFromInt(500),
		EndDate:         time.Now().Add(48 * time.Hour),
	}
}

func TestCreateNormalizesCode(t *testing.T) {
	db := setupCouponTestDB(t)
	svc := newCouponService(t, db)

	c, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "DIWALI20", c.Code)
}

func TestCreateDuplicateCodeIsConflict(t *testing.T) {
	db := setupCouponTestDB(t)
	svc := newCouponService(t, db)

	_, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	dup := validInput()
	dup.Code = " Diwali20 "
	_, err = svc.Create(context.Background(), dup)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestCheckHappyPath(t *testing.T) {
	db := setupCouponTestDB(t)
	svc := newCouponService(t, db)

	_, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	res, err := svc.Check(context.Background(), CheckInput{
		Code:           "diwali20",
		PurchaseAmount: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(200).Equal(res.Discount))
}

func TestCheckRejectsBelowMinimumPurchase(t *testing.T) {
	db := setupCouponTestDB(t)
	svc := newCouponService(t, db)

	_, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.Check(context.Background(), CheckInput{
		Code:           "DIWALI20",
		PurchaseAmount: decimal.NewFromInt(300),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCheckRejectsExpiredAndInactive(t *testing.T) {
	db := setupCouponTestDB(t)
	svc := newCouponService(t, db)

	input := validInput()
	input.EndDate = time.Now().Add(time.Hour)
	_, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Check(context.Background(), CheckInput{
		Code:           "DIWALI20",
		PurchaseAmount: decimal.NewFromInt(1000),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	svc.now = time.Now
	inactive := validInput()
	inactive.Code = "PAUSED"
	inactive.Status = models.CouponInactive
	_, err = svc.Create(context.Background(), inactive)
	require.NoError(t, err)

	_, err = svc.Check(context.Background(), CheckInput{
		Code:           "PAUSED",
		PurchaseAmount: decimal.NewFromInt(1000),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCheckCategoryScope(t *testing.T) {
	db := setupCouponTestDB(t)
	svc := newCouponService(t, db)

	categoryID := uuid.New()
	productID := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO products (id, name, quantity, price, category_id, created_at, updated_at) VALUES (?, 'Atta 5kg', 10, '260.00', ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		productID, categoryID,
	).Error)

	input := validInput()
	input.Code = "GRAINS50"
	input.DiscountType = models.DiscountFixed
	input.DiscountAmount = decimal.NewFromInt(50)
	input.MinimumPurchase = decimal.Zero
	input.ApplicabilityScope = models.ScopeCategory
	input.ApplicableID = &categoryID
	_, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	res, err := svc.Check(context.Background(), CheckInput{
		Code:           "GRAINS50",
		PurchaseAmount: decimal.NewFromInt(260),
		ProductIDs:     []uuid.UUID{productID},
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(res.Discount))

	// a cart with only out-of-scope products is rejected
	_, err = svc.Check(context.Background(), CheckInput{
		Code:           "GRAINS50",
		PurchaseAmount: decimal.NewFromInt(260),
		ProductIDs:     []uuid.UUID{uuid.New()},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCheckProductScope(t *testing.T) {
	db := setupCouponTestDB(t)
	svc := newCouponService(t, db)

	productID := uuid.New()
	input := validInput()
	input.Code = "ONLYRICE"
	input.DiscountType = models.DiscountFixed
	input.DiscountAmount = decimal.NewFromInt(30)
	input.MinimumPurchase = decimal.Zero
	input.ApplicabilityScope = models.ScopeProduct
	input.ApplicableID = &productID
	_, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Check(context.Background(), CheckInput{
		Code:           "ONLYRICE",
		PurchaseAmount: decimal.NewFromInt(500),
		ProductIDs:     []uuid.UUID{productID},
	})
	require.NoError(t, err)
}

func TestDiscountCappedAtTotal(t *testing.T) {
	coupon := &models.Coupon{
		DiscountType:   models.DiscountFixed,
		DiscountAmount: decimal.NewFromInt(500),
	}
	got := Discount(coupon, decimal.NewFromInt(120))
	assert.True(t, decimal.NewFromInt(120).Equal(got))
}

func TestCreateValidation(t *testing.T) {
	db := setupCouponTestDB(t)
	svc := newCouponService(t, db)

	input := validInput()
	input.DiscountAmount = decimal.NewFromInt(120)
	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	input = validInput()
	input.ApplicabilityScope = models.ScopeCategory
	_, err = svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
