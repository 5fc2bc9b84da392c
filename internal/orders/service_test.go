package orders

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

	"github.com/graamkart/graamkart-backend/internal/address"
	"github.com/graamkart/graamkart-backend/internal/coupons"
	"github.com/graamkart/graamkart-backend/internal/products"
	"github.com/graamkart/graamkart-backend/pkg/db/models"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  phone TEXT,
  profile_image_url TEXT,
  fcm_token TEXT,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE addresses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  phone TEXT NOT NULL,
  street TEXT NOT NULL,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  postal_code TEXT NOT NULL,
  country TEXT NOT NULL DEFAULT 'India',
  address_type TEXT NOT NULL DEFAULT 'home',
  label TEXT,
  is_default INTEGER NOT NULL DEFAULT 0,
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
		`CREATE TABLE product_images (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  slot INTEGER NOT NULL,
  url TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (product_id, slot)
);`,
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
		`CREATE TABLE orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  items TEXT NOT NULL,
  shipping_address TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL,
  coupon_id TEXT,
  subtotal NUMERIC NOT NULL,
  discount_amount NUMERIC NOT NULL DEFAULT 0,
  grand_total NUMERIC NOT NULL,
  tracking_url TEXT,
  order_date DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type orderFixture struct {
	svc       Service
	db        *gorm.DB
	userID    uuid.UUID
	addressID uuid.UUID
}

func newOrderFixture(t *testing.T) orderFixture {
	t.Helper()
	db := setupOrdersTestDB(t)

	couponSvc, err := coupons.NewService(coupons.ServiceParams{Repo: coupons.NewRepository(db)})
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{
		Repo:        NewRepository(db),
		ProductRepo: products.NewRepository(db),
		AddressRepo: address.NewRepository(db),
		Coupons:     couponSvc,
	})
	require.NoError(t, err)

	userID := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO users (id, name, email, password_hash, created_at, updated_at) VALUES (?, 'Meena', 'meena@example.in', 'x', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		userID,
	).Error)

	addressID := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO addresses (id, user_id, phone, street, city, state, postal_code, country, created_at, updated_at) VALUES (?, ?, '9876543210', '4 Temple Street', 'Salem', 'Tamil Nadu', '636001', 'India', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		addressID, userID,
	).Error)

	return orderFixture{svc: svc, db: db, userID: userID, addressID: addressID}
}

func (f orderFixture) seedProduct(t *testing.T, name, price string, offerPrice *string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, f.db.Exec(
		`INSERT INTO products (id, name, quantity, price, offer_price, category_id, created_at, updated_at) VALUES (?, ?, 10, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		id, name, price, offerPrice, uuid.New(),
	).Error)
	return id
}

func TestCreateOrderSnapshotsItemsAndTotals(t *testing.T) {
	f := newOrderFixture(t)
	offer := "90.00"
	p1 := f.seedProduct(t, "Toor Dal 1kg", "120.00", &offer)
	p2 := f.seedProduct(t, "Rice 5kg", "450.00", nil)

	order, err := f.svc.Create(context.Background(), f.userID, CreateInput{
		Items: []ItemInput{
			{ProductID: p1, Quantity: 2},
			{ProductID: p2, Quantity: 1, Variant: "Ponni"},
		},
		AddressID:     f.addressID,
		PaymentMethod: models.PaymentCOD,
	})
	require.NoError(t, err)

	require.Len(t, order.Items, 2)
	// offer price wins over list price in the snapshot
	assert.True(t, decimal.RequireFromString("90.00").Equal(order.Items[0].Price))
	assert.Equal(t, "Toor Dal 1kg", order.Items[0].ProductName)
	assert.Equal(t, "Ponni", order.Items[1].Variant)
	assert.True(t, decimal.RequireFromString("630.00").Equal(order.Subtotal))
	assert.True(t, order.Subtotal.Equal(order.GrandTotal))
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, "Salem", order.ShippingAddress.City)
}

func TestCreateOrderAppliesCoupon(t *testing.T) {
	f := newOrderFixture(t)
	p := f.seedProduct(t, "Ghee 500ml", "400.00", nil)

	require.NoError(t, f.db.Exec(
		`INSERT INTO coupons (id, code, discount_type, discount_amount, minimum_purchase, end_date, status, applicability_scope, created_at, updated_at) VALUES (?, 'FESTIVE10', 'percentage', 10, 0, ?, 'active', 'all', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		uuid.New(), time.Now().Add(24*time.Hour),
	).Error)

	order, err := f.svc.Create(context.Background(), f.userID, CreateInput{
		Items:         []ItemInput{{ProductID: p, Quantity: 2}},
		AddressID:     f.addressID,
		PaymentMethod: models.PaymentCOD,
		CouponCode:    "festive10",
	})
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("800.00").Equal(order.Subtotal))
	assert.True(t, decimal.RequireFromString("80.00").Equal(order.DiscountAmount))
	assert.True(t, decimal.RequireFromString("720.00").Equal(order.GrandTotal))
	require.NotNil(t, order.CouponID)
}

func TestCreateOrderRejectsForeignAddress(t *testing.T) {
	f := newOrderFixture(t)
	p := f.seedProduct(t, "Salt 1kg", "20.00", nil)

	_, err := f.svc.Create(context.Background(), uuid.New(), CreateInput{
		Items:         []ItemInput{{ProductID: p, Quantity: 1}},
		AddressID:     f.addressID,
		PaymentMethod: models.PaymentCOD,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateOrderValidation(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Create(context.Background(), f.userID, CreateInput{
		AddressID:     f.addressID,
		PaymentMethod: models.PaymentCOD,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	p := f.seedProduct(t, "Sugar 1kg", "45.00", nil)
	_, err = f.svc.Create(context.Background(), f.userID, CreateInput{
		Items:         []ItemInput{{ProductID: p, Quantity: 1}},
		AddressID:     f.addressID,
		PaymentMethod: "upi",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateStatusAndTracking(t *testing.T) {
	f := newOrderFixture(t)
	p := f.seedProduct(t, "Tamarind 500g", "85.00", nil)

	order, err := f.svc.Create(context.Background(), f.userID, CreateInput{
		Items:         []ItemInput{{ProductID: p, Quantity: 1}},
		AddressID:     f.addressID,
		PaymentMethod: models.PaymentCOD,
	})
	require.NoError(t, err)

	tracking := "https://track.example/123"
	updated, err := f.svc.UpdateStatus(context.Background(), order.ID, StatusInput{
		Status:      models.OrderShipped,
		TrackingURL: &tracking,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, updated.Status)
	require.NotNil(t, updated.TrackingURL)
	assert.Equal(t, tracking, *updated.TrackingURL)

	_, err = f.svc.UpdateStatus(context.Background(), order.ID, StatusInput{Status: "returned"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestListByUserReturnsOwnOrdersOnly(t *testing.T) {
	f := newOrderFixture(t)
	p := f.seedProduct(t, "Mustard Oil 1L", "160.00", nil)

	_, err := f.svc.Create(context.Background(), f.userID, CreateInput{
		Items:         []ItemInput{{ProductID: p, Quantity: 1}},
		AddressID:     f.addressID,
		PaymentMethod: models.PaymentCOD,
	})
	require.NoError(t, err)

	mine, err := f.svc.ListByUser(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	other, err := f.svc.ListByUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestDeleteMissingOrderIsNotFound(t *testing.T) {
	f := newOrderFixture(t)

	err := f.svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
