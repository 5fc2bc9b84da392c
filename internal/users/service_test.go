package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/graamkart/graamkart-backend/internal/address"
	"github.com/graamkart/graamkart-backend/internal/cart"
	"github.com/graamkart/graamkart-backend/internal/favorites"
	"github.com/graamkart/graamkart-backend/internal/orders"
	"github.com/graamkart/graamkart-backend/internal/products"
	"github.com/graamkart/graamkart-backend/pkg/auth"
	"github.com/graamkart/graamkart-backend/pkg/config"
	"github.com/graamkart/graamkart-backend/pkg/db/models"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
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
		`CREATE TABLE carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  variant TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, product_id)
);`,
		`CREATE TABLE favorites (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, product_id)
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

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-secret",
		Issuer:            "graamkart-test",
		ExpirationMinutes: 60,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newUserService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	productRepo := products.NewRepository(db)
	cartSvc, err := cart.NewService(cart.ServiceParams{
		CartRepo:    cart.NewRepository(db),
		ProductRepo: productRepo,
	})
	require.NoError(t, err)
	favSvc, err := favorites.NewService(favorites.ServiceParams{
		Repo:        favorites.NewRepository(db),
		ProductRepo: productRepo,
	})
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		Repo:        NewRepository(db),
		Cart:        cartSvc,
		Favorites:   favSvc,
		AddressRepo: address.NewRepository(db),
		OrderRepo:   orders.NewRepository(db),
		JWT:         testJWTConfig(),
		Password:    testPasswordConfig(),
	})
	require.NoError(t, err)
	return svc
}

func register(t *testing.T, svc Service, email string) *AuthResult {
	t.Helper()
	res, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Meena",
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)
	return res
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupUsersTestDB(t)
	svc := newUserService(t, db)

	reg := register(t, svc, "meena@example.in")
	require.NotEmpty(t, reg.Token)

	claims, err := auth.ParseAccessToken(testJWTConfig(), reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)

	login, err := svc.Login(context.Background(), LoginInput{
		Email:    "meena@example.in",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	reloaded, err := svc.Get(context.Background(), reg.User.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.LastLoginAt)
}

func TestRegisterDuplicateEmailIsConflict(t *testing.T) {
	db := setupUsersTestDB(t)
	svc := newUserService(t, db)

	register(t, svc, "meena@example.in")

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Other",
		Email:    "meena@example.in",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := setupUsersTestDB(t)
	svc := newUserService(t, db)
	register(t, svc, "meena@example.in")

	_, err := svc.Login(context.Background(), LoginInput{Email: "meena@example.in", Password: "wrong-pass"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())

	// an unknown email answers the same code as a wrong password
	_, err = svc.Login(context.Background(), LoginInput{Email: "nobody@example.in", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestChangePassword(t *testing.T) {
	db := setupUsersTestDB(t)
	svc := newUserService(t, db)
	reg := register(t, svc, "meena@example.in")

	err := svc.ChangePassword(context.Background(), reg.User.ID, ChangePasswordInput{
		OldPassword: "wrong-pass",
		NewPassword: "newsecret1",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	err = svc.ChangePassword(context.Background(), reg.User.ID, ChangePasswordInput{
		OldPassword: "secret123",
		NewPassword: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	require.NoError(t, svc.ChangePassword(context.Background(), reg.User.ID, ChangePasswordInput{
		OldPassword: "secret123",
		NewPassword: "newsecret1",
	}))

	_, err = svc.Login(context.Background(), LoginInput{Email: "meena@example.in", Password: "newsecret1"})
	require.NoError(t, err)
}

func TestProfileAggregatesAllCollections(t *testing.T) {
	db := setupUsersTestDB(t)
	svc := newUserService(t, db)
	reg := register(t, svc, "meena@example.in")

	productID := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO products (id, name, quantity, price, category_id, created_at, updated_at) VALUES (?, 'Toor Dal 1kg', 10, '120.00', ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		productID, uuid.New(),
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO addresses (id, user_id, phone, street, city, state, postal_code, created_at, updated_at) VALUES (?, ?, '9876543210', '4 Temple Street', 'Salem', 'Tamil Nadu', '636001', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		uuid.New(), reg.User.ID,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO favorites (id, user_id, product_id, created_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		uuid.New(), reg.User.ID, productID,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO orders (id, user_id, items, shipping_address, status, payment_method, subtotal, discount_amount, grand_total, order_date, updated_at) VALUES (?, ?, '[]', '{}', 'pending', 'cod', '120.00', '0', '120.00', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		uuid.New(), reg.User.ID,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO carts (id, user_id, created_at, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		uuid.New(), reg.User.ID,
	).Error)

	view, err := svc.Profile(context.Background(), reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, view.User.ID)
	assert.Len(t, view.Orders, 1)
	assert.Len(t, view.Favorites, 1)
	assert.Len(t, view.Addresses, 1)
	assert.NotNil(t, view.Cart.Items)
}

func TestProfileForFreshUserIsEmptyNotError(t *testing.T) {
	db := setupUsersTestDB(t)
	svc := newUserService(t, db)
	reg := register(t, svc, "meena@example.in")

	view, err := svc.Profile(context.Background(), reg.User.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Orders)
	assert.Empty(t, view.Favorites)
	assert.Empty(t, view.Addresses)
	assert.Empty(t, view.Cart.Items)
}

func TestUpdateProfilePartial(t *testing.T) {
	db := setupUsersTestDB(t)
	svc := newUserService(t, db)
	reg := register(t, svc, "meena@example.in")

	name := "Meena Devi"
	updated, err := svc.UpdateProfile(context.Background(), reg.User.ID, UpdateProfileInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Meena Devi", updated.Name)
	assert.Equal(t, "meena@example.in", updated.Email)

	register(t, svc, "taken@example.in")
	takenEmail := "taken@example.in"
	_, err = svc.UpdateProfile(context.Background(), reg.User.ID, UpdateProfileInput{Email: &takenEmail})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestUpdateFCMToken(t *testing.T) {
	db := setupUsersTestDB(t)
	svc := newUserService(t, db)
	reg := register(t, svc, "meena@example.in")

	require.NoError(t, svc.UpdateFCMToken(context.Background(), reg.User.ID, "device-token-1"))

	var u models.User
	require.NoError(t, db.First(&u, "id = ?", reg.User.ID).Error)
	require.NotNil(t, u.FCMToken)
	assert.Equal(t, "device-token-1", *u.FCMToken)

	err := svc.UpdateFCMToken(context.Background(), uuid.New(), "device-token-2")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
