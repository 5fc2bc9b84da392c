package favorites

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/graamkart/graamkart-backend/internal/products"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
)

func setupFavoritesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
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
		`CREATE TABLE favorites (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, product_id)
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO products (id, name, quantity, price, category_id, created_at, updated_at) VALUES (?, ?, 10, '99.00', ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		id, name, uuid.New(),
	).Error)
	return id
}

func newFavoritesService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:        NewRepository(db),
		ProductRepo: products.NewRepository(db),
	})
	require.NoError(t, err)
	return svc
}

func TestAddAndListFavorites(t *testing.T) {
	db := setupFavoritesTestDB(t)
	svc := newFavoritesService(t, db)
	userID := uuid.New()
	productID := seedProduct(t, db, "Jaggery 500g")

	fav, err := svc.Add(context.Background(), userID, productID)
	require.NoError(t, err)
	assert.Equal(t, productID, fav.ProductID)

	list, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Product)
	assert.Equal(t, "Jaggery 500g", list[0].Product.Name)
}

func TestAddDuplicateFavoriteIsConflict(t *testing.T) {
	db := setupFavoritesTestDB(t)
	svc := newFavoritesService(t, db)
	userID := uuid.New()
	productID := seedProduct(t, db, "Groundnut Oil 1L")

	_, err := svc.Add(context.Background(), userID, productID)
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), userID, productID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestAddUnknownProductIsNotFound(t *testing.T) {
	db := setupFavoritesTestDB(t)
	svc := newFavoritesService(t, db)

	_, err := svc.Add(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestIsFavorited(t *testing.T) {
	db := setupFavoritesTestDB(t)
	svc := newFavoritesService(t, db)
	userID := uuid.New()
	productID := seedProduct(t, db, "Ragi Flour 1kg")

	got, err := svc.IsFavorited(context.Background(), userID, productID)
	require.NoError(t, err)
	assert.False(t, got)

	_, err = svc.Add(context.Background(), userID, productID)
	require.NoError(t, err)

	got, err = svc.IsFavorited(context.Background(), userID, productID)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestRemoveFavorite(t *testing.T) {
	db := setupFavoritesTestDB(t)
	svc := newFavoritesService(t, db)
	userID := uuid.New()
	productID := seedProduct(t, db, "Tea Powder 250g")

	_, err := svc.Add(context.Background(), userID, productID)
	require.NoError(t, err)
	require.NoError(t, svc.Remove(context.Background(), userID, productID))

	err = svc.Remove(context.Background(), userID, productID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
