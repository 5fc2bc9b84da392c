package products

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
	"github.com/graamkart/graamkart-backend/pkg/pagination"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
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
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newProductService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db := setupProductsTestDB(t)
	svc, err := NewService(ServiceParams{Repo: NewRepository(db)})
	require.NoError(t, err)
	return svc, db
}

func createInput(name string) CreateInput {
	return CreateInput{
		Name:       name,
		Quantity:   10,
		Price:      decimal.NewFromInt(120),
		CategoryID: uuid.New(),
	}
}

func TestCreateAndGetProduct(t *testing.T) {
	svc, _ := newProductService(t)
	ctx := context.Background()

	offer := decimal.NewFromInt(95)
	unit := "kg"
	input := createInput("Basmati Rice 5kg")
	input.Description = "Long grain"
	input.Unit = &unit
	input.OfferPrice = &offer
	input.Variants = []string{"5kg", "10kg"}

	created, err := svc.Create(ctx, input)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Basmati Rice 5kg", got.Name)
	require.NotNil(t, got.Unit)
	assert.Equal(t, "kg", *got.Unit)
	assert.Equal(t, []string{"5kg", "10kg"}, []string(got.Variants))
	require.NotNil(t, got.OfferPrice)
	assert.True(t, got.OfferPrice.Equal(offer))
	assert.True(t, got.EffectivePrice().Equal(offer))
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newProductService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"missing name", CreateInput{CategoryID: uuid.New(), Price: decimal.NewFromInt(10)}},
		{"missing category", CreateInput{Name: "Salt", Price: decimal.NewFromInt(10)}},
		{"negative price", CreateInput{Name: "Salt", CategoryID: uuid.New(), Price: decimal.NewFromInt(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.input)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestListFilters(t *testing.T) {
	svc, _ := newProductService(t)
	ctx := context.Background()

	categoryID := uuid.New()

	rice := createInput("Basmati Rice")
	rice.CategoryID = categoryID
	_, err := svc.Create(ctx, rice)
	require.NoError(t, err)

	dal := createInput("Toor Dal")
	dal.CategoryID = categoryID
	dal.TodaysSpecial = true
	_, err = svc.Create(ctx, dal)
	require.NoError(t, err)

	_, err = svc.Create(ctx, createInput("Sunflower Oil"))
	require.NoError(t, err)

	all, err := svc.List(ctx, ListFilter{}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)
	assert.Empty(t, all.NextCursor)

	byCategory, err := svc.List(ctx, ListFilter{CategoryID: &categoryID}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, byCategory.Items, 2)

	special := true
	specials, err := svc.List(ctx, ListFilter{TodaysSpecial: &special}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, specials.Items, 1)
	assert.Equal(t, "Toor Dal", specials.Items[0].Name)

	matches, err := svc.List(ctx, ListFilter{Search: "rice"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, matches.Items, 1)
	assert.True(t, strings.Contains(matches.Items[0].Name, "Rice"))
}

func TestListPaginatesWithCursor(t *testing.T) {
	svc, _ := newProductService(t)
	ctx := context.Background()

	for _, name := range []string{"Item A", "Item B", "Item C"} {
		_, err := svc.Create(ctx, createInput(name))
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, ListFilter{}, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.List(ctx, ListFilter{}, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Empty(t, second.NextCursor)

	seen := map[uuid.UUID]bool{}
	for _, p := range append(first.Items, second.Items...) {
		seen[p.ID] = true
	}
	assert.Len(t, seen, 3)
}

func TestListRejectsMangledCursor(t *testing.T) {
	svc, _ := newProductService(t)

	_, err := svc.List(context.Background(), ListFilter{}, pagination.Params{Cursor: "not-base64!!!"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateAppliesOnlySentFields(t *testing.T) {
	svc, _ := newProductService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createInput("Jaggery Block"))
	require.NoError(t, err)

	newPrice := decimal.NewFromInt(80)
	offer := decimal.NewFromInt(70)
	updated, err := svc.Update(ctx, created.ID, UpdateInput{
		Price:      &newPrice,
		OfferPrice: &offer,
	})
	require.NoError(t, err)

	assert.Equal(t, "Jaggery Block", updated.Name)
	assert.Equal(t, 10, updated.Quantity)
	assert.True(t, updated.Price.Equal(newPrice))
	require.NotNil(t, updated.OfferPrice)
	assert.True(t, updated.OfferPrice.Equal(offer))
}

func TestUpdateRejectsNegativePrice(t *testing.T) {
	svc, _ := newProductService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createInput("Tea Powder"))
	require.NoError(t, err)

	bad := decimal.NewFromInt(-5)
	_, err = svc.Update(ctx, created.ID, UpdateInput{Price: &bad})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDeleteProduct(t *testing.T) {
	svc, _ := newProductService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createInput("Turmeric Powder"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	err = svc.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestImageSlotOutOfRange(t *testing.T) {
	svc, db := newProductService(t)
	ctx := context.Background()

	input := createInput("Ghee Jar")
	input.Images = []ImageUpload{{Slot: 7, ContentType: "image/png", Reader: strings.NewReader("x")}}

	_, err := svc.Create(ctx, input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	var count int64
	require.NoError(t, db.Table("products").Count(&count).Error)
	assert.Zero(t, count, "a rejected slot must not leave a product row behind")
}

func TestImagesRequireAssetStorage(t *testing.T) {
	svc, db := newProductService(t)
	ctx := context.Background()

	input := createInput("Wheat Flour")
	input.Images = []ImageUpload{{Slot: 1, ContentType: "image/png", Reader: strings.NewReader("x")}}

	_, err := svc.Create(ctx, input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())

	var count int64
	require.NoError(t, db.Table("products").Count(&count).Error)
	assert.Zero(t, count, "a failed upload must not leave a product row behind")
}
