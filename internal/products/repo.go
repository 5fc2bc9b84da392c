package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/graamkart/graamkart-backend/pkg/db/models"
	"github.com/graamkart/graamkart-backend/pkg/pagination"
)

// Repository encapsulates product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads one product with its image slots.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("slot ASC") }).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListFilter narrows the product listing.
type ListFilter struct {
	CategoryID    *uuid.UUID
	SubCategoryID *uuid.UUID
	BrandID       *uuid.UUID
	TodaysSpecial *bool
	Search        string
}

// List returns one page of products matching the filter, newest first.
// The cursor is (created_at, id) keyset; one extra row is fetched to
// detect whether a next page exists.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Product, string, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("slot ASC") })

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.SubCategoryID != nil {
		query = query.Where("subcategory_id = ?", *filter.SubCategoryID)
	}
	if filter.BrandID != nil {
		query = query.Where("brand_id = ?", *filter.BrandID)
	}
	if filter.TodaysSpecial != nil {
		query = query.Where("todays_special = ?", *filter.TodaysSpecial)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	limit := pagination.NormalizeLimit(page.Limit)
	var out []models.Product
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(page.Limit)).
		Find(&out).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(out) > limit {
		out = out[:limit]
		last := out[len(out)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return out, next, nil
}

// Create inserts a new product.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update persists changed fields of an existing product.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes the product; image rows cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// UpsertImage writes the URL for one slot, replacing a previous upload
// to the same slot.
func (r *Repository) UpsertImage(ctx context.Context, productID uuid.UUID, slot int, url string) error {
	image := models.ProductImage{
		ProductID: productID,
		Slot:      slot,
		URL:       url,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "slot"}},
			DoUpdates: clause.AssignmentColumns([]string{"url", "updated_at"}),
		}).
		Create(&image).Error
}

// DeleteImages removes all image rows for a product.
func (r *Repository) DeleteImages(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.ProductImage{}).Error
}
