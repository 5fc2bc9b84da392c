package coupons

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/graamkart/graamkart-backend/pkg/db/models"
)

// Repository encapsulates coupon persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a coupon repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]models.Coupon, error) {
	var out []models.Coupon
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	var c models.Coupon
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByCode looks a coupon up by its canonical code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	err := r.db.WithContext(ctx).
		First(&c, "code = ?", models.NormalizeCouponCode(code)).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) Create(ctx context.Context, c *models.Coupon) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repository) Save(ctx context.Context, c *models.Coupon) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Coupon{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// ProductScopeRefs returns the category ids of the given products so
// category-scoped coupons can be matched against a cart.
func (r *Repository) ProductScopeRefs(ctx context.Context, productIDs []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	err := r.db.WithContext(ctx).
		Select("id", "category_id", "subcategory_id").
		Where("id IN ?", productIDs).
		Find(&out).Error
	return out, err
}
