package favorites

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/graamkart/graamkart-backend/pkg/db/models"
)

// Repository encapsulates favorite persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByUser returns the user's favorites, newest first, with products
// and their image slots populated.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	var out []models.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Product").
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("slot ASC")
		}).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Find loads one favorite by the (user, product) pair.
func (r *Repository) Find(ctx context.Context, userID, productID uuid.UUID) (*models.Favorite, error) {
	var fav models.Favorite
	err := r.db.WithContext(ctx).
		First(&fav, "user_id = ? AND product_id = ?", userID, productID).Error
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

// Create inserts the favorite. The unique (user_id, product_id) index
// surfaces duplicates as a constraint error.
func (r *Repository) Create(ctx context.Context, fav *models.Favorite) error {
	return r.db.WithContext(ctx).Create(fav).Error
}

// Delete removes the (user, product) favorite and reports how many
// rows matched.
func (r *Repository) Delete(ctx context.Context, userID, productID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{})
	return res.RowsAffected, res.Error
}
