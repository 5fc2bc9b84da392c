package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/graamkart/graamkart-backend/pkg/db/models"
)

// Repository encapsulates address persistence. Every single-address
// query takes (ownerID, addressID) as a pair so a row owned by someone
// else behaves exactly like a missing row.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an address repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByOwner returns the owner's addresses, default first, then newest.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Address, error) {
	var out []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("is_default DESC").
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindByOwner loads one address scoped to its owner.
func (r *Repository) FindByOwner(ctx context.Context, ownerID, addressID uuid.UUID) (*models.Address, error) {
	var addr models.Address
	err := r.db.WithContext(ctx).
		First(&addr, "id = ? AND user_id = ?", addressID, ownerID).Error
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

// Create inserts the address. When it is flagged default, the clear
// and the insert run inside one transaction so the single-default
// invariant holds even across concurrent requests.
func (r *Repository) Create(ctx context.Context, addr *models.Address) error {
	if !addr.IsDefault {
		return r.db.WithContext(ctx).Create(addr).Error
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearDefaults(tx, addr.UserID, uuid.Nil); err != nil {
			return err
		}
		return tx.Create(addr).Error
	})
}

// Save persists the address. A false→true default transition clears
// sibling defaults in the same transaction.
func (r *Repository) Save(ctx context.Context, addr *models.Address, becameDefault bool) error {
	if !becameDefault {
		return r.db.WithContext(ctx).Save(addr).Error
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearDefaults(tx, addr.UserID, addr.ID); err != nil {
			return err
		}
		return tx.Save(addr).Error
	})
}

// SetDefault promotes one owned address to default and demotes the
// rest, all in one transaction. Returns gorm.ErrRecordNotFound when
// the pair does not match.
func (r *Repository) SetDefault(ctx context.Context, ownerID, addressID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var addr models.Address
		if err := tx.First(&addr, "id = ? AND user_id = ?", addressID, ownerID).Error; err != nil {
			return err
		}
		if err := clearDefaults(tx, ownerID, addressID); err != nil {
			return err
		}
		return tx.Model(&models.Address{}).
			Where("id = ?", addressID).
			Update("is_default", true).Error
	})
}

// Delete removes the owned address. No default promotion happens when
// the deleted address was the default; zero defaults is legal.
func (r *Repository) Delete(ctx context.Context, ownerID, addressID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, ownerID).
		Delete(&models.Address{})
	return res.RowsAffected, res.Error
}

func clearDefaults(tx *gorm.DB, ownerID, exceptID uuid.UUID) error {
	query := tx.Model(&models.Address{}).Where("user_id = ?", ownerID)
	if exceptID != uuid.Nil {
		query = query.Where("id <> ?", exceptID)
	}
	return query.Update("is_default", false).Error
}
