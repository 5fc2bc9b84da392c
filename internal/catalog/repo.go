package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/graamkart/graamkart-backend/pkg/db/models"
)

// Repository covers the reference-data entities: categories,
// sub-categories, brands, variant types, variants and posters.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// --- categories ---

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error
	return out, err
}

func (r *Repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var cat models.Category
	if err := r.db.WithContext(ctx).First(&cat, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *Repository) CreateCategory(ctx context.Context, cat *models.Category) error {
	return r.db.WithContext(ctx).Create(cat).Error
}

func (r *Repository) SaveCategory(ctx context.Context, cat *models.Category) error {
	return r.db.WithContext(ctx).Save(cat).Error
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// CountCategoryChildren reports how many sub-categories and products
// still reference the category; deletes are refused while either is
// non-zero.
func (r *Repository) CountCategoryChildren(ctx context.Context, id uuid.UUID) (subCategories, products int64, err error) {
	err = r.db.WithContext(ctx).Model(&models.SubCategory{}).
		Where("category_id = ?", id).Count(&subCategories).Error
	if err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).Model(&models.Product{}).
		Where("category_id = ?", id).Count(&products).Error
	if err != nil {
		return 0, 0, err
	}
	return subCategories, products, nil
}

// --- sub-categories ---

func (r *Repository) ListSubCategories(ctx context.Context) ([]models.SubCategory, error) {
	var out []models.SubCategory
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error
	return out, err
}

func (r *Repository) FindSubCategory(ctx context.Context, id uuid.UUID) (*models.SubCategory, error) {
	var sub models.SubCategory
	if err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *Repository) CreateSubCategory(ctx context.Context, sub *models.SubCategory) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *Repository) SaveSubCategory(ctx context.Context, sub *models.SubCategory) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

func (r *Repository) DeleteSubCategory(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.SubCategory{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *Repository) CountSubCategoryChildren(ctx context.Context, id uuid.UUID) (brands, products int64, err error) {
	err = r.db.WithContext(ctx).Model(&models.Brand{}).
		Where("subcategory_id = ?", id).Count(&brands).Error
	if err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).Model(&models.Product{}).
		Where("subcategory_id = ?", id).Count(&products).Error
	if err != nil {
		return 0, 0, err
	}
	return brands, products, nil
}

// --- brands ---

func (r *Repository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var out []models.Brand
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error
	return out, err
}

func (r *Repository) FindBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *Repository) CreateBrand(ctx context.Context, brand *models.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

func (r *Repository) SaveBrand(ctx context.Context, brand *models.Brand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

func (r *Repository) DeleteBrand(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Brand{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *Repository) CountBrandProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("brand_id = ?", id).Count(&n).Error
	return n, err
}

// --- variant types ---

func (r *Repository) ListVariantTypes(ctx context.Context) ([]models.VariantType, error) {
	var out []models.VariantType
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error
	return out, err
}

func (r *Repository) FindVariantType(ctx context.Context, id uuid.UUID) (*models.VariantType, error) {
	var vt models.VariantType
	if err := r.db.WithContext(ctx).First(&vt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vt, nil
}

func (r *Repository) CreateVariantType(ctx context.Context, vt *models.VariantType) error {
	return r.db.WithContext(ctx).Create(vt).Error
}

func (r *Repository) SaveVariantType(ctx context.Context, vt *models.VariantType) error {
	return r.db.WithContext(ctx).Save(vt).Error
}

func (r *Repository) DeleteVariantType(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.VariantType{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *Repository) CountVariantTypeChildren(ctx context.Context, id uuid.UUID) (variants, products int64, err error) {
	err = r.db.WithContext(ctx).Model(&models.Variant{}).
		Where("variant_type_id = ?", id).Count(&variants).Error
	if err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).Model(&models.Product{}).
		Where("variant_type_id = ?", id).Count(&products).Error
	if err != nil {
		return 0, 0, err
	}
	return variants, products, nil
}

// --- variants ---

func (r *Repository) ListVariants(ctx context.Context) ([]models.Variant, error) {
	var out []models.Variant
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error
	return out, err
}

func (r *Repository) FindVariant(ctx context.Context, id uuid.UUID) (*models.Variant, error) {
	var v models.Variant
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Repository) CreateVariant(ctx context.Context, v *models.Variant) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *Repository) SaveVariant(ctx context.Context, v *models.Variant) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *Repository) DeleteVariant(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Variant{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// --- posters ---

func (r *Repository) ListPosters(ctx context.Context) ([]models.Poster, error) {
	var out []models.Poster
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *Repository) FindPoster(ctx context.Context, id uuid.UUID) (*models.Poster, error) {
	var p models.Poster
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) CreatePoster(ctx context.Context, p *models.Poster) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repository) SavePoster(ctx context.Context, p *models.Poster) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *Repository) DeletePoster(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Poster{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
