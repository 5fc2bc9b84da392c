package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/graamkart/graamkart-backend/pkg/db/models"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
	"github.com/graamkart/graamkart-backend/pkg/logger"
	"github.com/graamkart/graamkart-backend/pkg/storage/gcs"
)

// ImageUpload is one multipart file destined for a category or poster.
type ImageUpload struct {
	ContentType string
	Reader      io.Reader
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo   *Repository
	Assets *gcs.Client
	Logger *logger.Logger
}

// Service manages the reference data products hang off of. Deletes of
// parent rows are refused while children still reference them, so the
// catalog tree never dangles.
type Service interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CreateCategory(ctx context.Context, name string, image *ImageUpload) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name string, image *ImageUpload) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListSubCategories(ctx context.Context) ([]models.SubCategory, error)
	GetSubCategory(ctx context.Context, id uuid.UUID) (*models.SubCategory, error)
	CreateSubCategory(ctx context.Context, name string, categoryID uuid.UUID) (*models.SubCategory, error)
	UpdateSubCategory(ctx context.Context, id uuid.UUID, name string, categoryID uuid.UUID) (*models.SubCategory, error)
	DeleteSubCategory(ctx context.Context, id uuid.UUID) error

	ListBrands(ctx context.Context) ([]models.Brand, error)
	GetBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error)
	CreateBrand(ctx context.Context, name string, subCategoryID *uuid.UUID) (*models.Brand, error)
	UpdateBrand(ctx context.Context, id uuid.UUID, name string, subCategoryID *uuid.UUID) (*models.Brand, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error

	ListVariantTypes(ctx context.Context) ([]models.VariantType, error)
	GetVariantType(ctx context.Context, id uuid.UUID) (*models.VariantType, error)
	CreateVariantType(ctx context.Context, name, typ string) (*models.VariantType, error)
	UpdateVariantType(ctx context.Context, id uuid.UUID, name, typ string) (*models.VariantType, error)
	DeleteVariantType(ctx context.Context, id uuid.UUID) error

	ListVariants(ctx context.Context) ([]models.Variant, error)
	GetVariant(ctx context.Context, id uuid.UUID) (*models.Variant, error)
	CreateVariant(ctx context.Context, name string, variantTypeID uuid.UUID) (*models.Variant, error)
	UpdateVariant(ctx context.Context, id uuid.UUID, name string, variantTypeID uuid.UUID) (*models.Variant, error)
	DeleteVariant(ctx context.Context, id uuid.UUID) error

	ListPosters(ctx context.Context) ([]models.Poster, error)
	GetPoster(ctx context.Context, id uuid.UUID) (*models.Poster, error)
	CreatePoster(ctx context.Context, name string, image *ImageUpload) (*models.Poster, error)
	UpdatePoster(ctx context.Context, id uuid.UUID, name string, image *ImageUpload) (*models.Poster, error)
	DeletePoster(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   *Repository
	assets *gcs.Client
	logg   *logger.Logger
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{repo: params.Repo, assets: params.Assets, logg: params.Logger}, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	out, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return out, nil
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	cat, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "category not found", "load category")
	}
	return cat, nil
}

func (s *service) CreateCategory(ctx context.Context, name string, image *ImageUpload) (*models.Category, error) {
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	cat := &models.Category{ID: uuid.New(), Name: name}
	if image != nil {
		url, err := s.uploadImage(ctx, fmt.Sprintf("categories/%s", cat.ID), image)
		if err != nil {
			return nil, err
		}
		cat.ImageURL = url
	}
	if err := s.repo.CreateCategory(ctx, cat); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return cat, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, name string, image *ImageUpload) (*models.Category, error) {
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	cat, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	cat.Name = name
	if image != nil {
		url, err := s.uploadImage(ctx, fmt.Sprintf("categories/%s", cat.ID), image)
		if err != nil {
			return nil, err
		}
		cat.ImageURL = url
	}
	if err := s.repo.SaveCategory(ctx, cat); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return cat, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	subCategories, products, err := s.repo.CountCategoryChildren(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category children")
	}
	if subCategories > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "cannot delete category, subcategories exist")
	}
	if products > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "cannot delete category, products exist")
	}
	affected, err := s.repo.DeleteCategory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	return nil
}

// uploadImage pushes one file to the asset bucket. Upload precedes any
// DB write so a storage failure never leaves a row pointing nowhere.
func (s *service) uploadImage(ctx context.Context, objectPath string, image *ImageUpload) (string, error) {
	if !s.assets.Enabled() {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "asset storage unavailable")
	}
	url, err := s.assets.Upload(ctx, objectPath, image.ContentType, image.Reader)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload image")
	}
	return url, nil
}

func notFoundOr(err error, notFoundMsg, depMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, depMsg)
}
