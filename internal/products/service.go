package products

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/graamkart/graamkart-backend/pkg/db/models"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
	"github.com/graamkart/graamkart-backend/pkg/logger"
	"github.com/graamkart/graamkart-backend/pkg/pagination"
	"github.com/graamkart/graamkart-backend/pkg/storage/gcs"
)

// ImageUpload is one multipart file destined for a product slot.
type ImageUpload struct {
	Slot        int
	ContentType string
	Reader      io.Reader
}

// CreateInput carries admin-facing product creation fields.
type CreateInput struct {
	Name          string
	Description   string
	Unit          *string
	Quantity      int
	Price         decimal.Decimal
	OfferPrice    *decimal.Decimal
	TodaysSpecial bool
	CategoryID    uuid.UUID
	SubCategoryID *uuid.UUID
	BrandID       *uuid.UUID
	VariantTypeID *uuid.UUID
	Variants      []string
	Images        []ImageUpload
}

// UpdateInput uses pointers so only the keys a client sent are applied.
type UpdateInput struct {
	Name          *string
	Description   *string
	Unit          *string
	Quantity      *int
	Price         *decimal.Decimal
	OfferPrice    *decimal.Decimal
	TodaysSpecial *bool
	CategoryID    *uuid.UUID
	SubCategoryID *uuid.UUID
	BrandID       *uuid.UUID
	VariantTypeID *uuid.UUID
	Variants      []string
	Images        []ImageUpload
}

// ServiceParams groups dependencies for the product service.
type ServiceParams struct {
	Repo   *Repository
	Assets *gcs.Client
	Logger *logger.Logger
}

// ListPage is one page of the product listing plus the cursor for the
// next one ("" when exhausted).
type ListPage struct {
	Items      []models.Product `json:"items"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// Service exposes catalog product management.
type Service interface {
	List(ctx context.Context, filter ListFilter, page pagination.Params) (*ListPage, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, input CreateInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   *Repository
	assets *gcs.Client
	logg   *logger.Logger
}

// NewService builds a product service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{repo: params.Repo, assets: params.Assets, logg: params.Logger}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, page pagination.Params) (*ListPage, error) {
	items, next, err := s.repo.List(ctx, filter, page)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidCursor) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	if items == nil {
		items = []models.Product{}
	}
	return &ListPage{Items: items, NextCursor: next}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Product, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	product := &models.Product{
		ID:            uuid.New(),
		Name:          input.Name,
		Description:   input.Description,
		Unit:          input.Unit,
		Quantity:      input.Quantity,
		Price:         input.Price,
		OfferPrice:    input.OfferPrice,
		TodaysSpecial: input.TodaysSpecial,
		CategoryID:    input.CategoryID,
		SubCategoryID: input.SubCategoryID,
		BrandID:       input.BrandID,
		VariantTypeID: input.VariantTypeID,
		Variants:      input.Variants,
	}

	// Uploads run before the insert so a rejected slot or a storage
	// failure leaves no product row behind.
	images, err := s.uploadImages(ctx, product.ID, input.Images)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	if err := s.persistImages(ctx, images); err != nil {
		return nil, err
	}
	return s.Get(ctx, product.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Unit != nil {
		product.Unit = input.Unit
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.OfferPrice != nil {
		product.OfferPrice = input.OfferPrice
	}
	if input.TodaysSpecial != nil {
		product.TodaysSpecial = *input.TodaysSpecial
	}
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	if input.SubCategoryID != nil {
		product.SubCategoryID = input.SubCategoryID
	}
	if input.BrandID != nil {
		product.BrandID = input.BrandID
	}
	if input.VariantTypeID != nil {
		product.VariantTypeID = input.VariantTypeID
	}
	if input.Variants != nil {
		product.Variants = input.Variants
	}

	images, err := s.uploadImages(ctx, id, input.Images)
	if err != nil {
		return nil, err
	}

	product.Images = nil
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	if err := s.persistImages(ctx, images); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

// uploadImages validates the slots and pushes each file to storage,
// returning the slot/url rows to persist once the product row exists.
func (s *service) uploadImages(ctx context.Context, productID uuid.UUID, uploads []ImageUpload) ([]models.ProductImage, error) {
	if len(uploads) == 0 {
		return nil, nil
	}
	for _, upload := range uploads {
		if upload.Slot < models.ImageSlotMin || upload.Slot > models.ImageSlotMax {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "image slot out of range").
				WithDetails(map[string]any{"slot": upload.Slot})
		}
	}
	if !s.assets.Enabled() {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "asset storage unavailable")
	}

	images := make([]models.ProductImage, 0, len(uploads))
	for _, upload := range uploads {
		objectPath := fmt.Sprintf("products/%s/%d", productID, upload.Slot)
		url, err := s.assets.Upload(ctx, objectPath, upload.ContentType, upload.Reader)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload product image")
		}
		images = append(images, models.ProductImage{ProductID: productID, Slot: upload.Slot, URL: url})
	}
	return images, nil
}

func (s *service) persistImages(ctx context.Context, images []models.ProductImage) error {
	for _, img := range images {
		if err := s.repo.UpsertImage(ctx, img.ProductID, img.Slot, img.URL); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist product image")
		}
	}
	return nil
}
