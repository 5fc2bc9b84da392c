package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/graamkart/graamkart-backend/pkg/db/models"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
)

func (s *service) ListSubCategories(ctx context.Context) ([]models.SubCategory, error) {
	out, err := s.repo.ListSubCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subcategories")
	}
	return out, nil
}

func (s *service) GetSubCategory(ctx context.Context, id uuid.UUID) (*models.SubCategory, error) {
	sub, err := s.repo.FindSubCategory(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "subcategory not found", "load subcategory")
	}
	return sub, nil
}

func (s *service) CreateSubCategory(ctx context.Context, name string, categoryID uuid.UUID) (*models.SubCategory, error) {
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if categoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	if _, err := s.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	sub := &models.SubCategory{Name: name, CategoryID: categoryID}
	if err := s.repo.CreateSubCategory(ctx, sub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create subcategory")
	}
	return sub, nil
}

func (s *service) UpdateSubCategory(ctx context.Context, id uuid.UUID, name string, categoryID uuid.UUID) (*models.SubCategory, error) {
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if categoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	sub, err := s.GetSubCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	sub.Name = name
	sub.CategoryID = categoryID
	if err := s.repo.SaveSubCategory(ctx, sub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update subcategory")
	}
	return sub, nil
}

func (s *service) DeleteSubCategory(ctx context.Context, id uuid.UUID) error {
	brands, products, err := s.repo.CountSubCategoryChildren(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count subcategory children")
	}
	if brands > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "cannot delete subcategory, brands exist")
	}
	if products > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "cannot delete subcategory, products exist")
	}
	affected, err := s.repo.DeleteSubCategory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete subcategory")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "subcategory not found")
	}
	return nil
}

func (s *service) ListBrands(ctx context.Context) ([]models.Brand, error) {
	out, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brands")
	}
	return out, nil
}

func (s *service) GetBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	brand, err := s.repo.FindBrand(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "brand not found", "load brand")
	}
	return brand, nil
}

func (s *service) CreateBrand(ctx context.Context, name string, subCategoryID *uuid.UUID) (*models.Brand, error) {
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if subCategoryID != nil {
		if _, err := s.GetSubCategory(ctx, *subCategoryID); err != nil {
			return nil, err
		}
	}
	brand := &models.Brand{Name: name, SubCategoryID: subCategoryID}
	if err := s.repo.CreateBrand(ctx, brand); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create brand")
	}
	return brand, nil
}

func (s *service) UpdateBrand(ctx context.Context, id uuid.UUID, name string, subCategoryID *uuid.UUID) (*models.Brand, error) {
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	brand, err := s.GetBrand(ctx, id)
	if err != nil {
		return nil, err
	}
	if subCategoryID != nil {
		if _, err := s.GetSubCategory(ctx, *subCategoryID); err != nil {
			return nil, err
		}
	}
	brand.Name = name
	brand.SubCategoryID = subCategoryID
	if err := s.repo.SaveBrand(ctx, brand); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update brand")
	}
	return brand, nil
}

func (s *service) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	products, err := s.repo.CountBrandProducts(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count brand products")
	}
	if products > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "cannot delete brand, products exist")
	}
	affected, err := s.repo.DeleteBrand(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete brand")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
	}
	return nil
}

func (s *service) ListVariantTypes(ctx context.Context) ([]models.VariantType, error) {
	out, err := s.repo.ListVariantTypes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list variant types")
	}
	return out, nil
}

func (s *service) GetVariantType(ctx context.Context, id uuid.UUID) (*models.VariantType, error) {
	vt, err := s.repo.FindVariantType(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "variant type not found", "load variant type")
	}
	return vt, nil
}

func (s *service) CreateVariantType(ctx context.Context, name, typ string) (*models.VariantType, error) {
	if name == "" || typ == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and type are required")
	}
	vt := &models.VariantType{Name: name, Type: typ}
	if err := s.repo.CreateVariantType(ctx, vt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create variant type")
	}
	return vt, nil
}

func (s *service) UpdateVariantType(ctx context.Context, id uuid.UUID, name, typ string) (*models.VariantType, error) {
	if name == "" || typ == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and type are required")
	}
	vt, err := s.GetVariantType(ctx, id)
	if err != nil {
		return nil, err
	}
	vt.Name = name
	vt.Type = typ
	if err := s.repo.SaveVariantType(ctx, vt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update variant type")
	}
	return vt, nil
}

func (s *service) DeleteVariantType(ctx context.Context, id uuid.UUID) error {
	variants, products, err := s.repo.CountVariantTypeChildren(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count variant type children")
	}
	if variants > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "cannot delete variant type, variants exist")
	}
	if products > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "cannot delete variant type, products exist")
	}
	affected, err := s.repo.DeleteVariantType(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete variant type")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "variant type not found")
	}
	return nil
}

func (s *service) ListVariants(ctx context.Context) ([]models.Variant, error) {
	out, err := s.repo.ListVariants(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list variants")
	}
	return out, nil
}

func (s *service) GetVariant(ctx context.Context, id uuid.UUID) (*models.Variant, error) {
	v, err := s.repo.FindVariant(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "variant not found", "load variant")
	}
	return v, nil
}

func (s *service) CreateVariant(ctx context.Context, name string, variantTypeID uuid.UUID) (*models.Variant, error) {
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if variantTypeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant type id is required")
	}
	if _, err := s.GetVariantType(ctx, variantTypeID); err != nil {
		return nil, err
	}
	v := &models.Variant{Name: name, VariantTypeID: variantTypeID}
	if err := s.repo.CreateVariant(ctx, v); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create variant")
	}
	return v, nil
}

func (s *service) UpdateVariant(ctx context.Context, id uuid.UUID, name string, variantTypeID uuid.UUID) (*models.Variant, error) {
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if variantTypeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant type id is required")
	}
	v, err := s.GetVariant(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetVariantType(ctx, variantTypeID); err != nil {
		return nil, err
	}
	v.Name = name
	v.VariantTypeID = variantTypeID
	if err := s.repo.SaveVariant(ctx, v); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update variant")
	}
	return v, nil
}

func (s *service) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.DeleteVariant(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete variant")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	return nil
}
