package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/graamkart/graamkart-backend/api/responses"
	"github.com/graamkart/graamkart-backend/api/validators"
	"github.com/graamkart/graamkart-backend/internal/products"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
	"github.com/graamkart/graamkart-backend/pkg/logger"
	"github.com/graamkart/graamkart-backend/pkg/pagination"
)

const productImageSlots = 5

func formDecimal(r *http.Request, field string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, field+" must be a valid number")
	}
	return &value, nil
}

func formInt(r *http.Request, field string) (*int, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, field+" must be a whole number")
	}
	return &value, nil
}

func formBool(r *http.Request, field string) (*bool, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, field+" must be true or false")
	}
	return &value, nil
}

// formVariants accepts "variants" as a comma-separated list of values.
func formVariants(r *http.Request) []string {
	raw := strings.TrimSpace(r.FormValue("variants"))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	variants := make([]string, 0, len(parts))
	for _, part := range parts {
		if v := strings.TrimSpace(part); v != "" {
			variants = append(variants, v)
		}
	}
	return variants
}

// productImages reads the image1..image5 slots from the multipart form.
// Only the slots that carry a file produce uploads.
func productImages(r *http.Request) ([]products.ImageUpload, error) {
	var uploads []products.ImageUpload
	for slot := 1; slot <= productImageSlots; slot++ {
		file, header, err := formFile(r, fmt.Sprintf("image%d", slot))
		if err != nil {
			return nil, err
		}
		if file == nil {
			continue
		}
		uploads = append(uploads, products.ImageUpload{
			Slot:        slot,
			ContentType: headerContentType(header),
			Reader:      file,
		})
	}
	return uploads, nil
}

// ProductsList returns one page of products, newest first, filtered by
// the optional categoryId, subcategoryId, brandId, todaysSpecial and
// search query parameters. limit and cursor page through the results.
func ProductsList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var filter products.ListFilter
		query := r.URL.Query()

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		page := pagination.Params{Limit: limit, Cursor: query.Get("cursor")}

		categoryID, err := parseOptionalUUIDField(query.Get("categoryId"), "categoryId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		filter.CategoryID = categoryID

		subCategoryID, err := parseOptionalUUIDField(query.Get("subcategoryId"), "subcategoryId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		filter.SubCategoryID = subCategoryID

		brandID, err := parseOptionalUUIDField(query.Get("brandId"), "brandId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		filter.BrandID = brandID

		if raw := query.Get("todaysSpecial"); raw != "" {
			special, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "todaysSpecial must be true or false"))
				return
			}
			filter.TodaysSpecial = &special
		}
		filter.Search = validators.SanitizeString(query.Get("search"), 120)

		result, err := svc.List(ctx, filter, page)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Products retrieved successfully.", result)
	}
}

func ProductGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		product, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Product retrieved successfully.", product)
	}
}

// ProductCreate accepts a multipart form with the product fields plus
// up to five image slots.
func ProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		input := products.CreateInput{
			Name:        validators.SanitizeString(r.FormValue("name"), 200),
			Description: validators.SanitizeString(r.FormValue("description"), 2000),
			Variants:    formVariants(r),
		}
		if unit := validators.SanitizeString(r.FormValue("unit"), 40); unit != "" {
			input.Unit = &unit
		}

		if quantity, err := formInt(r, "quantity"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		} else if quantity != nil {
			input.Quantity = *quantity
		}

		price, err := formDecimal(r, "price")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if price != nil {
			input.Price = *price
		}
		if input.OfferPrice, err = formDecimal(r, "offerPrice"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if special, err := formBool(r, "todaysSpecial"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		} else if special != nil {
			input.TodaysSpecial = *special
		}

		categoryID, err := parseUUIDField(r.FormValue("categoryId"), "categoryId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input.CategoryID = categoryID

		if input.SubCategoryID, err = parseOptionalUUIDField(r.FormValue("subcategoryId"), "subcategoryId"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if input.BrandID, err = parseOptionalUUIDField(r.FormValue("brandId"), "brandId"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if input.VariantTypeID, err = parseOptionalUUIDField(r.FormValue("variantTypeId"), "variantTypeId"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if input.Images, err = productImages(r); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.Create(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "Product created successfully.", product)
	}
}

// ProductUpdate applies the multipart fields that were sent; image
// slots that carry a file replace that slot only.
func ProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		var input products.UpdateInput
		if name := validators.SanitizeString(r.FormValue("name"), 200); name != "" {
			input.Name = &name
		}
		if description := validators.SanitizeString(r.FormValue("description"), 2000); description != "" {
			input.Description = &description
		}
		if unit := validators.SanitizeString(r.FormValue("unit"), 40); unit != "" {
			input.Unit = &unit
		}
		if input.Quantity, err = formInt(r, "quantity"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if input.Price, err = formDecimal(r, "price"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if input.OfferPrice, err = formDecimal(r, "offerPrice"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if input.TodaysSpecial, err = formBool(r, "todaysSpecial"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if input.CategoryID, err = parseOptionalUUIDField(r.FormValue("categoryId"), "categoryId"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if input.SubCategoryID, err = parseOptionalUUIDField(r.FormValue("subcategoryId"), "subcategoryId"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if input.BrandID, err = parseOptionalUUIDField(r.FormValue("brandId"), "brandId"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if input.VariantTypeID, err = parseOptionalUUIDField(r.FormValue("variantTypeId"), "variantTypeId"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input.Variants = formVariants(r)
		if input.Images, err = productImages(r); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.Update(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Product updated successfully.", product)
	}
}

func ProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Product deleted successfully.", nil)
	}
}
