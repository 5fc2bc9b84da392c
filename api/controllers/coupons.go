package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/graamkart/graamkart-backend/api/responses"
	"github.com/graamkart/graamkart-backend/api/validators"
	"github.com/graamkart/graamkart-backend/internal/coupons"
	"github.com/graamkart/graamkart-backend/pkg/db/models"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
	"github.com/graamkart/graamkart-backend/pkg/logger"
)

type couponBody struct {
	Code               string          `json:"couponCode" validate:"required"`
	DiscountType       string          `json:"discountType" validate:"required"`
	DiscountAmount     decimal.Decimal `json:"discountAmount" validate:"required"`
	MinimumPurchase    decimal.Decimal `json:"minimumPurchaseAmount"`
	EndDate            time.Time       `json:"endDate" validate:"required"`
	Status             string          `json:"status"`
	ApplicabilityScope string          `json:"applicabilityScope"`
	ApplicableID       string          `json:"applicableId"`
}

func (b couponBody) toInput() (coupons.CreateInput, error) {
	applicableID, err := parseOptionalUUIDField(b.ApplicableID, "applicableId")
	if err != nil {
		return coupons.CreateInput{}, err
	}
	return coupons.CreateInput{
		Code:               b.Code,
		DiscountType:       models.DiscountType(b.DiscountType),
		DiscountAmount:     b.DiscountAmount,
		MinimumPurchase:    b.MinimumPurchase,
		EndDate:            b.EndDate,
		Status:             models.CouponStatus(b.Status),
		ApplicabilityScope: models.ApplicabilityScope(b.ApplicabilityScope),
		ApplicableID:       applicableID,
	}, nil
}

func CouponsList(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}
		items, err := svc.List(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Coupons retrieved successfully.", items)
	}
}

func CouponGet(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		coupon, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Coupon retrieved successfully.", coupon)
	}
}

func CouponCreate(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}
		var body couponBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input, err := body.toInput()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		coupon, err := svc.Create(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "Coupon created successfully.", coupon)
	}
}

func CouponUpdate(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var body couponBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input, err := body.toInput()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		coupon, err := svc.Update(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Coupon updated successfully.", coupon)
	}
}

func CouponDelete(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
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
		responses.WriteSuccess(w, "Coupon deleted successfully.", nil)
	}
}

// CouponCheck validates a coupon code against a purchase total and the
// products in the cart, returning the coupon plus the discount it
// yields.
func CouponCheck(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}
		var body struct {
			CouponCode     string          `json:"couponCode" validate:"required"`
			PurchaseAmount decimal.Decimal `json:"purchaseAmount"`
			ProductIDs     []string        `json:"productIds"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := coupons.CheckInput{
			Code:           body.CouponCode,
			PurchaseAmount: body.PurchaseAmount,
		}
		for _, raw := range body.ProductIDs {
			id, err := parseUUIDField(raw, "productIds")
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			input.ProductIDs = append(input.ProductIDs, id)
		}

		result, err := svc.Check(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Coupon is applicable.", result)
	}
}
