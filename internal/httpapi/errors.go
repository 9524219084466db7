package httpapi

import (
	"errors"
	"net/http"

	"storefront-be/internal/address"
	"storefront-be/internal/cart"
	"storefront-be/internal/coupon"
	"storefront-be/internal/logger"
	"storefront-be/internal/order"
	"storefront-be/internal/pricing"
	"storefront-be/internal/product"
	"storefront-be/internal/review"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

var (
	errInvalidBody = errors.New("invalid request body")
	errInvalidID   = errors.New("invalid id")
)

type errorMapping struct {
	status int
	errs   []error
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{http.StatusUnauthorized, []error{utils.ErrUnauthenticated}},
	{http.StatusForbidden, []error{
		review.ErrNotPurchased,
		review.ErrNotOwner,
		address.ErrNotOwner,
		order.ErrNotOwner,
	}},
	{http.StatusUnprocessableEntity, []error{coupon.ErrInvalidCoupon}},
	{http.StatusConflict, []error{
		order.ErrInvalidTransition,
		order.ErrInsufficientStock,
		cart.ErrInsufficientStock,
		review.ErrAlreadyReviewed,
		review.ErrDuplicateReview,
		coupon.ErrCodeTaken,
	}},
	{http.StatusNotFound, []error{
		order.ErrOrderNotFound,
		review.ErrReviewNotFound,
		address.ErrAddressNotFound,
		coupon.ErrCouponNotFound,
		product.ErrProductNotFound,
		cart.ErrCartItemNotFound,
	}},
	{http.StatusBadRequest, []error{
		errInvalidBody,
		errInvalidID,
		order.ErrInvalidStatus,
		order.ErrEmptyCart,
		cart.ErrInvalidQuantity,
		cart.ErrInvalidProduct,
		cart.ErrInvalidOwner,
		review.ErrInvalidRating,
		review.ErrCommentTooLong,
		address.ErrInvalidAddress,
		coupon.ErrInvalidCode,
		coupon.ErrInvalidDiscountType,
		coupon.ErrInvalidValue,
		coupon.ErrInvalidMinCartValue,
		coupon.ErrInvalidExpiryDate,
		pricing.ErrInvalidLine,
	}},
}

func statusFor(err error) int {
	for _, m := range errorMappings {
		for _, target := range m.errs {
			if errors.Is(err, target) {
				return m.status
			}
		}
	}
	return http.StatusInternalServerError
}

// writeServiceError maps a domain error to its HTTP status. Unknown errors
// are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	switch {
	case status == http.StatusInternalServerError:
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		utils.WriteJSONError(w, "internal server error", status)
	case errors.Is(err, coupon.ErrInvalidCoupon):
		utils.WriteJSONError(w, coupon.ErrInvalidCoupon.Error(), status)
	default:
		utils.WriteJSONError(w, err.Error(), status)
	}
}
