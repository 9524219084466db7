package httpapi

import (
	"net/http"

	"storefront-be/internal/coupon"
	"storefront-be/internal/utils"
)

// CouponHandler serves the admin coupon endpoints.
type CouponHandler struct {
	coupons coupon.Service
}

func NewCouponHandler(coupons coupon.Service) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.coupons.List(r.Context(), queryInt(r, "limit"), queryInt(r, "page"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []*coupon.Coupon{}
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input coupon.Input
	if err := decodeJSON(w, r, &input); err != nil {
		writeServiceError(w, r, err)
		return
	}

	c, err := h.coupons.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, c)
}

func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var input coupon.Input
	if err := decodeJSON(w, r, &input); err != nil {
		writeServiceError(w, r, err)
		return
	}

	c, err := h.coupons.Update(r.Context(), id, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.coupons.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
