package httpapi

import (
	"net/http"

	"storefront-be/internal/cart"
	"storefront-be/internal/transport"
	"storefront-be/internal/utils"
)

type CartHandler struct {
	carts cart.Service
}

func NewCartHandler(carts cart.Service) *CartHandler {
	return &CartHandler{carts: carts}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.Get(r.Context(), transport.CartOwner(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	var input cart.AddLineInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeServiceError(w, r, err)
		return
	}

	view, err := h.carts.AddLine(r.Context(), transport.CartOwner(r.Context()), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := uintParam(r, "productId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var input cart.UpdateQuantityInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeServiceError(w, r, err)
		return
	}

	view, err := h.carts.UpdateQuantity(r.Context(), transport.CartOwner(r.Context()), productID, input.Quantity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	productID, err := uintParam(r, "productId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	view, err := h.carts.RemoveLine(r.Context(), transport.CartOwner(r.Context()), productID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), transport.CartOwner(r.Context())); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var input cart.ApplyCouponInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeServiceError(w, r, err)
		return
	}

	view, err := h.carts.ApplyCoupon(r.Context(), transport.CartOwner(r.Context()), input.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.RemoveCoupon(r.Context(), transport.CartOwner(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}
