package httpapi

import (
	"net/http"

	"storefront-be/internal/review"
	"storefront-be/internal/utils"
)

type ReviewHandler struct {
	reviews review.Service
}

func NewReviewHandler(reviews review.Service) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

type productReviewsResponse struct {
	Summary *review.Summary  `json:"summary"`
	Reviews []*review.Review `json:"reviews"`
}

type verifyInput struct {
	Verified bool `json:"verified"`
}

func (h *ReviewHandler) ListForProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uintParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	reviews, err := h.reviews.ListForProduct(r.Context(), productID, queryInt(r, "limit"), queryInt(r, "page"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	summary, err := h.reviews.Summary(r.Context(), productID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if reviews == nil {
		reviews = []*review.Review{}
	}
	utils.WriteJSON(w, http.StatusOK, productReviewsResponse{Summary: summary, Reviews: reviews})
}

func (h *ReviewHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.RequireUserID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	productID, err := uintParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	decision, err := h.reviews.CanReview(r.Context(), userID, productID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, decision)
}

func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.RequireUserID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	productID, err := uintParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var input review.Input
	if err := decodeJSON(w, r, &input); err != nil {
		writeServiceError(w, r, err)
		return
	}

	rv, err := h.reviews.Submit(r.Context(), userID, productID, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, rv)
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.RequireUserID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	reviewID, err := uintParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var input review.Input
	if err := decodeJSON(w, r, &input); err != nil {
		writeServiceError(w, r, err)
		return
	}

	rv, err := h.reviews.Update(r.Context(), userID, reviewID, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rv)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.RequireUserID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	reviewID, err := uintParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.reviews.Delete(r.Context(), userID, reviewID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReviewHandler) MarkHelpful(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.RequireUserID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	reviewID, err := uintParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	rv, err := h.reviews.MarkHelpful(r.Context(), userID, reviewID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rv)
}

func (h *ReviewHandler) SetVerified(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uintParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var input verifyInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeServiceError(w, r, err)
		return
	}

	rv, err := h.reviews.SetVerified(r.Context(), reviewID, input.Verified)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rv)
}
