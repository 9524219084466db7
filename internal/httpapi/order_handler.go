package httpapi

import (
	"net/http"

	"storefront-be/internal/order"
	"storefront-be/internal/transport"
	"storefront-be/internal/utils"
)

type OrderHandler struct {
	orders order.Service
}

func NewOrderHandler(orders order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.RequireUserID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	o, err := h.orders.Checkout(r.Context(), userID, transport.CartOwner(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.RequireUserID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	orders, err := h.orders.ListForUser(r.Context(), userID, queryInt(r, "limit"), queryInt(r, "page"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.RequireUserID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	orderID, err := uintParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	o, err := h.orders.Get(r.Context(), userID, utils.IsAdmin(r.Context()), orderID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.RequireUserID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	orderID, err := uintParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	o, err := h.orders.Cancel(r.Context(), userID, utils.IsAdmin(r.Context()), orderID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

// ListAll is the admin listing, optionally filtered by ?status=.
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	filter := order.ListFilter{
		Status: order.Status(r.URL.Query().Get("status")),
		Limit:  queryInt(r, "limit"),
		Page:   queryInt(r, "page"),
	}

	orders, err := h.orders.ListAll(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Transition(w http.ResponseWriter, r *http.Request) {
	adminID, err := utils.RequireUserID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	orderID, err := uintParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var input order.TransitionInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := input.Validate(); err != nil {
		writeServiceError(w, r, err)
		return
	}

	o, err := h.orders.Transition(r.Context(), adminID, orderID, input.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}
