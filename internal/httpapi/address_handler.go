package httpapi

import (
	"net/http"

	"storefront-be/internal/address"
	"storefront-be/internal/utils"
)

type AddressHandler struct {
	addresses address.Service
}

func NewAddressHandler(addresses address.Service) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.RequireUserID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	list, err := h.addresses.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []*address.Address{}
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.RequireUserID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var input address.Input
	if err := decodeJSON(w, r, &input); err != nil {
		writeServiceError(w, r, err)
		return
	}

	addr, err := h.addresses.Create(r.Context(), userID, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, addr)
}

func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.RequireUserID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var input address.Input
	if err := decodeJSON(w, r, &input); err != nil {
		writeServiceError(w, r, err)
		return
	}

	addr, err := h.addresses.Update(r.Context(), userID, id, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, addr)
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.RequireUserID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.addresses.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AddressHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.RequireUserID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.addresses.SetDefault(r.Context(), userID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
