package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiye/internal/domain"
	"taxiye/internal/service"
)

// AddressHandler handles HTTP requests for saved addresses.
type AddressHandler struct {
	addresses *service.AddressService
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(addresses *service.AddressService) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

// SaveAddressRequest is the HTTP request body for saving an address.
type SaveAddressRequest struct {
	Label   string `json:"label"`
	Address string `json:"address"`
}

// AddressResponse is the HTTP response for a saved address.
type AddressResponse struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Address  string  `json:"address"`
	Lat      float64 `json:"lat,omitempty"`
	Lng      float64 `json:"lng,omitempty"`
	Geocoded bool    `json:"geocoded"`
	PlaceID  string  `json:"place_id,omitempty"`
}

func toAddressResponse(a *domain.SavedAddress) AddressResponse {
	return AddressResponse{
		ID:       a.ID,
		Label:    a.Label,
		Address:  a.Address,
		Lat:      a.Lat,
		Lng:      a.Lng,
		Geocoded: a.Geocoded,
		PlaceID:  a.PlaceID,
	}
}

// Save handles POST /v1/users/:id/addresses
func (h *AddressHandler) Save(c *gin.Context) {
	var req SaveAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	addr, err := h.addresses.SaveAddress(c.Request.Context(), service.SaveAddressRequest{
		UserID:  c.Param("id"),
		Label:   req.Label,
		Address: req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toAddressResponse(addr))
}

// List handles GET /v1/users/:id/addresses
func (h *AddressHandler) List(c *gin.Context) {
	addrs, err := h.addresses.ListAddresses(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]AddressResponse, 0, len(addrs))
	for _, a := range addrs {
		response = append(response, toAddressResponse(a))
	}
	c.JSON(http.StatusOK, response)
}

// Delete handles DELETE /v1/users/:id/addresses/:addressID
func (h *AddressHandler) Delete(c *gin.Context) {
	if err := h.addresses.DeleteAddress(c.Request.Context(), c.Param("addressID"), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
