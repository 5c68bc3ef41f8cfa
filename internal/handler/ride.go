package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiye/internal/ridesim"
	"taxiye/internal/service"
)

// RideHandler handles HTTP requests for the simulated ride lifecycle.
type RideHandler struct {
	rides *service.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rides *service.RideService) *RideHandler {
	return &RideHandler{rides: rides}
}

// StartRideRequest is the HTTP request body for requesting a ride.
type StartRideRequest struct {
	Pickup        string `json:"pickup"`
	Dropoff       string `json:"dropoff"`
	VehicleType   string `json:"vehicle_type"`
	PaymentMethod string `json:"payment_method"`
	CouponCode    string `json:"coupon_code"`
}

// RideResponse is the HTTP response for ride session state.
type RideResponse struct {
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
	Pickup      string `json:"pickup,omitempty"`
	Dropoff     string `json:"dropoff,omitempty"`
	VehicleType string `json:"vehicle_type,omitempty"`
	DriverName  string `json:"driver_name,omitempty"`
	ETAMinutes  int    `json:"eta_minutes,omitempty"`
}

func toRideResponse(snap ridesim.Snapshot) RideResponse {
	return RideResponse{
		Status:      string(snap.Status),
		Progress:    snap.Progress,
		Pickup:      snap.Info.Pickup,
		Dropoff:     snap.Info.Dropoff,
		VehicleType: snap.Info.VehicleType,
		DriverName:  snap.Info.DriverName,
		ETAMinutes:  snap.Info.ETAMinutes,
	}
}

// Start handles POST /v1/users/:id/rides
func (h *RideHandler) Start(c *gin.Context) {
	var req StartRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	snap, err := h.rides.Start(c.Request.Context(), service.StartRideRequest{
		RiderID:       c.Param("id"),
		Pickup:        req.Pickup,
		Dropoff:       req.Dropoff,
		VehicleType:   req.VehicleType,
		PaymentMethod: req.PaymentMethod,
		CouponCode:    req.CouponCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toRideResponse(snap))
}

// Status handles GET /v1/users/:id/rides/active. A rider with no live
// session gets an idle snapshot rather than an error.
func (h *RideHandler) Status(c *gin.Context) {
	snap, err := h.rides.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNoActiveRide) {
			c.JSON(http.StatusOK, RideResponse{Status: string(ridesim.StatusIdle), Progress: 0})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRideResponse(snap))
}

// Cancel handles DELETE /v1/users/:id/rides/active
func (h *RideHandler) Cancel(c *gin.Context) {
	if err := h.rides.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
