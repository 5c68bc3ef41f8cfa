package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taxiye/internal/domain"
	"taxiye/internal/service"
)

// TripHandler handles HTTP requests for trip history.
type TripHandler struct {
	trips *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(trips *service.TripService) *TripHandler {
	return &TripHandler{trips: trips}
}

// TripResponse is the HTTP response for a recorded trip.
type TripResponse struct {
	ID            string    `json:"id"`
	Pickup        string    `json:"pickup"`
	Dropoff       string    `json:"dropoff"`
	VehicleType   string    `json:"vehicle_type"`
	DriverName    string    `json:"driver_name"`
	Fare          float64   `json:"fare"`
	Discount      float64   `json:"discount,omitempty"`
	CouponCode    string    `json:"coupon_code,omitempty"`
	PaymentMethod string    `json:"payment_method"`
	StartedAt     time.Time `json:"started_at"`
	CompletedAt   time.Time `json:"completed_at"`
}

func toTripResponse(t *domain.Trip) TripResponse {
	return TripResponse{
		ID:            t.ID,
		Pickup:        t.Pickup,
		Dropoff:       t.Dropoff,
		VehicleType:   string(t.VehicleType),
		DriverName:    t.DriverName,
		Fare:          t.Fare,
		Discount:      t.Discount,
		CouponCode:    t.CouponCode,
		PaymentMethod: string(t.PaymentMethod),
		StartedAt:     t.StartedAt,
		CompletedAt:   t.CompletedAt,
	}
}

// History handles GET /v1/users/:id/trips
func (h *TripHandler) History(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	trips, err := h.trips.History(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(trips))
	for _, t := range trips {
		response = append(response, toTripResponse(t))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /v1/users/:id/trips/:tripID
func (h *TripHandler) Get(c *gin.Context) {
	trip, err := h.trips.Get(c.Request.Context(), c.Param("tripID"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTripResponse(trip))
}
