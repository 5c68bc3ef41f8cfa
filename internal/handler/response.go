package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiye/internal/repository"
	"taxiye/internal/ridesim"
	"taxiye/internal/service"
	"taxiye/internal/verify"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrNoActiveRide):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidRiderID),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidPhone),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidVehicleType),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidAddress),
		errors.Is(err, service.ErrCouponNotUsable),
		errors.Is(err, service.ErrReferralCodeUnknown),
		errors.Is(err, service.ErrSelfReferral),
		errors.Is(err, ridesim.ErrMissingPickup),
		errors.Is(err, ridesim.ErrMissingDropoff),
		errors.Is(err, verify.ErrInvalidCode):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, verify.ErrAlreadyVerified),
		errors.Is(err, service.ErrNoPendingVerification),
		errors.Is(err, verify.ErrCodeNotSent):
		return http.StatusConflict

	// Payment required
	case errors.Is(err, repository.ErrInsufficientFunds):
		return http.StatusPaymentRequired

	// Unauthorized verification outcome
	case errors.Is(err, verify.ErrCodeRejected):
		return http.StatusUnauthorized

	// Rate limited
	case errors.Is(err, service.ErrTooManyAttempts):
		return http.StatusTooManyRequests

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
