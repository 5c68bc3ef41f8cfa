package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiye/internal/domain"
	"taxiye/internal/service"
)

// ProfileHandler handles HTTP requests for rider accounts and the
// phone-change verification flow.
type ProfileHandler struct {
	profiles      *service.ProfileService
	verifications *service.VerificationService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService, verifications *service.VerificationService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, verifications: verifications}
}

// RegisterRequest is the HTTP request body for rider registration.
type RegisterRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	ReferredBy string `json:"referred_by"`
}

// UserResponse is the HTTP response for rider profile data.
type UserResponse struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Phone                string `json:"phone"`
	Email                string `json:"email,omitempty"`
	PhotoURL             string `json:"photo_url,omitempty"`
	ReferralCode         string `json:"referral_code"`
	DefaultPaymentMethod string `json:"default_payment_method"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:                   u.ID,
		Name:                 u.Name,
		Phone:                u.Phone,
		Email:                u.Email,
		PhotoURL:             u.PhotoURL,
		ReferralCode:         u.ReferralCode,
		DefaultPaymentMethod: string(u.DefaultPaymentMethod),
	}
}

// Register handles POST /v1/users/register
func (h *ProfileHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.profiles.Register(c.Request.Context(), service.RegisterRequest{
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		ReferredBy: req.ReferredBy,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// GetProfile handles GET /v1/users/:id/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, err := h.profiles.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfileRequest is the HTTP request body for profile edits.
type UpdateProfileRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	PhotoURL             string `json:"photo_url"`
	DefaultPaymentMethod string `json:"default_payment_method"`
}

// UpdateProfile handles PATCH /v1/users/:id/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.profiles.UpdateProfile(c.Request.Context(), service.UpdateProfileRequest{
		UserID:               c.Param("id"),
		Name:                 req.Name,
		Email:                req.Email,
		PhotoURL:             req.PhotoURL,
		DefaultPaymentMethod: req.DefaultPaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// PhoneChangeRequest is the HTTP request body for starting a phone change.
type PhoneChangeRequest struct {
	NewPhone string `json:"new_phone"`
}

// StartPhoneChange handles POST /v1/users/:id/phone-change
func (h *ProfileHandler) StartPhoneChange(c *gin.Context) {
	var req PhoneChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.verifications.StartPhoneChange(c.Request.Context(), c.Param("id"), req.NewPhone); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "code_sent"})
}

// ResendPhoneChangeCodes handles POST /v1/users/:id/phone-change/resend
func (h *ProfileHandler) ResendPhoneChangeCodes(c *gin.Context) {
	if err := h.verifications.ResendCodes(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "code_sent"})
}

// VerifyPhoneChangeRequest is the HTTP request body for code submission.
type VerifyPhoneChangeRequest struct {
	Code string `json:"code"`
}

// VerifyPhoneChange handles POST /v1/users/:id/phone-change/verify
func (h *ProfileHandler) VerifyPhoneChange(c *gin.Context) {
	var req VerifyPhoneChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.verifications.ConfirmPhoneChange(c.Request.Context(), c.Param("id"), req.Code); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "verified"})
}

// AbandonPhoneChange handles DELETE /v1/users/:id/phone-change
func (h *ProfileHandler) AbandonPhoneChange(c *gin.Context) {
	h.verifications.Abandon(c.Param("id"))
	c.Status(http.StatusNoContent)
}
