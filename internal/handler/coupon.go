package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiye/internal/service"
)

// CouponHandler handles HTTP requests for coupons and referral codes.
type CouponHandler struct {
	coupons *service.CouponService
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(coupons *service.CouponService) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

// Check handles GET /v1/coupons/:code
func (h *CouponHandler) Check(c *gin.Context) {
	coupon, err := h.coupons.Lookup(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":        coupon.Code,
		"percent_off": coupon.PercentOff,
		"expires_at":  coupon.ExpiresAt,
	})
}

// ValidateReferralRequest is the HTTP request body for a referral check.
type ValidateReferralRequest struct {
	Code   string `json:"code"`
	UserID string `json:"user_id"`
}

// ValidateReferral handles POST /v1/referrals/validate
func (h *CouponHandler) ValidateReferral(c *gin.Context) {
	var req ValidateReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	owner, err := h.coupons.ValidateReferral(c.Request.Context(), req.Code, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":      true,
		"owner_name": owner.Name,
	})
}
