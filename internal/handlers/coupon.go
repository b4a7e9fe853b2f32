package handlers

import (
	"net/http"

	"tickethub/internal/middleware"
	"tickethub/internal/services"
)

// CouponHandler handles coupon listings
type CouponHandler struct {
	couponService *services.CouponService
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(couponService *services.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// ListMine handles GET /api/coupon/mine
func (h *CouponHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	coupons, err := h.couponService.ListForUser(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"coupons": coupons})
}
