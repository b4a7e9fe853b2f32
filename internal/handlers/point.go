package handlers

import (
	"net/http"

	"tickethub/internal/middleware"
	"tickethub/internal/services"
)

// PointHandler handles point redemption and balance lookups
type PointHandler struct {
	pointsService *services.PointsService
}

// NewPointHandler creates a new point handler
func NewPointHandler(pointsService *services.PointsService) *PointHandler {
	return &PointHandler{pointsService: pointsService}
}

// RedeemRequest is the body of a point redemption call
type RedeemRequest struct {
	TicketPrice int `json:"ticketPrice"`
}

// Redeem handles POST /api/point/redeem
func (h *PointHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req RedeemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.pointsService.RedeemPoints(user.ID, req.TicketPrice)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"originalPrice":  result.OriginalPrice,
		"pointsRedeemed": result.PointsRedeemed,
		"finalPrice":     result.FinalPrice,
		"message":        "points redeemed",
	})
}

// Balance handles GET /api/point/balance
func (h *PointHandler) Balance(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	balance, entries, err := h.pointsService.GetBalance(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"balance": balance,
		"entries": entries,
	})
}
