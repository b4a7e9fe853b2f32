package handlers

import (
	"net/http"

	"tickethub/internal/middleware"
	"tickethub/internal/services"
)

// DashboardHandler serves the organizer dashboard endpoints. Every route in
// here sits behind the organizer-role middleware, so the user on the context
// is always present and always an organizer.
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Events handles GET /api/dashboard/events
func (h *DashboardHandler) Events(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	events, err := h.dashboardService.GetOrganizerEvents(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"events": events})
}

// Registrations handles GET /api/dashboard/registrations
func (h *DashboardHandler) Registrations(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	registrations, err := h.dashboardService.GetRecentRegistrations(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"registrations": registrations})
}

// Transactions handles GET /api/dashboard/transactions
func (h *DashboardHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	transactions, err := h.dashboardService.GetRecentTransactions(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"transactions": transactions})
}

// Revenue handles GET /api/dashboard/revenue
func (h *DashboardHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	stats, err := h.dashboardService.GetRevenueStats(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
