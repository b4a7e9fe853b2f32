package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"tickethub/internal/models"
)

// respondJSON writes a JSON response with the given status
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondError writes a JSON error body with the given status
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a service error onto the right status code:
// validation failures are 400, missing entities 404, authorization failures
// 401/403-equivalent, inventory exhaustion 409, everything else 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrEventNotFound),
		errors.Is(err, models.ErrTicketNotFound),
		errors.Is(err, models.ErrCouponNotFound),
		errors.Is(err, models.ErrTransactionNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrInsufficientInventory):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrDuplicateEntry):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeJSON decodes a request body, rejecting unknown payloads politely
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}
