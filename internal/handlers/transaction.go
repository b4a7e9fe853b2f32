package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tickethub/internal/middleware"
	"tickethub/internal/models"
	"tickethub/internal/services"
)

// TransactionHandler handles ticket purchase and transaction lookups
type TransactionHandler struct {
	settlementService *services.SettlementService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(settlementService *services.SettlementService) *TransactionHandler {
	return &TransactionHandler{settlementService: settlementService}
}

// Create handles POST /api/transaction/create
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.PurchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.settlementService.Purchase(user.ID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"transaction":           result.Transaction,
		"updatedTicketQuantity": result.UpdatedTicketQuantity,
	})
}

// Get handles GET /api/transaction/{id}
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid transaction ID")
		return
	}

	txn, err := h.settlementService.GetTransaction(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if txn.UserID != user.ID && !user.IsOrganizer() {
		respondError(w, http.StatusNotFound, models.ErrTransactionNotFound.Error())
		return
	}

	respondJSON(w, http.StatusOK, txn)
}

// ListMine handles GET /api/transaction/mine
func (h *TransactionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	txns, err := h.settlementService.ListUserTransactions(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"transactions": txns})
}
