package api

import (
	"fmt"
	"net/http"

	"github.com/fastprodman/keystore/internal/apperr"
	"github.com/google/uuid"
)

type depositRequest struct {
	Amount int64     `json:"amount"`
	BankID uuid.UUID `json:"bankId"`
}

// ListBanksHandler handles GET /banks
func (h *HandlerProvider) ListBanksHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Banks.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// CreateDepositHandler handles POST /deposits
func (h *HandlerProvider) CreateDepositHandler(w http.ResponseWriter, r *http.Request) {
	var req depositRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	order, err := h.svc.Ledger.CreateDepositOrder(r.Context(), userFrom(r.Context()).ID, req.Amount, req.BankID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// ListTransactionsHandler handles GET /transactions
func (h *HandlerProvider) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Ledger.ListForUser(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// GetTransactionHandler handles GET /transactions/{txId}. Other users'
// transactions are reported as not found.
func (h *HandlerProvider) GetTransactionHandler(w http.ResponseWriter, r *http.Request) {
	txID, err := uuidParam(r, "txId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	t, err := h.svc.Ledger.Get(r.Context(), txID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if t.UserID != userFrom(r.Context()).ID {
		writeServiceError(w, r, fmt.Errorf("transaction %w", apperr.ErrNotFound))
		return
	}

	writeJSON(w, http.StatusOK, t)
}
