package api

import (
	"net/http"

	"github.com/fastprodman/keystore/internal/services/banks"
)

type balanceRequest struct {
	Balance int64 `json:"balance"`
}

// AdminListTransactionsHandler handles GET /admin/transactions
func (h *HandlerProvider) AdminListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Ledger.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// ApproveDepositHandler handles POST /admin/deposits/{txId}/approve
func (h *HandlerProvider) ApproveDepositHandler(w http.ResponseWriter, r *http.Request) {
	txID, err := uuidParam(r, "txId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	t, err := h.svc.Ledger.ApproveDeposit(r.Context(), txID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, t)
}

// AdminListUsersHandler handles GET /admin/users
func (h *HandlerProvider) AdminListUsersHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Admin.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// SetBalanceHandler handles PUT /admin/users/{userId}/balance
func (h *HandlerProvider) SetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := uuidParam(r, "userId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req balanceRequest

	err = decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	u, err := h.svc.Admin.SetUserBalance(r.Context(), userFrom(r.Context()).ID, userID, req.Balance)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// ToggleLockHandler handles POST /admin/users/{userId}/lock
func (h *HandlerProvider) ToggleLockHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := uuidParam(r, "userId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	u, err := h.svc.Admin.ToggleLock(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// DeleteUserHandler handles DELETE /admin/users/{userId}
func (h *HandlerProvider) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := uuidParam(r, "userId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	err = h.svc.Admin.DeleteUser(r.Context(), userFrom(r.Context()).ID, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReconcileHandler handles GET /admin/users/{userId}/reconcile
func (h *HandlerProvider) ReconcileHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := uuidParam(r, "userId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	rec, err := h.svc.Ledger.Reconcile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// AddBankHandler handles POST /admin/banks
func (h *HandlerProvider) AddBankHandler(w http.ResponseWriter, r *http.Request) {
	var req banks.NewBank

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	b, err := h.svc.Banks.Add(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, b)
}

// RemoveBankHandler handles DELETE /admin/banks/{bankId}
func (h *HandlerProvider) RemoveBankHandler(w http.ResponseWriter, r *http.Request) {
	bankID, err := uuidParam(r, "bankId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	err = h.svc.Banks.Remove(r.Context(), bankID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BankDirectoryHandler handles GET /admin/banks/directory
func (h *HandlerProvider) BankDirectoryHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, banks.Directory())
}
