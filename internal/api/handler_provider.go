package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/fastprodman/keystore/internal/apperr"
	repobanks "github.com/fastprodman/keystore/internal/repos/banks"
	repokeys "github.com/fastprodman/keystore/internal/repos/keys"
	"github.com/fastprodman/keystore/internal/repos/transactions"
	"github.com/fastprodman/keystore/internal/repos/users"
	"github.com/fastprodman/keystore/internal/services/banks"
	"github.com/fastprodman/keystore/internal/services/identity"
	"github.com/fastprodman/keystore/internal/services/keys"
	"github.com/fastprodman/keystore/internal/services/ledger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

type IdentityService interface {
	Register(ctx context.Context, username, password string) (users.User, error)
	Login(ctx context.Context, username, password string) (identity.Session, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (users.User, error)
	Refresh(ctx context.Context, token string) (identity.Session, error)
}

type BankService interface {
	List(ctx context.Context) ([]repobanks.Bank, error)
	Add(ctx context.Context, in banks.NewBank) (repobanks.Bank, error)
	Remove(ctx context.Context, bankID uuid.UUID) error
}

type LedgerService interface {
	CreateDepositOrder(ctx context.Context, userID uuid.UUID, amount int64, bankID uuid.UUID) (ledger.DepositOrder, error)
	ApproveDeposit(ctx context.Context, txID uuid.UUID) (transactions.Transaction, error)
	Get(ctx context.Context, txID uuid.UUID) (transactions.Transaction, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]transactions.Transaction, error)
	ListAll(ctx context.Context) ([]transactions.Transaction, error)
	Reconcile(ctx context.Context, userID uuid.UUID) (ledger.Reconciliation, error)
}

type KeyService interface {
	BuyKeys(ctx context.Context, req keys.PurchaseRequest) (keys.Purchase, error)
	ListKeys(ctx context.Context, userID uuid.UUID) ([]repokeys.Key, error)
}

type AdminService interface {
	ListUsers(ctx context.Context) ([]users.User, error)
	SetUserBalance(ctx context.Context, adminID, userID uuid.UUID, newBalance int64) (users.User, error)
	ToggleLock(ctx context.Context, userID uuid.UUID) (users.User, error)
	DeleteUser(ctx context.Context, adminID, userID uuid.UUID) error
}

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Identity IdentityService
	Banks    BankService
	Ledger   LedgerService
	Keys     KeyService
	Admin    AdminService
}

// HandlerProvider exposes the services as HTTP handlers.
type HandlerProvider struct {
	svc Services
}

func NewHandler(svc Services) *HandlerProvider {
	return &HandlerProvider{svc: svc}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

var errorStatuses = []struct {
	kind   error
	status int
}{
	{apperr.ErrInvalidInput, http.StatusBadRequest},
	{apperr.ErrInvalidAmount, http.StatusBadRequest},
	{apperr.ErrInvalidBank, http.StatusBadRequest},
	{apperr.ErrInvalidCredentials, http.StatusUnauthorized},
	{apperr.ErrUnauthorized, http.StatusUnauthorized},
	{apperr.ErrUserLocked, http.StatusForbidden},
	{apperr.ErrForbidden, http.StatusForbidden},
	{apperr.ErrNotFound, http.StatusNotFound},
	{apperr.ErrDuplicateUsername, http.StatusConflict},
	{apperr.ErrInsufficientBalance, http.StatusConflict},
}

// writeServiceError maps an error kind to its status. Only the kind's text is
// sent to the client; the full chain goes to the log.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.kind) {
			writeError(w, e.status, e.kind.Error())
			return
		}
	}

	slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

// decodeJSON reads a single JSON object from the body, rejecting unknown
// fields and bodies over maxBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", apperr.ErrInvalidInput)
		}

		return fmt.Errorf("%w: invalid JSON", apperr.ErrInvalidInput)
	}

	return nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: missing %s", apperr.ErrInvalidInput, name)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", apperr.ErrInvalidInput, name)
	}

	return id, nil
}

// --- Public ---

func (h *HandlerProvider) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
