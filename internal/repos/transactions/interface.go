package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fastprodman/keystore/internal/apperr"
	"github.com/google/uuid"
)

var (
	ErrTransactionNotFound = fmt.Errorf("transaction %w", apperr.ErrNotFound)
	ErrDuplicateReference  = errors.New("duplicate reference code")
)

type Kind string

const (
	KindDeposit Kind = "DEPOSIT"
	KindBuyKey  Kind = "BUY_KEY"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Transaction is an immutable record of a monetary event. Only Status may
// change after insert.
type Transaction struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Kind        Kind      `json:"kind"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	Reference   string    `json:"reference,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	Metadata    Metadata  `json:"metadata"`
}

// Totals are the per-user sums the ledger invariant is checked against.
type Totals struct {
	SucceededDeposits int64
	Purchases         int64
}

type Transactions interface {
	Insert(tx *sql.Tx, t Transaction) error
	LockByID(tx *sql.Tx, txID uuid.UUID) (Transaction, error)
	SetStatus(tx *sql.Tx, txID uuid.UUID, status Status) error
	Get(ctx context.Context, txID uuid.UUID) (Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Transaction, error)
	ListAll(ctx context.Context) ([]Transaction, error)
	TotalsForUser(tx *sql.Tx, userID uuid.UUID) (Totals, error)
}
