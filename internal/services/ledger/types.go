package ledger

import (
	"time"

	"github.com/fastprodman/keystore/internal/repos/transactions"
	"github.com/google/uuid"
)

// DepositOrder is a freshly created PENDING deposit together with the
// deadline shown to the depositor. PayBefore is informational only.
type DepositOrder struct {
	transactions.Transaction
	PayBefore time.Time `json:"payBefore"`
}

// Reconciliation compares a user's stored balance with the balance implied by
// their ledger history.
type Reconciliation struct {
	UserID            uuid.UUID `json:"userId"`
	Balance           int64     `json:"balance"`
	SucceededDeposits int64     `json:"succeededDeposits"`
	Purchases         int64     `json:"purchases"`
	Adjustments       int64     `json:"adjustments"`
	Expected          int64     `json:"expected"`
	Balanced          bool      `json:"balanced"`
}
