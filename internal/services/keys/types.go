package keys

import (
	"github.com/fastprodman/keystore/internal/repos/keys"
	"github.com/fastprodman/keystore/internal/repos/transactions"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseRequest asks for Quantity keys of ProductID at UnitPrice each,
// discounted by DiscountRate (0 <= rate < 1).
type PurchaseRequest struct {
	UserID       uuid.UUID
	ProductID    string
	Quantity     int
	UnitPrice    int64
	DiscountRate decimal.Decimal
}

// Purchase is the outcome of a successful BuyKeys call.
type Purchase struct {
	Transaction transactions.Transaction `json:"transaction"`
	Keys        []keys.Key               `json:"keys"`
	Total       int64                    `json:"total"`
	Balance     int64                    `json:"balance"`
}
