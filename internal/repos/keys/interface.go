package keys

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrDuplicateCode = errors.New("duplicate key code")

// Key is an access key issued by a purchase. Immutable once inserted.
type Key struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	UserID        uuid.UUID `json:"userId"`
	ProductID     string    `json:"productId"`
	TransactionID uuid.UUID `json:"transactionId"`
	PurchasedAt   time.Time `json:"purchasedAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

type Keys interface {
	InsertMany(tx *sql.Tx, keys []Key) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Key, error)
}
