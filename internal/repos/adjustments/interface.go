package adjustments

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Adjustment records one administrator balance override.
type Adjustment struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	AdminID    uuid.UUID `json:"adminId"`
	OldBalance int64     `json:"oldBalance"`
	NewBalance int64     `json:"newBalance"`
	Delta      int64     `json:"delta"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Adjustments interface {
	Insert(tx *sql.Tx, a Adjustment) error
	SumForUser(tx *sql.Tx, userID uuid.UUID) (int64, error)
}
