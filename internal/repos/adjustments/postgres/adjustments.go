package adjustments

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/keystore/internal/repos/adjustments"
	"github.com/google/uuid"
)

var _ adjustments.Adjustments = (*adjustmentsRepo)(nil)

type adjustmentsRepo struct{ db *sql.DB }

func New(db *sql.DB) *adjustmentsRepo {
	return &adjustmentsRepo{db: db}
}

func (r *adjustmentsRepo) Insert(tx *sql.Tx, a adjustments.Adjustment) error {
	_, err := tx.Exec(`
		INSERT INTO balance_adjustments (id, user_id, admin_id, old_balance, new_balance, delta, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.ID, a.UserID, a.AdminID, a.OldBalance, a.NewBalance, a.Delta, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert adjustment: %w", err)
	}

	return nil
}

func (r *adjustmentsRepo) SumForUser(tx *sql.Tx, userID uuid.UUID) (int64, error) {
	var sum int64

	err := tx.QueryRow(`
		SELECT COALESCE(SUM(delta), 0)::BIGINT
		FROM balance_adjustments
		WHERE user_id = $1
	`, userID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum adjustments: %w", err)
	}

	return sum, nil
}
