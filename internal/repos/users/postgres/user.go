package users

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/keystore/internal/repos/users"
	"github.com/google/uuid"
)

func (r *usersRepo) SetLocked(tx *sql.Tx, userID uuid.UUID, locked bool) error {
	res, err := tx.Exec(`
		UPDATE users
		SET locked = $2
		WHERE id = $1
	`, userID, locked)
	if err != nil {
		return fmt.Errorf("set locked: %w", err)
	}

	return expectOneRow(res)
}

// Delete removes the user row only. Transactions, keys and adjustments that
// reference the user are kept.
func (r *usersRepo) Delete(tx *sql.Tx, userID uuid.UUID) error {
	res, err := tx.Exec(`DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return users.ErrUserNotFound
	}

	return nil
}
