package users

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/keystore/internal/infra/pgutils"
	"github.com/fastprodman/keystore/internal/repos/users"
	"github.com/google/uuid"
)

func (r *usersRepo) IncreaseBalance(tx *sql.Tx, userID uuid.UUID, amount int64) error {
	res, err := tx.Exec(`
		UPDATE users
		SET balance = balance + $2
		WHERE id = $1
	`, userID, amount)
	if err != nil {
		if pgutils.IsNumericOutOfRange(err) {
			return users.ErrBalanceOverflow
		}

		return fmt.Errorf("increase balance: %w", err)
	}

	return expectOneRow(res)
}

func (r *usersRepo) DecreaseBalance(tx *sql.Tx, userID uuid.UUID, amount int64) error {
	res, err := tx.Exec(`
		UPDATE users
		SET balance = balance - $2
		WHERE id = $1
		  AND balance >= $2
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("decrease balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return users.ErrInsufficientFunds
	}

	return nil
}

func (r *usersRepo) SetBalance(tx *sql.Tx, userID uuid.UUID, balance int64) error {
	res, err := tx.Exec(`
		UPDATE users
		SET balance = $2
		WHERE id = $1
	`, userID, balance)
	if err != nil {
		if pgutils.IsCheckViolation(err, "users_balance_non_negative") {
			return users.ErrNegativeBalance
		}

		return fmt.Errorf("set balance: %w", err)
	}

	return expectOneRow(res)
}
