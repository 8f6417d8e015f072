package banks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/keystore/internal/repos/banks"
	"github.com/google/uuid"
)

var _ banks.Banks = (*banksRepo)(nil)

const bankColumns = `id, bank_name, bank_code, account_number, account_name, logo, created_at`

type banksRepo struct{ db *sql.DB }

func New(db *sql.DB) *banksRepo {
	return &banksRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBank(row rowScanner) (banks.Bank, error) {
	var b banks.Bank

	err := row.Scan(&b.ID, &b.BankName, &b.BankCode, &b.AccountNumber, &b.AccountName, &b.Logo, &b.CreatedAt)

	return b, err
}

// List returns banks in registration order.
func (r *banksRepo) List(ctx context.Context) ([]banks.Bank, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+bankColumns+`
		FROM banks
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}
	defer rows.Close()

	out := make([]banks.Bank, 0)

	for rows.Next() {
		b, err := scanBank(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bank: %w", err)
		}

		out = append(out, b)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate banks: %w", err)
	}

	return out, nil
}

func (r *banksRepo) Get(ctx context.Context, bankID uuid.UUID) (banks.Bank, error) {
	b, err := scanBank(r.db.QueryRowContext(ctx, `
		SELECT `+bankColumns+`
		FROM banks
		WHERE id = $1
	`, bankID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return banks.Bank{}, banks.ErrBankNotFound
		}

		return banks.Bank{}, fmt.Errorf("get bank: %w", err)
	}

	return b, nil
}

func (r *banksRepo) Insert(ctx context.Context, b banks.Bank) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO banks (id, bank_name, bank_code, account_number, account_name, logo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, b.ID, b.BankName, b.BankCode, b.AccountNumber, b.AccountName, b.Logo, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert bank: %w", err)
	}

	return nil
}

func (r *banksRepo) Delete(ctx context.Context, bankID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM banks WHERE id = $1`, bankID)
	if err != nil {
		return fmt.Errorf("delete bank: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return banks.ErrBankNotFound
	}

	return nil
}
