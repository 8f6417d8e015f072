package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/keystore/internal/infra/pgutils"
	"github.com/fastprodman/keystore/internal/repos/transactions"
	"github.com/google/uuid"
)

var _ transactions.Transactions = (*transactionsRepo)(nil)

const txColumns = `id, user_id, kind, amount, description, reference, status, metadata, created_at`

type transactionsRepo struct{ db *sql.DB }

func New(db *sql.DB) *transactionsRepo {
	return &transactionsRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (transactions.Transaction, error) {
	var (
		t   transactions.Transaction
		ref sql.NullString
		raw []byte
	)

	err := row.Scan(&t.ID, &t.UserID, &t.Kind, &t.Amount, &t.Description, &ref, &t.Status, &raw, &t.CreatedAt)
	if err != nil {
		return transactions.Transaction{}, err
	}

	t.Reference = ref.String

	t.Metadata, err = transactions.DecodeMetadata(t.Kind, raw)
	if err != nil {
		return transactions.Transaction{}, fmt.Errorf("transaction %s: %w", t.ID, err)
	}

	return t, nil
}

func (r *transactionsRepo) Insert(tx *sql.Tx, t transactions.Transaction) error {
	raw, err := transactions.EncodeMetadata(t.Kind, t.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	ref := sql.NullString{String: t.Reference, Valid: t.Reference != ""}

	_, err = tx.Exec(`
		INSERT INTO transactions (id, user_id, kind, amount, description, reference, status, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, t.ID, t.UserID, t.Kind, t.Amount, t.Description, ref, t.Status, string(raw), t.CreatedAt)
	if err != nil {
		if pgutils.IsUniqueViolation(err, "transactions_reference_key") {
			return transactions.ErrDuplicateReference
		}

		return fmt.Errorf("insert transaction: %w", err)
	}

	return nil
}

// LockByID reads the transaction with FOR UPDATE so concurrent approvals of
// the same order run one after another.
func (r *transactionsRepo) LockByID(tx *sql.Tx, txID uuid.UUID) (transactions.Transaction, error) {
	t, err := scanTransaction(tx.QueryRow(`
		SELECT `+txColumns+`
		FROM transactions
		WHERE id = $1
		FOR UPDATE
	`, txID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return transactions.Transaction{}, transactions.ErrTransactionNotFound
		}

		return transactions.Transaction{}, fmt.Errorf("lock/get transaction: %w", err)
	}

	return t, nil
}

func (r *transactionsRepo) SetStatus(tx *sql.Tx, txID uuid.UUID, status transactions.Status) error {
	res, err := tx.Exec(`
		UPDATE transactions
		SET status = $2
		WHERE id = $1
	`, txID, status)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return transactions.ErrTransactionNotFound
	}

	return nil
}

func (r *transactionsRepo) Get(ctx context.Context, txID uuid.UUID) (transactions.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx, `
		SELECT `+txColumns+`
		FROM transactions
		WHERE id = $1
	`, txID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return transactions.Transaction{}, transactions.ErrTransactionNotFound
		}

		return transactions.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}

	return t, nil
}

// ListByUser returns the user's transactions, newest first.
func (r *transactionsRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]transactions.Transaction, error) {
	return r.list(ctx, `
		SELECT `+txColumns+`
		FROM transactions
		WHERE user_id = $1
		ORDER BY seq DESC
	`, userID)
}

// ListAll returns every transaction, newest first.
func (r *transactionsRepo) ListAll(ctx context.Context) ([]transactions.Transaction, error) {
	return r.list(ctx, `
		SELECT `+txColumns+`
		FROM transactions
		ORDER BY seq DESC
	`)
}

func (r *transactionsRepo) list(ctx context.Context, query string, args ...any) ([]transactions.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := make([]transactions.Transaction, 0)

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		out = append(out, t)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return out, nil
}

func (r *transactionsRepo) TotalsForUser(tx *sql.Tx, userID uuid.UUID) (transactions.Totals, error) {
	var totals transactions.Totals

	err := tx.QueryRow(`
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE kind = 'DEPOSIT' AND status = 'SUCCESS'), 0)::BIGINT,
			COALESCE(SUM(amount) FILTER (WHERE kind = 'BUY_KEY' AND status = 'SUCCESS'), 0)::BIGINT
		FROM transactions
		WHERE user_id = $1
	`, userID).Scan(&totals.SucceededDeposits, &totals.Purchases)
	if err != nil {
		return transactions.Totals{}, fmt.Errorf("sum transactions: %w", err)
	}

	return totals, nil
}
