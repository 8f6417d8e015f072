package keys

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/keystore/internal/infra/pgutils"
	"github.com/fastprodman/keystore/internal/repos/keys"
	"github.com/google/uuid"
)

var _ keys.Keys = (*keysRepo)(nil)

type keysRepo struct{ db *sql.DB }

func New(db *sql.DB) *keysRepo {
	return &keysRepo{db: db}
}

func (r *keysRepo) InsertMany(tx *sql.Tx, batch []keys.Key) error {
	stmt, err := tx.Prepare(`
		INSERT INTO generated_keys (id, code, user_id, product_id, transaction_id, purchased_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert key: %w", err)
	}
	//nolint:errcheck
	defer stmt.Close()

	for _, k := range batch {
		_, err = stmt.Exec(k.ID, k.Code, k.UserID, k.ProductID, k.TransactionID, k.PurchasedAt, k.ExpiresAt)
		if err != nil {
			if pgutils.IsUniqueViolation(err, "generated_keys_code_key") {
				return keys.ErrDuplicateCode
			}

			return fmt.Errorf("insert key: %w", err)
		}
	}

	return nil
}

// ListByUser returns the user's keys, newest first.
func (r *keysRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]keys.Key, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, code, user_id, product_id, transaction_id, purchased_at, expires_at
		FROM generated_keys
		WHERE user_id = $1
		ORDER BY seq DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	out := make([]keys.Key, 0)

	for rows.Next() {
		var k keys.Key

		err = rows.Scan(&k.ID, &k.Code, &k.UserID, &k.ProductID, &k.TransactionID, &k.PurchasedAt, &k.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}

		out = append(out, k)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}

	return out, nil
}
