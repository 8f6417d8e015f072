package ledger

import (
	"database/sql"
	"testing"
	"time"

	"github.com/fastprodman/keystore/internal/config"
	"github.com/google/uuid"
)

var testLedgerConfig = config.LedgerConfig{
	MinDepositAmount: 10_000,
	MaxDepositAmount: 1_000_000_000,
	PaymentWindow:    20 * time.Minute,
}

func seedUser(t *testing.T, db *sql.DB, username string, balance int64, locked bool) uuid.UUID {
	t.Helper()

	id := uuid.New()

	_, err := db.Exec(`
		INSERT INTO users (id, username, password_hash, balance, role, locked)
		VALUES ($1, $2, 'x', $3, 'USER', $4)
	`, id, username, balance, locked)
	if err != nil {
		t.Fatalf("seed user %q: %v", username, err)
	}

	return id
}

func seedBank(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()

	id := uuid.New()

	_, err := db.Exec(`
		INSERT INTO banks (id, bank_name, bank_code, account_number, account_name, logo)
		VALUES ($1, 'MBBANK', '970422', '0123456789', 'SHOP OWNER', 'mb.png')
	`, id)
	if err != nil {
		t.Fatalf("seed bank: %v", err)
	}

	return id
}

func balanceOf(t *testing.T, db *sql.DB, userID uuid.UUID) int64 {
	t.Helper()

	var balance int64

	err := db.QueryRow(`SELECT balance FROM users WHERE id = $1`, userID).Scan(&balance)
	if err != nil {
		t.Fatalf("read balance: %v", err)
	}

	return balance
}
