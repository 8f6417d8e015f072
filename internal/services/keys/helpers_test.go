package keys

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
)

func seedUser(t *testing.T, db *sql.DB, username string, balance int64) uuid.UUID {
	t.Helper()

	id := uuid.New()

	_, err := db.Exec(`
		INSERT INTO users (id, username, password_hash, balance, role)
		VALUES ($1, $2, 'x', $3, 'USER')
	`, id, username, balance)
	if err != nil {
		t.Fatalf("seed user %q: %v", username, err)
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

func countRows(t *testing.T, db *sql.DB, table string, userID uuid.UUID) int {
	t.Helper()

	var n int

	//nolint:gosec
	err := db.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		t.Fatalf("count %s: %v", table, err)
	}

	return n
}
