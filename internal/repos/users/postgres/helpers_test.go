package users

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
