package keys

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
)

func countByTransaction(t *testing.T, db *sql.DB, txID uuid.UUID) int {
	t.Helper()

	var n int

	err := db.QueryRow(`SELECT COUNT(*) FROM generated_keys WHERE transaction_id = $1`, txID).Scan(&n)
	if err != nil {
		t.Fatalf("count keys: %v", err)
	}

	return n
}
