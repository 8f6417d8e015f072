package users

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/keystore/internal/repos/users"
	"github.com/google/uuid"
)

// LockAndGet reads the user row with FOR UPDATE, serialising every other
// writer of the same user until tx ends.
func (r *usersRepo) LockAndGet(tx *sql.Tx, userID uuid.UUID) (users.User, error) {
	u, err := scanUser(tx.QueryRow(`
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrUserNotFound
		}

		return users.User{}, fmt.Errorf("lock/get user: %w", err)
	}

	return u, nil
}
