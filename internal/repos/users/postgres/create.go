package users

import (
	"context"
	"fmt"

	"github.com/fastprodman/keystore/internal/infra/pgutils"
	"github.com/fastprodman/keystore/internal/repos/users"
)

func (r *usersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, balance, role, locked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, u.ID, u.Username, u.PasswordHash, u.Balance, u.Role, u.Locked, u.CreatedAt)
	if err != nil {
		if pgutils.IsUniqueViolation(err, "users_username_key") {
			return users.ErrDuplicateUsername
		}

		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}
