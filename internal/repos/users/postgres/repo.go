package users

import (
	"database/sql"

	"github.com/fastprodman/keystore/internal/repos/users"
)

var _ users.Users = (*usersRepo)(nil)

const userColumns = `id, username, password_hash, balance, role, locked, created_at`

type usersRepo struct{ db *sql.DB }

func New(db *sql.DB) *usersRepo {
	return &usersRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (users.User, error) {
	var u users.User

	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Balance, &u.Role, &u.Locked, &u.CreatedAt)

	return u, err
}
