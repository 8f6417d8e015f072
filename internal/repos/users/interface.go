package users

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fastprodman/keystore/internal/apperr"
	"github.com/google/uuid"
)

var (
	ErrUserNotFound      = fmt.Errorf("user %w", apperr.ErrNotFound)
	ErrDuplicateUsername = apperr.ErrDuplicateUsername
	ErrInsufficientFunds = apperr.ErrInsufficientBalance
	ErrNegativeBalance   = fmt.Errorf("negative balance: %w", apperr.ErrInvalidAmount)
	ErrBalanceOverflow   = fmt.Errorf("balance overflow: %w", apperr.ErrInvalidAmount)
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Balance      int64     `json:"balance"`
	Role         Role      `json:"role"`
	Locked       bool      `json:"locked"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

type Users interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, userID uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context) ([]User, error)
	LockAndGet(tx *sql.Tx, userID uuid.UUID) (User, error)
	IncreaseBalance(tx *sql.Tx, userID uuid.UUID, amount int64) error
	DecreaseBalance(tx *sql.Tx, userID uuid.UUID, amount int64) error
	SetBalance(tx *sql.Tx, userID uuid.UUID, balance int64) error
	SetLocked(tx *sql.Tx, userID uuid.UUID, locked bool) error
	Delete(tx *sql.Tx, userID uuid.UUID) error
}
