package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/fastprodman/keystore/internal/apperr"
	"github.com/fastprodman/keystore/internal/infra/pgutils"
	"github.com/fastprodman/keystore/internal/metrics"
	"github.com/fastprodman/keystore/internal/repos/adjustments"
	pgadjustments "github.com/fastprodman/keystore/internal/repos/adjustments/postgres"
	"github.com/fastprodman/keystore/internal/repos/users"
	pgusers "github.com/fastprodman/keystore/internal/repos/users/postgres"
	"github.com/google/uuid"
)

type AdminService struct {
	db          *sql.DB
	users       users.Users
	adjustments adjustments.Adjustments
	now         func() time.Time
}

func New(dbx *sql.DB) *AdminService {
	return &AdminService{
		db:          dbx,
		users:       pgusers.New(dbx),
		adjustments: pgadjustments.New(dbx),
		now:         time.Now,
	}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]users.User, error) {
	list, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return list, nil
}

// SetUserBalance overrides the user's balance and records the difference as
// an adjustment so the ledger still reconciles.
func (s *AdminService) SetUserBalance(ctx context.Context, adminID, userID uuid.UUID, newBalance int64) (users.User, error) {
	if newBalance < 0 {
		return users.User{}, fmt.Errorf("%w: balance cannot be negative", apperr.ErrInvalidAmount)
	}

	var u users.User

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error

		u, err = s.users.LockAndGet(tx, userID)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		err = s.users.SetBalance(tx, userID, newBalance)
		if err != nil {
			return fmt.Errorf("set balance: %w", err)
		}

		err = s.adjustments.Insert(tx, adjustments.Adjustment{
			ID:         uuid.New(),
			UserID:     userID,
			AdminID:    adminID,
			OldBalance: u.Balance,
			NewBalance: newBalance,
			Delta:      newBalance - u.Balance,
			CreatedAt:  s.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("record adjustment: %w", err)
		}

		return nil
	})
	if err != nil {
		return users.User{}, fmt.Errorf("set user balance: %w", err)
	}

	metrics.BalanceOverrides.Inc()

	slog.Info("balance overridden",
		"admin_id", adminID,
		"user_id", userID,
		"old_balance", u.Balance,
		"new_balance", newBalance,
	)

	u.Balance = newBalance

	return u, nil
}

// ToggleLock flips the user's locked flag and returns the updated user.
func (s *AdminService) ToggleLock(ctx context.Context, userID uuid.UUID) (users.User, error) {
	var u users.User

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error

		u, err = s.users.LockAndGet(tx, userID)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		u.Locked = !u.Locked

		err = s.users.SetLocked(tx, userID, u.Locked)
		if err != nil {
			return fmt.Errorf("set locked: %w", err)
		}

		return nil
	})
	if err != nil {
		return users.User{}, fmt.Errorf("toggle lock: %w", err)
	}

	slog.Info("user lock toggled", "user_id", userID, "locked", u.Locked)

	return u, nil
}

// DeleteUser removes the account and its sessions. Transactions, keys and
// adjustments of the user stay for audit.
func (s *AdminService) DeleteUser(ctx context.Context, adminID, userID uuid.UUID) error {
	if adminID == userID {
		return fmt.Errorf("%w: administrators cannot delete their own account", apperr.ErrInvalidInput)
	}

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := s.users.LockAndGet(tx, userID)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		err = s.users.Delete(tx, userID)
		if err != nil {
			return fmt.Errorf("delete: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	slog.Info("user deleted", "admin_id", adminID, "user_id", userID)

	return nil
}
