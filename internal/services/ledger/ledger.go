package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fastprodman/keystore/internal/apperr"
	"github.com/fastprodman/keystore/internal/config"
	"github.com/fastprodman/keystore/internal/infra/pgutils"
	"github.com/fastprodman/keystore/internal/metrics"
	"github.com/fastprodman/keystore/internal/repos/adjustments"
	pgadjustments "github.com/fastprodman/keystore/internal/repos/adjustments/postgres"
	"github.com/fastprodman/keystore/internal/repos/banks"
	pgbanks "github.com/fastprodman/keystore/internal/repos/banks/postgres"
	"github.com/fastprodman/keystore/internal/repos/transactions"
	pgtransactions "github.com/fastprodman/keystore/internal/repos/transactions/postgres"
	"github.com/fastprodman/keystore/internal/repos/users"
	pgusers "github.com/fastprodman/keystore/internal/repos/users/postgres"
	"github.com/google/uuid"
)

const maxReferenceAttempts = 5

type LedgerService struct {
	db            *sql.DB
	users         users.Users
	banks         banks.Banks
	txns          transactions.Transactions
	adjustments   adjustments.Adjustments
	minDeposit    int64
	maxDeposit    int64
	paymentWindow time.Duration
	now           func() time.Time
	newReference  func() (string, error)
}

func New(dbx *sql.DB, cfg config.LedgerConfig) *LedgerService {
	return &LedgerService{
		db:            dbx,
		users:         pgusers.New(dbx),
		banks:         pgbanks.New(dbx),
		txns:          pgtransactions.New(dbx),
		adjustments:   pgadjustments.New(dbx),
		minDeposit:    cfg.MinDepositAmount,
		maxDeposit:    cfg.MaxDepositAmount,
		paymentWindow: cfg.PaymentWindow,
		now:           time.Now,
		newReference:  newReference,
	}
}

// CreateDepositOrder records a PENDING deposit the user promises to pay by
// bank transfer, quoting the returned reference in the transfer note.
func (s *LedgerService) CreateDepositOrder(ctx context.Context, userID uuid.UUID, amount int64, bankID uuid.UUID) (DepositOrder, error) {
	switch {
	case amount <= 0 || amount < s.minDeposit:
		return DepositOrder{}, fmt.Errorf("%w: minimum deposit is %d", apperr.ErrInvalidAmount, s.minDeposit)
	case amount > s.maxDeposit:
		return DepositOrder{}, fmt.Errorf("%w: maximum deposit is %d", apperr.ErrInvalidAmount, s.maxDeposit)
	}

	bank, err := s.banks.Get(ctx, bankID)
	if err != nil {
		if errors.Is(err, banks.ErrBankNotFound) {
			return DepositOrder{}, apperr.ErrInvalidBank
		}

		return DepositOrder{}, fmt.Errorf("get bank: %w", err)
	}

	order := transactions.Transaction{
		UserID: userID,
		Kind:   transactions.KindDeposit,
		Amount: amount,
		Status: transactions.StatusPending,
		Metadata: transactions.DepositMetadata{
			BankName:      bank.BankName,
			BankCode:      bank.BankCode,
			AccountNumber: bank.AccountNumber,
			AccountName:   bank.AccountName,
		},
	}

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		u, err := s.users.LockAndGet(tx, userID)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		if u.Locked {
			return apperr.ErrUserLocked
		}

		for attempt := 1; ; attempt++ {
			order.ID = uuid.New()
			order.CreatedAt = s.now().UTC()

			order.Reference, err = s.newReference()
			if err != nil {
				return fmt.Errorf("generate reference: %w", err)
			}

			order.Description = order.Reference

			err = s.insertOrder(ctx, tx, order)
			if err == nil {
				return nil
			}

			if !errors.Is(err, transactions.ErrDuplicateReference) || attempt == maxReferenceAttempts {
				return fmt.Errorf("insert deposit: %w", err)
			}
		}
	})
	if err != nil {
		return DepositOrder{}, fmt.Errorf("create deposit order: %w", err)
	}

	metrics.DepositOrdersCreated.Inc()

	slog.Info("deposit order created",
		"tx_id", order.ID,
		"user_id", userID,
		"amount", amount,
		"reference", order.Reference,
		"bank", bank.BankName,
	)

	return DepositOrder{Transaction: order, PayBefore: order.CreatedAt.Add(s.paymentWindow)}, nil
}

// insertOrder runs the insert under a savepoint so a reference collision does
// not abort the surrounding transaction.
func (s *LedgerService) insertOrder(ctx context.Context, tx *sql.Tx, order transactions.Transaction) error {
	_, err := tx.ExecContext(ctx, `SAVEPOINT deposit_insert`)
	if err != nil {
		return fmt.Errorf("savepoint: %w", err)
	}

	err = s.txns.Insert(tx, order)
	if err != nil {
		_, rbErr := tx.ExecContext(ctx, `ROLLBACK TO SAVEPOINT deposit_insert`)
		if rbErr != nil {
			return fmt.Errorf("rollback to savepoint: %v (insert err: %w)", rbErr, err)
		}

		return err
	}

	return nil
}

// ApproveDeposit credits a PENDING deposit to its owner and marks it SUCCESS.
// Approving an order that is no longer PENDING returns it unchanged.
func (s *LedgerService) ApproveDeposit(ctx context.Context, txID uuid.UUID) (transactions.Transaction, error) {
	var (
		order    transactions.Transaction
		credited bool
	)

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error

		order, err = s.txns.LockByID(tx, txID)
		if err != nil {
			return fmt.Errorf("lock transaction: %w", err)
		}

		if order.Kind != transactions.KindDeposit {
			return fmt.Errorf("%w: transaction %s is not a deposit", apperr.ErrInvalidInput, txID)
		}

		if order.Status != transactions.StatusPending {
			return nil
		}

		_, err = s.users.LockAndGet(tx, order.UserID)
		if err != nil {
			return fmt.Errorf("lock owner: %w", err)
		}

		err = s.users.IncreaseBalance(tx, order.UserID, order.Amount)
		if err != nil {
			return fmt.Errorf("credit owner: %w", err)
		}

		err = s.txns.SetStatus(tx, order.ID, transactions.StatusSuccess)
		if err != nil {
			return fmt.Errorf("set status: %w", err)
		}

		order.Status = transactions.StatusSuccess
		credited = true

		return nil
	})
	if err != nil {
		return transactions.Transaction{}, fmt.Errorf("approve deposit: %w", err)
	}

	if !credited {
		slog.Info("deposit already settled", "tx_id", order.ID, "status", order.Status)
		return order, nil
	}

	metrics.DepositsApproved.Inc()
	metrics.DepositedAmount.Add(float64(order.Amount))

	slog.Info("deposit approved", "tx_id", order.ID, "user_id", order.UserID, "amount", order.Amount)

	return order, nil
}

func (s *LedgerService) Get(ctx context.Context, txID uuid.UUID) (transactions.Transaction, error) {
	t, err := s.txns.Get(ctx, txID)
	if err != nil {
		return transactions.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}

	return t, nil
}

// ListForUser returns the user's transactions, newest first.
func (s *LedgerService) ListForUser(ctx context.Context, userID uuid.UUID) ([]transactions.Transaction, error) {
	list, err := s.txns.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user transactions: %w", err)
	}

	return list, nil
}

// ListAll returns every transaction, newest first.
func (s *LedgerService) ListAll(ctx context.Context) ([]transactions.Transaction, error) {
	list, err := s.txns.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	return list, nil
}

// Reconcile checks balance == deposits - purchases + adjustments for one
// user. The user row is locked so the sums and the balance agree in time.
func (s *LedgerService) Reconcile(ctx context.Context, userID uuid.UUID) (Reconciliation, error) {
	var rec Reconciliation

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		u, err := s.users.LockAndGet(tx, userID)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		totals, err := s.txns.TotalsForUser(tx, userID)
		if err != nil {
			return fmt.Errorf("transaction totals: %w", err)
		}

		adjusted, err := s.adjustments.SumForUser(tx, userID)
		if err != nil {
			return fmt.Errorf("adjustment total: %w", err)
		}

		rec = Reconciliation{
			UserID:            userID,
			Balance:           u.Balance,
			SucceededDeposits: totals.SucceededDeposits,
			Purchases:         totals.Purchases,
			Adjustments:       adjusted,
			Expected:          totals.SucceededDeposits - totals.Purchases + adjusted,
		}
		rec.Balanced = rec.Expected == rec.Balance

		return nil
	})
	if err != nil {
		return Reconciliation{}, fmt.Errorf("reconcile: %w", err)
	}

	if !rec.Balanced {
		slog.Warn("ledger out of balance", "user_id", userID, "balance", rec.Balance, "expected", rec.Expected)
	}

	return rec, nil
}
