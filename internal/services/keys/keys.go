package keys

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fastprodman/keystore/internal/apperr"
	"github.com/fastprodman/keystore/internal/infra/pgutils"
	"github.com/fastprodman/keystore/internal/metrics"
	"github.com/fastprodman/keystore/internal/pricing"
	"github.com/fastprodman/keystore/internal/repos/keys"
	pgkeys "github.com/fastprodman/keystore/internal/repos/keys/postgres"
	"github.com/fastprodman/keystore/internal/repos/transactions"
	pgtransactions "github.com/fastprodman/keystore/internal/repos/transactions/postgres"
	"github.com/fastprodman/keystore/internal/repos/users"
	pgusers "github.com/fastprodman/keystore/internal/repos/users/postgres"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type KeyService struct {
	db    *sql.DB
	users users.Users
	txns  transactions.Transactions
	keys  keys.Keys
	now   func() time.Time
}

func New(dbx *sql.DB) *KeyService {
	return &KeyService{
		db:    dbx,
		users: pgusers.New(dbx),
		txns:  pgtransactions.New(dbx),
		keys:  pgkeys.New(dbx),
		now:   time.Now,
	}
}

// BuyKeys runs the full purchase in a single DB transaction:
//
// 1) Lock the buyer row (FOR UPDATE) and check lock state and funds.
// 2) Debit the total.
// 3) Insert the BUY_KEY transaction listing every issued key.
// 4) Insert the keys.
//
// Any failure leaves balance, history and keys untouched.
func (s *KeyService) BuyKeys(ctx context.Context, req PurchaseRequest) (Purchase, error) {
	err := validate(req)
	if err != nil {
		return Purchase{}, err
	}

	product, err := pricing.Lookup(req.ProductID)
	if err != nil {
		return Purchase{}, err
	}

	total, err := pricing.Total(req.UnitPrice, req.Quantity, req.DiscountRate)
	if err != nil {
		return Purchase{}, err
	}

	if total <= 0 {
		return Purchase{}, fmt.Errorf("%w: total must be positive", apperr.ErrInvalidAmount)
	}

	var (
		record  transactions.Transaction
		batch   []keys.Key
		balance int64
	)

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		// 1) Lock buyer
		u, err := s.users.LockAndGet(tx, req.UserID)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		if u.Locked {
			return apperr.ErrUserLocked
		}

		if u.Balance < total {
			return fmt.Errorf("pre-check debit: %w", users.ErrInsufficientFunds)
		}

		// 2) Debit
		err = s.users.DecreaseBalance(tx, req.UserID, total)
		if err != nil {
			return fmt.Errorf("debit: %w", err)
		}

		record, batch = s.issue(req, product, total)

		// 3) History record; keys reference it
		err = s.txns.Insert(tx, record)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		// 4) Keys
		err = s.keys.InsertMany(tx, batch)
		if err != nil {
			return fmt.Errorf("insert keys: %w", err)
		}

		balance = u.Balance - total

		return nil
	})
	if err != nil {
		metrics.Purchases.WithLabelValues(purchaseResult(err)).Inc()
		return Purchase{}, fmt.Errorf("buy keys: %w", err)
	}

	metrics.Purchases.WithLabelValues("ok").Inc()
	metrics.KeysIssued.WithLabelValues(product.ID).Add(float64(req.Quantity))

	slog.Info("keys issued",
		"tx_id", record.ID,
		"user_id", req.UserID,
		"product", product.ID,
		"quantity", req.Quantity,
		"total", total,
	)

	return Purchase{Transaction: record, Keys: batch, Total: total, Balance: balance}, nil
}

// issue builds the purchase record and its keys. Codes are only generated
// once the buyer is known to afford them.
func (s *KeyService) issue(req PurchaseRequest, product pricing.Product, total int64) (transactions.Transaction, []keys.Key) {
	now := s.now().UTC()
	txID := uuid.New()
	batch := make([]keys.Key, 0, req.Quantity)
	issued := make([]transactions.IssuedKey, 0, req.Quantity)

	for range req.Quantity {
		k := keys.Key{
			ID:            uuid.New(),
			Code:          newKeyCode(product.ID),
			UserID:        req.UserID,
			ProductID:     product.ID,
			TransactionID: txID,
			PurchasedAt:   now,
			ExpiresAt:     now.Add(product.Duration),
		}

		batch = append(batch, k)
		issued = append(issued, transactions.IssuedKey{Code: k.Code, ExpiresAt: k.ExpiresAt})
	}

	record := transactions.Transaction{
		ID:          txID,
		UserID:      req.UserID,
		Kind:        transactions.KindBuyKey,
		Amount:      total,
		Description: fmt.Sprintf("Buy %d key(s) of %s", req.Quantity, product.ID),
		Status:      transactions.StatusSuccess,
		CreatedAt:   now,
		Metadata: transactions.PurchaseMetadata{
			ProductID:    product.ID,
			Quantity:     req.Quantity,
			UnitPrice:    req.UnitPrice,
			DiscountRate: req.DiscountRate,
			Keys:         issued,
		},
	}

	return record, batch
}

// ListKeys returns the user's keys, newest first.
func (s *KeyService) ListKeys(ctx context.Context, userID uuid.UUID) ([]keys.Key, error) {
	list, err := s.keys.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}

	return list, nil
}

func validate(req PurchaseRequest) error {
	switch {
	case req.Quantity < 1:
		return fmt.Errorf("%w: quantity must be at least 1", apperr.ErrInvalidAmount)
	case req.Quantity > pricing.MaxQuantity:
		return fmt.Errorf("%w: quantity must be at most %d", apperr.ErrInvalidAmount, pricing.MaxQuantity)
	case req.UnitPrice <= 0:
		return fmt.Errorf("%w: unit price must be positive", apperr.ErrInvalidAmount)
	case req.DiscountRate.IsNegative() || req.DiscountRate.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return fmt.Errorf("%w: discount rate must be in [0, 1)", apperr.ErrInvalidAmount)
	}

	return nil
}

// newKeyCode renders KEY-<PRODUCT>-<16 hex digits> from 64 random bits.
func newKeyCode(productID string) string {
	var raw [8]byte

	_, _ = rand.Read(raw[:])

	return "KEY-" + strings.ToUpper(productID) + "-" + strings.ToUpper(hex.EncodeToString(raw[:]))
}

func purchaseResult(err error) string {
	switch {
	case errors.Is(err, apperr.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, apperr.ErrUserLocked):
		return "locked"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
