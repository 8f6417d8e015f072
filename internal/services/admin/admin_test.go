package admin

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/fastprodman/keystore/internal/apperr"
	"github.com/fastprodman/keystore/internal/config"
	"github.com/fastprodman/keystore/internal/infra/pgtestutil"
	"github.com/fastprodman/keystore/internal/services/keys"
	"github.com/fastprodman/keystore/internal/services/ledger"
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

func TestAdmin_SetUserBalance(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	s := New(db)
	ctx := t.Context()

	adminID := uuid.New()
	userID := seedUser(t, db, "alice", 5_000)

	tests := []struct {
		name        string
		userID      uuid.UUID
		balance     int64
		wantErr     error
		wantBalance int64
	}{
		{name: "raise", userID: userID, balance: 100_000, wantBalance: 100_000},
		{name: "to_zero", userID: userID, balance: 0, wantBalance: 0},
		{name: "negative", userID: userID, balance: -1, wantErr: apperr.ErrInvalidAmount, wantBalance: 0},
		{name: "unknown_user", userID: uuid.New(), balance: 10, wantErr: apperr.ErrNotFound, wantBalance: 0},
	}

	for _, tt := range tests {
		u, err := s.SetUserBalance(ctx, adminID, tt.userID, tt.balance)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("%s: want %v, got %v", tt.name, tt.wantErr, err)
			}

			continue
		}

		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if u.Balance != tt.wantBalance {
			t.Fatalf("%s: returned balance %d, want %d", tt.name, u.Balance, tt.wantBalance)
		}
	}

	var count int

	err := db.QueryRow(`SELECT COUNT(*) FROM balance_adjustments WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		t.Fatalf("count adjustments: %v", err)
	}
	if count != 2 {
		t.Fatalf("want 2 recorded adjustments, got %d", count)
	}
}

func TestAdmin_ToggleLock(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	s := New(db)
	ctx := t.Context()
	userID := seedUser(t, db, "bob", 0)

	for _, want := range []bool{true, false, true} {
		u, err := s.ToggleLock(ctx, userID)
		if err != nil {
			t.Fatalf("toggle lock: %v", err)
		}
		if u.Locked != want {
			t.Fatalf("locked: want %v, got %v", want, u.Locked)
		}
	}

	_, err := s.ToggleLock(ctx, uuid.New())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown user: want ErrNotFound, got %v", err)
	}
}

func TestAdmin_DeleteUserKeepsHistory(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	s := New(db)
	ctx := t.Context()

	adminID := seedUser(t, db, "root", 0)
	userID := seedUser(t, db, "carol", 50_000)

	_, err := keys.New(db).BuyKeys(ctx, keys.PurchaseRequest{UserID: userID, ProductID: "1h", Quantity: 1, UnitPrice: 5_000})
	if err != nil {
		t.Fatalf("buy keys: %v", err)
	}

	err = s.DeleteUser(ctx, adminID, adminID)
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("self delete: want ErrInvalidInput, got %v", err)
	}

	err = s.DeleteUser(ctx, adminID, userID)
	if err != nil {
		t.Fatalf("delete user: %v", err)
	}

	err = s.DeleteUser(ctx, adminID, userID)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}

	list, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(list) != 1 || list[0].ID != adminID {
		t.Fatalf("only the admin should remain: %+v", list)
	}

	var txCount, keyCount int

	err = db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&txCount)
	if err != nil {
		t.Fatalf("count transactions: %v", err)
	}

	err = db.QueryRow(`SELECT COUNT(*) FROM generated_keys WHERE user_id = $1`, userID).Scan(&keyCount)
	if err != nil {
		t.Fatalf("count keys: %v", err)
	}

	if txCount != 1 || keyCount != 1 {
		t.Fatalf("history must survive deletion: transactions=%d keys=%d", txCount, keyCount)
	}
}

func TestAdmin_LedgerReconcilesAfterEveryMutation(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	ctx := t.Context()

	adminSvc := New(db)
	ledgerSvc := ledger.New(db, config.LedgerConfig{MinDepositAmount: 10_000, MaxDepositAmount: 1_000_000_000, PaymentWindow: 20 * time.Minute})
	keySvc := keys.New(db)

	userID := seedUser(t, db, "dave", 0)
	bankID := uuid.New()

	_, err := db.Exec(`
		INSERT INTO banks (id, bank_name, bank_code, account_number, account_name)
		VALUES ($1, 'ACB', '970416', '1', 'SHOP')
	`, bankID)
	if err != nil {
		t.Fatalf("seed bank: %v", err)
	}

	checkBalanced := func(step string, wantBalance int64) {
		t.Helper()

		rec, err := ledgerSvc.Reconcile(ctx, userID)
		if err != nil {
			t.Fatalf("%s: reconcile: %v", step, err)
		}
		if !rec.Balanced || rec.Balance != wantBalance {
			t.Fatalf("%s: want balanced at %d, got %+v", step, wantBalance, rec)
		}
	}

	order, err := ledgerSvc.CreateDepositOrder(ctx, userID, 50_000, bankID)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	checkBalanced("pending deposit", 0)

	_, err = ledgerSvc.ApproveDeposit(ctx, order.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	checkBalanced("approved deposit", 50_000)

	_, err = keySvc.BuyKeys(ctx, keys.PurchaseRequest{UserID: userID, ProductID: "1d", Quantity: 1, UnitPrice: 20_000})
	if err != nil {
		t.Fatalf("buy keys: %v", err)
	}
	checkBalanced("purchase", 30_000)

	_, err = adminSvc.SetUserBalance(ctx, uuid.New(), userID, 100_000)
	if err != nil {
		t.Fatalf("set balance: %v", err)
	}
	checkBalanced("raise override", 100_000)

	_, err = adminSvc.SetUserBalance(ctx, uuid.New(), userID, 1_000)
	if err != nil {
		t.Fatalf("set balance: %v", err)
	}
	checkBalanced("lower override", 1_000)
}
