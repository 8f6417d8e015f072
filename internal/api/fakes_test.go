package api

import (
	"context"

	"github.com/fastprodman/keystore/internal/apperr"
	repobanks "github.com/fastprodman/keystore/internal/repos/banks"
	repokeys "github.com/fastprodman/keystore/internal/repos/keys"
	"github.com/fastprodman/keystore/internal/repos/transactions"
	"github.com/fastprodman/keystore/internal/repos/users"
	"github.com/fastprodman/keystore/internal/services/banks"
	"github.com/fastprodman/keystore/internal/services/identity"
	"github.com/fastprodman/keystore/internal/services/keys"
	"github.com/fastprodman/keystore/internal/services/ledger"
	"github.com/google/uuid"
)

var (
	alice = users.User{ID: uuid.MustParse("11111111-1111-4111-8111-111111111111"), Username: "alice", Role: users.RoleUser, Balance: 20_000}
	root  = users.User{ID: uuid.MustParse("22222222-2222-4222-8222-222222222222"), Username: "root", Role: users.RoleAdmin}
)

// fakeIdentity accepts "alice-token" and "root-token".
type fakeIdentity struct {
	registered []string
	loggedOut  []string
}

func (f *fakeIdentity) Register(_ context.Context, username, password string) (users.User, error) {
	if username == "" || password == "" {
		return users.User{}, apperr.ErrInvalidInput
	}

	if username == alice.Username {
		return users.User{}, apperr.ErrDuplicateUsername
	}

	f.registered = append(f.registered, username)

	return users.User{ID: uuid.New(), Username: username, Role: users.RoleUser}, nil
}

func (f *fakeIdentity) Login(_ context.Context, username, password string) (identity.Session, error) {
	if password != "pw" {
		return identity.Session{}, apperr.ErrInvalidCredentials
	}

	return identity.Session{Token: username + "-token", User: users.User{Username: username}}, nil
}

func (f *fakeIdentity) Logout(_ context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

func (f *fakeIdentity) CurrentUser(_ context.Context, token string) (users.User, error) {
	switch token {
	case "alice-token":
		return alice, nil
	case "root-token":
		return root, nil
	case "locked-token":
		return users.User{}, apperr.ErrUserLocked
	default:
		return users.User{}, apperr.ErrUnauthorized
	}
}

func (f *fakeIdentity) Refresh(ctx context.Context, token string) (identity.Session, error) {
	u, err := f.CurrentUser(ctx, token)
	if err != nil {
		return identity.Session{}, err
	}

	return identity.Session{Token: token + "-2", User: u}, nil
}

type fakeBanks struct{}

func (fakeBanks) List(context.Context) ([]repobanks.Bank, error) {
	return []repobanks.Bank{{ID: uuid.New(), BankName: "MBBANK", BankCode: "970422"}}, nil
}

func (fakeBanks) Add(_ context.Context, in banks.NewBank) (repobanks.Bank, error) {
	if in.AccountNumber == "" {
		return repobanks.Bank{}, apperr.ErrInvalidInput
	}

	return repobanks.Bank{ID: uuid.New(), BankName: in.BankName, AccountNumber: in.AccountNumber}, nil
}

func (fakeBanks) Remove(context.Context, uuid.UUID) error {
	return repobanks.ErrBankNotFound
}

type fakeLedger struct {
	txs map[uuid.UUID]transactions.Transaction
}

func (f *fakeLedger) CreateDepositOrder(_ context.Context, userID uuid.UUID, amount int64, _ uuid.UUID) (ledger.DepositOrder, error) {
	if amount < 10_000 {
		return ledger.DepositOrder{}, apperr.ErrInvalidAmount
	}

	t := transactions.Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      transactions.KindDeposit,
		Amount:    amount,
		Status:    transactions.StatusPending,
		Reference: "TXABCDEFGH",
		Metadata:  transactions.DepositMetadata{BankName: "MBBANK"},
	}

	return ledger.DepositOrder{Transaction: t}, nil
}

func (f *fakeLedger) ApproveDeposit(_ context.Context, txID uuid.UUID) (transactions.Transaction, error) {
	t, ok := f.txs[txID]
	if !ok {
		return transactions.Transaction{}, transactions.ErrTransactionNotFound
	}

	t.Status = transactions.StatusSuccess

	return t, nil
}

func (f *fakeLedger) Get(_ context.Context, txID uuid.UUID) (transactions.Transaction, error) {
	t, ok := f.txs[txID]
	if !ok {
		return transactions.Transaction{}, transactions.ErrTransactionNotFound
	}

	return t, nil
}

func (f *fakeLedger) ListForUser(_ context.Context, userID uuid.UUID) ([]transactions.Transaction, error) {
	out := make([]transactions.Transaction, 0)

	for _, t := range f.txs {
		if t.UserID == userID {
			out = append(out, t)
		}
	}

	return out, nil
}

func (f *fakeLedger) ListAll(context.Context) ([]transactions.Transaction, error) {
	out := make([]transactions.Transaction, 0, len(f.txs))
	for _, t := range f.txs {
		out = append(out, t)
	}

	return out, nil
}

func (f *fakeLedger) Reconcile(_ context.Context, userID uuid.UUID) (ledger.Reconciliation, error) {
	return ledger.Reconciliation{UserID: userID, Balanced: true}, nil
}

type fakeKeys struct {
	last keys.PurchaseRequest
}

func (f *fakeKeys) BuyKeys(_ context.Context, req keys.PurchaseRequest) (keys.Purchase, error) {
	f.last = req

	if req.UnitPrice*int64(req.Quantity) > alice.Balance {
		return keys.Purchase{}, apperr.ErrInsufficientBalance
	}

	return keys.Purchase{Total: req.UnitPrice * int64(req.Quantity)}, nil
}

func (f *fakeKeys) ListKeys(_ context.Context, userID uuid.UUID) ([]repokeys.Key, error) {
	return []repokeys.Key{{Code: "KEY-1D-0123456789ABCDEF", UserID: userID}}, nil
}

type fakeAdmin struct {
	deletedBy uuid.UUID
}

func (f *fakeAdmin) ListUsers(context.Context) ([]users.User, error) {
	return []users.User{alice, root}, nil
}

func (f *fakeAdmin) SetUserBalance(_ context.Context, _, userID uuid.UUID, newBalance int64) (users.User, error) {
	if newBalance < 0 {
		return users.User{}, apperr.ErrInvalidAmount
	}

	if userID != alice.ID {
		return users.User{}, users.ErrUserNotFound
	}

	u := alice
	u.Balance = newBalance

	return u, nil
}

func (f *fakeAdmin) ToggleLock(_ context.Context, userID uuid.UUID) (users.User, error) {
	u := alice
	u.ID = userID
	u.Locked = true

	return u, nil
}

func (f *fakeAdmin) DeleteUser(_ context.Context, adminID, userID uuid.UUID) error {
	if adminID == userID {
		return apperr.ErrInvalidInput
	}

	f.deletedBy = adminID

	return nil
}
