package banks

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fastprodman/keystore/internal/apperr"
	"github.com/fastprodman/keystore/internal/repos/banks"
	pgbanks "github.com/fastprodman/keystore/internal/repos/banks/postgres"
	"github.com/google/uuid"
)

type BankService struct {
	banks banks.Banks
	now   func() time.Time
}

func New(dbx *sql.DB) *BankService {
	return &BankService{
		banks: pgbanks.New(dbx),
		now:   time.Now,
	}
}

func (s *BankService) List(ctx context.Context) ([]banks.Bank, error) {
	list, err := s.banks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}

	return list, nil
}

func (s *BankService) Get(ctx context.Context, bankID uuid.UUID) (banks.Bank, error) {
	b, err := s.banks.Get(ctx, bankID)
	if err != nil {
		return banks.Bank{}, fmt.Errorf("get bank: %w", err)
	}

	return b, nil
}

// Add registers a receiving account. When only BankName is given and it is a
// known directory entry, the code is filled in from the directory.
func (s *BankService) Add(ctx context.Context, in NewBank) (banks.Bank, error) {
	b := banks.Bank{
		ID:            uuid.New(),
		BankName:      strings.TrimSpace(in.BankName),
		BankCode:      strings.TrimSpace(in.BankCode),
		AccountNumber: strings.TrimSpace(in.AccountNumber),
		AccountName:   strings.ToUpper(strings.TrimSpace(in.AccountName)),
		Logo:          strings.TrimSpace(in.Logo),
		CreatedAt:     s.now().UTC(),
	}

	entry, known := LookupDirectory(b.BankName)
	if known {
		b.BankName = entry.Name
		if b.BankCode == "" {
			b.BankCode = entry.BIN
		}
		if b.Logo == "" {
			b.Logo = entry.Logo()
		}
	}

	if b.BankName == "" || b.BankCode == "" || b.AccountNumber == "" || b.AccountName == "" {
		return banks.Bank{}, fmt.Errorf("%w: bank name, code, account number and holder are required", apperr.ErrInvalidInput)
	}

	if b.Logo == "" {
		b.Logo = strings.ToLower(b.BankCode) + ".png"
	}

	err := s.banks.Insert(ctx, b)
	if err != nil {
		return banks.Bank{}, fmt.Errorf("add bank: %w", err)
	}

	slog.Info("bank added", "bank_id", b.ID, "bank", b.BankName, "account", b.AccountNumber)

	return b, nil
}

// Remove deletes a receiving account. Existing deposit orders keep their own
// snapshot of it.
func (s *BankService) Remove(ctx context.Context, bankID uuid.UUID) error {
	err := s.banks.Delete(ctx, bankID)
	if err != nil {
		return fmt.Errorf("remove bank: %w", err)
	}

	slog.Info("bank removed", "bank_id", bankID)

	return nil
}
