package banks

import (
	"context"
	"fmt"
	"time"

	"github.com/fastprodman/keystore/internal/apperr"
	"github.com/google/uuid"
)

var ErrBankNotFound = fmt.Errorf("bank %w", apperr.ErrNotFound)

// Bank is a receiving account registered by an administrator.
type Bank struct {
	ID            uuid.UUID `json:"id"`
	BankName      string    `json:"bankName"`
	BankCode      string    `json:"bankCode"`
	AccountNumber string    `json:"accountNumber"`
	AccountName   string    `json:"accountName"`
	Logo          string    `json:"logo"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Banks interface {
	List(ctx context.Context) ([]Bank, error)
	Get(ctx context.Context, bankID uuid.UUID) (Bank, error)
	Insert(ctx context.Context, b Bank) error
	Delete(ctx context.Context, bankID uuid.UUID) error
}
