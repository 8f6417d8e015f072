package transactions

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Metadata is the kind-specific part of a Transaction. It is implemented only
// by DepositMetadata and PurchaseMetadata.
type Metadata interface {
	Kind() Kind
}

// DepositMetadata snapshots the receiving bank at order creation so later
// registry edits do not alter historic orders.
type DepositMetadata struct {
	BankName      string `json:"bankName"`
	BankCode      string `json:"bankCode"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

func (DepositMetadata) Kind() Kind { return KindDeposit }

type IssuedKey struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type PurchaseMetadata struct {
	ProductID    string          `json:"productId"`
	Quantity     int             `json:"quantity"`
	UnitPrice    int64           `json:"unitPrice"`
	DiscountRate decimal.Decimal `json:"discountRate"`
	Keys         []IssuedKey     `json:"keys"`
}

func (PurchaseMetadata) Kind() Kind { return KindBuyKey }

// Deposit returns the deposit metadata when t is a deposit.
func (t Transaction) Deposit() (DepositMetadata, bool) {
	m, ok := t.Metadata.(DepositMetadata)
	return m, ok
}

// Purchase returns the purchase metadata when t is a key purchase.
func (t Transaction) Purchase() (PurchaseMetadata, bool) {
	m, ok := t.Metadata.(PurchaseMetadata)
	return m, ok
}

// EncodeMetadata serialises m after checking it belongs to kind.
func EncodeMetadata(kind Kind, m Metadata) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("missing metadata for %s", kind)
	}

	if m.Kind() != kind {
		return nil, fmt.Errorf("metadata kind %s does not match transaction kind %s", m.Kind(), kind)
	}

	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	return raw, nil
}

// DecodeMetadata parses raw into the concrete type selected by kind.
func DecodeMetadata(kind Kind, raw []byte) (Metadata, error) {
	switch kind {
	case KindDeposit:
		var m DepositMetadata

		err := json.Unmarshal(raw, &m)
		if err != nil {
			return nil, fmt.Errorf("unmarshal deposit metadata: %w", err)
		}

		return m, nil
	case KindBuyKey:
		var m PurchaseMetadata

		err := json.Unmarshal(raw, &m)
		if err != nil {
			return nil, fmt.Errorf("unmarshal purchase metadata: %w", err)
		}

		return m, nil
	default:
		return nil, fmt.Errorf("unknown transaction kind %q", kind)
	}
}
