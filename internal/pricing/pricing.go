// Package pricing holds the key catalogue and the quantity discount tiers.
package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/fastprodman/keystore/internal/apperr"
	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest number of keys a single purchase may issue.
const MaxQuantity = 100

var (
	ErrProductNotFound = fmt.Errorf("product %w", apperr.ErrNotFound)
	ErrTotalOverflow   = fmt.Errorf("%w: total is out of range", apperr.ErrInvalidAmount)
)

var maxAmount = decimal.NewFromInt(math.MaxInt64)

type Product struct {
	ID       string        `json:"id"`
	Label    string        `json:"label"`
	Duration time.Duration `json:"-"`
	Hours    int           `json:"hours"`
	Price    int64         `json:"price"`
}

func product(id, label string, hours int, price int64) Product {
	return Product{ID: id, Label: label, Duration: time.Duration(hours) * time.Hour, Hours: hours, Price: price}
}

var catalog = []Product{
	product("1h", "1 hour", 1, 5_000),
	product("10h", "10 hours", 10, 10_000),
	product("1d", "1 day", 24, 20_000),
	product("3d", "3 days", 72, 45_000),
	product("7d", "7 days", 168, 80_000),
	product("1m", "1 month", 720, 120_000),
	product("forever", "Forever", 999_999, 250_000),
}

// Products returns the catalogue in display order.
func Products() []Product {
	out := make([]Product, len(catalog))
	copy(out, catalog)

	return out
}

func Lookup(productID string) (Product, error) {
	for _, p := range catalog {
		if p.ID == productID {
			return p, nil
		}
	}

	return Product{}, fmt.Errorf("%w: %q", ErrProductNotFound, productID)
}

type Tier struct {
	MinQuantity int             `json:"minQuantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// tiers are ordered from the largest quantity down.
var tiers = []Tier{
	{MinQuantity: 10, Rate: decimal.RequireFromString("0.35")},
	{MinQuantity: 6, Rate: decimal.RequireFromString("0.25")},
	{MinQuantity: 3, Rate: decimal.RequireFromString("0.15")},
}

func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)

	return out
}

// DiscountFor returns the fractional discount for buying quantity keys at once.
func DiscountFor(quantity int) decimal.Decimal {
	for _, t := range tiers {
		if quantity >= t.MinQuantity {
			return t.Rate
		}
	}

	return decimal.Zero
}

// Total is unitPrice * quantity * (1 - rate), rounded half-up to a whole unit.
// A result that does not fit in int64 returns ErrTotalOverflow.
func Total(unitPrice int64, quantity int, rate decimal.Decimal) (int64, error) {
	subtotal := decimal.NewFromInt(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))

	return toAmount(subtotal.Mul(decimal.NewFromInt(1).Sub(rate)).Round(0))
}

func toAmount(d decimal.Decimal) (int64, error) {
	if d.Abs().GreaterThan(maxAmount) {
		return 0, ErrTotalOverflow
	}

	return d.IntPart(), nil
}

type Quote struct {
	ProductID    string          `json:"productId"`
	Quantity     int             `json:"quantity"`
	UnitPrice    int64           `json:"unitPrice"`
	DiscountRate decimal.Decimal `json:"discountRate"`
	Subtotal     int64           `json:"subtotal"`
	Discount     int64           `json:"discount"`
	Total        int64           `json:"total"`
}

// QuoteFor prices quantity keys of the given product with the tiered discount.
func QuoteFor(productID string, quantity int) (Quote, error) {
	switch {
	case quantity < 1:
		return Quote{}, fmt.Errorf("%w: quantity must be at least 1", apperr.ErrInvalidAmount)
	case quantity > MaxQuantity:
		return Quote{}, fmt.Errorf("%w: quantity must be at most %d", apperr.ErrInvalidAmount, MaxQuantity)
	}

	p, err := Lookup(productID)
	if err != nil {
		return Quote{}, err
	}

	subtotal, err := Total(p.Price, quantity, decimal.Zero)
	if err != nil {
		return Quote{}, err
	}

	rate := DiscountFor(quantity)

	total, err := Total(p.Price, quantity, rate)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		ProductID:    p.ID,
		Quantity:     quantity,
		UnitPrice:    p.Price,
		DiscountRate: rate,
		Subtotal:     subtotal,
		Discount:     subtotal - total,
		Total:        total,
	}, nil
}
