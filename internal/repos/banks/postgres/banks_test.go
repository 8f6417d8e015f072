package banks

import (
	"errors"
	"testing"
	"time"

	"github.com/fastprodman/keystore/internal/infra/pgtestutil"
	"github.com/fastprodman/keystore/internal/repos/banks"
	"github.com/google/uuid"
)

func TestBanks_CRUD(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	ctx := t.Context()

	mb := banks.Bank{
		ID:            uuid.New(),
		BankName:      "MBBANK",
		BankCode:      "970422",
		AccountNumber: "0987654321",
		AccountName:   "NGUYEN VAN ADMIN",
		Logo:          "mb.png",
		CreatedAt:     time.Now().UTC(),
	}
	acb := mb
	acb.ID = uuid.New()
	acb.BankName = "ACB"
	acb.BankCode = "970416"

	for _, b := range []banks.Bank{mb, acb} {
		err := repo.Insert(ctx, b)
		if err != nil {
			t.Fatalf("insert %s: %v", b.BankName, err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != mb.ID || list[1].ID != acb.ID {
		t.Fatalf("list must keep registration order: %+v", list)
	}

	got, err := repo.Get(ctx, acb.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.BankCode != "970416" || got.AccountNumber != "0987654321" {
		t.Fatalf("unexpected bank: %+v", got)
	}

	err = repo.Delete(ctx, mb.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = repo.Get(ctx, mb.ID)
	if !errors.Is(err, banks.ErrBankNotFound) {
		t.Fatalf("get deleted: want ErrBankNotFound, got %v", err)
	}

	err = repo.Delete(ctx, mb.ID)
	if !errors.Is(err, banks.ErrBankNotFound) {
		t.Fatalf("delete twice: want ErrBankNotFound, got %v", err)
	}
}
