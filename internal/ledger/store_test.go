package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestGetOrCreateAccountStartsEmpty(t *testing.T) {
	store := NewStore()

	acct := store.GetOrCreateAccount(7)
	if acct.ClientID != 7 {
		t.Fatalf("expected client 7, got %d", acct.ClientID)
	}
	if !acct.Available.IsZero() || !acct.Held.IsZero() {
		t.Fatalf("expected zero balances, got available=%s held=%s", acct.Available, acct.Held)
	}
	if acct.Locked {
		t.Fatalf("expected unlocked account")
	}
	if !acct.Total().IsZero() {
		t.Fatalf("expected zero total, got %s", acct.Total())
	}
}

func TestGetOrCreateAccountReturnsSameHandle(t *testing.T) {
	store := NewStore()

	first := store.GetOrCreateAccount(1)
	first.Available = decimal.NewFromInt(5)

	second := store.GetOrCreateAccount(1)
	if first != second {
		t.Fatalf("expected the same account handle")
	}
	if !second.Available.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected available 5, got %s", second.Available)
	}
}

func TestGetAccountDoesNotCreate(t *testing.T) {
	store := NewStore()

	if _, ok := store.GetAccount(3); ok {
		t.Fatalf("expected no account for unseen client")
	}
	if len(store.Accounts()) != 0 {
		t.Fatalf("lookup must not create accounts")
	}
}

func TestRecordDepositRejectsDuplicateID(t *testing.T) {
	store := NewStore()

	rec, err := store.RecordDeposit(10, 1, decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("record deposit: %v", err)
	}
	if rec.State != DisputeNone {
		t.Fatalf("expected new deposit in normal state, got %s", rec.State)
	}

	if _, err := store.RecordDeposit(10, 2, decimal.NewFromInt(1)); !errors.Is(err, ErrDuplicateTransaction) {
		t.Fatalf("expected ErrDuplicateTransaction, got %v", err)
	}

	stored, ok := store.GetDeposit(10)
	if !ok {
		t.Fatalf("expected deposit 10 stored")
	}
	if stored.ClientID != 1 || !stored.Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("first occurrence must win, got client=%d amount=%s", stored.ClientID, stored.Amount)
	}
}

func TestAccountsListsEveryTouchedAccount(t *testing.T) {
	store := NewStore()
	store.GetOrCreateAccount(1)
	store.GetOrCreateAccount(2)
	store.GetOrCreateAccount(1)

	accounts := store.Accounts()
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
}
