package ledger

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

var ErrDuplicateTransaction = fmt.Errorf("transaction id already recorded")

// Store owns all account and deposit-history state. The processor mutates
// accounts through the handles returned here; the store itself has no
// transaction logic. The mutex keeps the maps safe if the store is ever
// shared across per-client shards.
type Store struct {
	mu       sync.RWMutex
	accounts map[uint16]*Account
	deposits map[uint32]*DepositRecord
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[uint16]*Account),
		deposits: make(map[uint32]*DepositRecord),
	}
}

// GetOrCreateAccount returns the client's account, creating an empty
// unlocked one on first reference.
func (s *Store) GetOrCreateAccount(clientID uint16) *Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct := s.accounts[clientID]
	if acct == nil {
		acct = &Account{
			ClientID:  clientID,
			Available: decimal.Zero,
			Held:      decimal.Zero,
		}
		s.accounts[clientID] = acct
	}
	return acct
}

// GetAccount looks up an account without creating one.
func (s *Store) GetAccount(clientID uint16) (*Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[clientID]
	return acct, ok
}

// RecordDeposit inserts a new history entry for a successful deposit.
// The first occurrence of a transaction id wins.
func (s *Store) RecordDeposit(txID uint32, clientID uint16, amount decimal.Decimal) (*DepositRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.deposits[txID]; exists {
		return nil, ErrDuplicateTransaction
	}

	rec := &DepositRecord{
		TxID:     txID,
		ClientID: clientID,
		Amount:   amount,
		State:    DisputeNone,
	}
	s.deposits[txID] = rec
	return rec, nil
}

// GetDeposit looks up the history entry for a transaction id.
func (s *Store) GetDeposit(txID uint32) (*DepositRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.deposits[txID]
	return rec, ok
}

// Accounts returns every account ever touched, in no particular order.
// Ordering the final report is the writer's concern.
func (s *Store) Accounts() []*Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		out = append(out, acct)
	}
	return out
}
