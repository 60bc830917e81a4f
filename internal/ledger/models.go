package ledger

import (
	"github.com/shopspring/decimal"
)

// DisputeState tracks where a deposit sits in the dispute lifecycle.
// Resolving a dispute returns the deposit to DisputeNone so it can be
// disputed again; a chargeback is terminal.
type DisputeState string

const (
	DisputeNone        DisputeState = "normal"
	DisputeOpen        DisputeState = "disputed"
	DisputeChargedBack DisputeState = "charged_back"
)

// Account holds a single client's balances. Total is derived from
// Available and Held, never stored.
type Account struct {
	ClientID  uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// DepositRecord is the history entry kept per successful deposit.
// Withdrawals are never recorded; they cannot be disputed.
type DepositRecord struct {
	TxID     uint32
	ClientID uint16
	Amount   decimal.Decimal
	State    DisputeState
}
