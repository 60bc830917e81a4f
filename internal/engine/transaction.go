package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeDeposit    Type = "deposit"
	TypeWithdrawal Type = "withdrawal"
	TypeDispute    Type = "dispute"
	TypeResolve    Type = "resolve"
	TypeChargeback Type = "chargeback"
)

// ParseType matches a raw type field case-insensitively.
func ParseType(value string) (Type, bool) {
	switch Type(strings.ToLower(strings.TrimSpace(value))) {
	case TypeDeposit:
		return TypeDeposit, true
	case TypeWithdrawal:
		return TypeWithdrawal, true
	case TypeDispute:
		return TypeDispute, true
	case TypeResolve:
		return TypeResolve, true
	case TypeChargeback:
		return TypeChargeback, true
	default:
		return "", false
	}
}

// Transaction is one record of the input stream. Amount is meaningful only
// when HasAmount is set; dispute, resolve and chargeback carry none.
type Transaction struct {
	Type      Type
	ClientID  uint16
	TxID      uint32
	Amount    decimal.Decimal
	HasAmount bool
}
