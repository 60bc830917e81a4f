package engine

import (
	"context"
	"errors"
	"time"

	"github.com/matangottesman/payment-engine/internal/events"
	"github.com/matangottesman/payment-engine/internal/ledger"
	"github.com/shopspring/decimal"
	"log/slog"
)

// Rejection reasons. Every rejection leaves the store untouched; the stream
// always continues.
var (
	ErrAccountLocked        = errors.New("account is locked")
	ErrDuplicateTransaction = errors.New("duplicate transaction id")
	ErrUnknownAccount       = errors.New("account does not exist")
	ErrInsufficientFunds    = errors.New("insufficient available funds")
	ErrUnknownTransaction   = errors.New("transaction id not found")
	ErrClientMismatch       = errors.New("transaction belongs to another client")
	ErrAlreadyDisputed      = errors.New("transaction already under dispute")
	ErrNotDisputed          = errors.New("transaction is not under dispute")
	ErrChargedBack          = errors.New("transaction already charged back")
	ErrInvalidAmount        = errors.New("amount missing or negative")
	ErrUnknownType          = errors.New("unknown transaction type")
)

// Store is the ledger contract the processor works against.
type Store interface {
	GetOrCreateAccount(clientID uint16) *ledger.Account
	GetAccount(clientID uint16) (*ledger.Account, bool)
	RecordDeposit(txID uint32, clientID uint16, amount decimal.Decimal) (*ledger.DepositRecord, error)
	GetDeposit(txID uint32) (*ledger.DepositRecord, bool)
	Accounts() []*ledger.Account
}

// Topics names the audit streams the engine publishes to when a publisher
// is configured.
type Topics struct {
	TransactionsRejected string
	AccountsLocked       string
}

// Engine applies transactions to the ledger store one at a time. It holds
// no account state of its own.
type Engine struct {
	store     Store
	publisher events.Publisher
	topics    Topics
	logger    *slog.Logger
	metrics   *Metrics
}

func New(store Store, publisher events.Publisher, topics Topics, logger *slog.Logger, metrics *Metrics) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:     store,
		publisher: publisher,
		topics:    topics,
		logger:    logger,
		metrics:   metrics,
	}
}

// Apply runs one transaction through the state machine. A nil return means
// the mutation was applied; otherwise the returned rejection reason names
// why the record was discarded and the store is unchanged.
func (e *Engine) Apply(ctx context.Context, tx Transaction) error {
	start := time.Now()

	var err error
	switch tx.Type {
	case TypeDeposit:
		err = e.deposit(tx)
	case TypeWithdrawal:
		err = e.withdraw(tx)
	case TypeDispute:
		err = e.dispute(tx)
	case TypeResolve:
		err = e.resolve(tx)
	case TypeChargeback:
		err = e.chargeback(ctx, tx)
	default:
		err = ErrUnknownType
	}

	e.observe(ctx, tx, err, time.Since(start))
	return err
}

// Accounts exposes the final report enumeration after the stream ends.
func (e *Engine) Accounts() []*ledger.Account {
	return e.store.Accounts()
}

func (e *Engine) deposit(tx Transaction) error {
	if !tx.HasAmount || tx.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if acct, ok := e.store.GetAccount(tx.ClientID); ok && acct.Locked {
		return ErrAccountLocked
	}
	if _, exists := e.store.GetDeposit(tx.TxID); exists {
		return ErrDuplicateTransaction
	}

	acct := e.store.GetOrCreateAccount(tx.ClientID)
	acct.Available = acct.Available.Add(tx.Amount)
	if _, err := e.store.RecordDeposit(tx.TxID, tx.ClientID, tx.Amount); err != nil {
		// Unreachable after the duplicate check above.
		acct.Available = acct.Available.Sub(tx.Amount)
		return ErrDuplicateTransaction
	}
	return nil
}

func (e *Engine) withdraw(tx Transaction) error {
	if !tx.HasAmount || tx.Amount.IsNegative() {
		return ErrInvalidAmount
	}

	acct, ok := e.store.GetAccount(tx.ClientID)
	if !ok {
		return ErrUnknownAccount
	}
	if acct.Locked {
		return ErrAccountLocked
	}
	if acct.Available.LessThan(tx.Amount) {
		return ErrInsufficientFunds
	}

	acct.Available = acct.Available.Sub(tx.Amount)
	return nil
}

func (e *Engine) dispute(tx Transaction) error {
	rec, acct, err := e.lookupDisputed(tx)
	if err != nil {
		return err
	}
	switch rec.State {
	case ledger.DisputeOpen:
		return ErrAlreadyDisputed
	case ledger.DisputeChargedBack:
		return ErrChargedBack
	}

	acct.Available = acct.Available.Sub(rec.Amount)
	acct.Held = acct.Held.Add(rec.Amount)
	rec.State = ledger.DisputeOpen
	return nil
}

func (e *Engine) resolve(tx Transaction) error {
	rec, acct, err := e.lookupDisputed(tx)
	if err != nil {
		return err
	}
	switch rec.State {
	case ledger.DisputeNone:
		return ErrNotDisputed
	case ledger.DisputeChargedBack:
		return ErrChargedBack
	}

	acct.Available = acct.Available.Add(rec.Amount)
	acct.Held = acct.Held.Sub(rec.Amount)
	rec.State = ledger.DisputeNone
	return nil
}

func (e *Engine) chargeback(ctx context.Context, tx Transaction) error {
	rec, acct, err := e.lookupDisputed(tx)
	if err != nil {
		return err
	}
	switch rec.State {
	case ledger.DisputeNone:
		return ErrNotDisputed
	case ledger.DisputeChargedBack:
		return ErrChargedBack
	}

	acct.Held = acct.Held.Sub(rec.Amount)
	rec.State = ledger.DisputeChargedBack
	acct.Locked = true

	if e.metrics != nil {
		e.metrics.AccountsLocked.Inc()
	}
	e.publishLocked(ctx, tx, acct)
	return nil
}

// lookupDisputed resolves the deposit record and account referenced by a
// dispute, resolve or chargeback, applying the checks shared by all three.
func (e *Engine) lookupDisputed(tx Transaction) (*ledger.DepositRecord, *ledger.Account, error) {
	rec, ok := e.store.GetDeposit(tx.TxID)
	if !ok {
		return nil, nil, ErrUnknownTransaction
	}
	if rec.ClientID != tx.ClientID {
		return nil, nil, ErrClientMismatch
	}

	acct, ok := e.store.GetAccount(tx.ClientID)
	if !ok {
		return nil, nil, ErrUnknownAccount
	}
	if acct.Locked {
		return nil, nil, ErrAccountLocked
	}
	return rec, acct, nil
}

func (e *Engine) observe(ctx context.Context, tx Transaction, err error, duration time.Duration) {
	status := "applied"
	if err != nil {
		status = "rejected"
	}

	if e.metrics != nil {
		e.metrics.TransactionsTotal.WithLabelValues(string(tx.Type), status).Inc()
		e.metrics.ApplyDuration.Observe(duration.Seconds())
	}

	if err == nil {
		return
	}

	reason := rejectReason(err)
	if e.metrics != nil {
		e.metrics.RejectsTotal.WithLabelValues(reason).Inc()
	}
	e.logger.Warn("transaction rejected",
		"type", string(tx.Type),
		"client", tx.ClientID,
		"tx", tx.TxID,
		"reason", reason,
	)
	e.publishRejected(ctx, tx, reason)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrAccountLocked):
		return "account_locked"
	case errors.Is(err, ErrDuplicateTransaction):
		return "duplicate_tx"
	case errors.Is(err, ErrUnknownAccount):
		return "unknown_account"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrUnknownTransaction):
		return "unknown_tx"
	case errors.Is(err, ErrClientMismatch):
		return "client_mismatch"
	case errors.Is(err, ErrAlreadyDisputed):
		return "already_disputed"
	case errors.Is(err, ErrNotDisputed):
		return "not_disputed"
	case errors.Is(err, ErrChargedBack):
		return "charged_back"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrUnknownType):
		return "unknown_type"
	default:
		return "internal"
	}
}
