package engine

import (
	"context"
	"fmt"

	"github.com/matangottesman/payment-engine/internal/events"
	"github.com/matangottesman/payment-engine/internal/ledger"
)

type TransactionRejectedEvent struct {
	events.Envelope
	Type     string `json:"type"`
	ClientID uint16 `json:"client"`
	TxID     uint32 `json:"tx"`
	Reason   string `json:"reason"`
}

type AccountLockedEvent struct {
	events.Envelope
	ClientID  uint16 `json:"client"`
	TxID      uint32 `json:"tx"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
}

// Audit events are advisory: a publish failure is logged and never turns
// an applied transaction into a failure.
func (e *Engine) publishRejected(ctx context.Context, tx Transaction, reason string) {
	if e.publisher == nil || e.topics.TransactionsRejected == "" {
		return
	}

	eventID := events.DeterministicEventID("transactions.rejected",
		string(tx.Type), fmt.Sprintf("%d", tx.ClientID), fmt.Sprintf("%d", tx.TxID), reason)
	env, err := events.NewEnvelopeWithID(eventID, "transactions.rejected", 1, "")
	if err != nil {
		e.logger.Error("rejected event envelope failed", "error", err)
		return
	}

	payload := TransactionRejectedEvent{
		Envelope: env,
		Type:     string(tx.Type),
		ClientID: tx.ClientID,
		TxID:     tx.TxID,
		Reason:   reason,
	}
	key := fmt.Sprintf("%d", tx.ClientID)
	if _, _, err := e.publisher.PublishJSON(ctx, e.topics.TransactionsRejected, key, payload); err != nil {
		e.logger.Error("rejected event publish failed", "topic", e.topics.TransactionsRejected, "error", err)
	}
}

func (e *Engine) publishLocked(ctx context.Context, tx Transaction, acct *ledger.Account) {
	if e.publisher == nil || e.topics.AccountsLocked == "" {
		return
	}

	eventID := events.DeterministicEventID("accounts.locked",
		fmt.Sprintf("%d", acct.ClientID), fmt.Sprintf("%d", tx.TxID))
	env, err := events.NewEnvelopeWithID(eventID, "accounts.locked", 1, "")
	if err != nil {
		e.logger.Error("locked event envelope failed", "error", err)
		return
	}

	payload := AccountLockedEvent{
		Envelope:  env,
		ClientID:  acct.ClientID,
		TxID:      tx.TxID,
		Available: acct.Available.String(),
		Held:      acct.Held.String(),
		Total:     acct.Total().String(),
	}
	key := fmt.Sprintf("%d", acct.ClientID)
	if _, _, err := e.publisher.PublishJSON(ctx, e.topics.AccountsLocked, key, payload); err != nil {
		e.logger.Error("locked event publish failed", "topic", e.topics.AccountsLocked, "error", err)
	}
}
