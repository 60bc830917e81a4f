package csvio

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/matangottesman/payment-engine/internal/engine"
)

func readAll(t *testing.T, input string) ([]engine.Transaction, *Reader) {
	t.Helper()
	r := NewReader(strings.NewReader(input), nil, nil)

	var out []engine.Transaction
	for {
		tx, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, r
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		out = append(out, tx)
	}
}

func TestReaderParsesWellFormedRows(t *testing.T) {
	input := "type,client,tx,amount\n" +
		"deposit, 1, 1, 1.5\n" +
		"withdrawal,1,2,0.5\n" +
		"dispute,1,1,\n" +
		"resolve,1,1\n" +
		"chargeback,1,1,\n"

	txs, r := readAll(t, input)
	if len(txs) != 5 {
		t.Fatalf("expected 5 transactions, got %d", len(txs))
	}
	if r.Skipped() != 0 {
		t.Fatalf("expected no skipped rows, got %d", r.Skipped())
	}

	if txs[0].Type != engine.TypeDeposit || !txs[0].HasAmount || txs[0].Amount.String() != "1.5" {
		t.Fatalf("unexpected deposit: %+v", txs[0])
	}
	if txs[2].Type != engine.TypeDispute || txs[2].HasAmount {
		t.Fatalf("dispute must carry no amount: %+v", txs[2])
	}
	if txs[3].TxID != 1 || txs[3].ClientID != 1 {
		t.Fatalf("unexpected resolve ids: %+v", txs[3])
	}
}

func TestReaderMatchesTypeCaseInsensitively(t *testing.T) {
	input := "type,client,tx,amount\n" +
		"  Deposit ,1,1,2.0\n"

	txs, _ := readAll(t, input)
	if len(txs) != 1 || txs[0].Type != engine.TypeDeposit {
		t.Fatalf("expected one deposit, got %+v", txs)
	}
}

func TestReaderSkipsMalformedRows(t *testing.T) {
	input := "type,client,tx,amount\n" +
		"transfer,1,1,5.0\n" + // unknown type
		"deposit,not-a-client,2,5.0\n" + // bad client
		"deposit,1,huge,5.0\n" + // bad tx
		"deposit,1,3,\n" + // missing amount
		"deposit,1,4,-2.0\n" + // negative amount
		"dispute,1,5,3.0\n" + // amount where none belongs
		"deposit,1,6,5.0\n"

	txs, r := readAll(t, input)
	if len(txs) != 1 {
		t.Fatalf("expected 1 valid transaction, got %d", len(txs))
	}
	if txs[0].TxID != 6 {
		t.Fatalf("expected the last row to survive, got tx %d", txs[0].TxID)
	}
	if r.Skipped() != 6 {
		t.Fatalf("expected 6 skipped rows, got %d", r.Skipped())
	}
}

func TestReaderRejectsClientOverflow(t *testing.T) {
	input := "type,client,tx,amount\n" +
		"deposit,70000,1,1.0\n"

	txs, r := readAll(t, input)
	if len(txs) != 0 || r.Skipped() != 1 {
		t.Fatalf("expected client id overflow to be skipped, got %d txs, %d skipped", len(txs), r.Skipped())
	}
}

func TestReaderDrainsUnusableHeader(t *testing.T) {
	input := "kind,who\n" +
		"deposit,1\n" +
		"withdrawal,2\n"

	txs, r := readAll(t, input)
	if len(txs) != 0 {
		t.Fatalf("expected no transactions without a usable header, got %d", len(txs))
	}
	if r.Skipped() != 2 {
		t.Fatalf("expected every data row skipped, got %d", r.Skipped())
	}
}

func TestReaderEmptyInput(t *testing.T) {
	r := NewReader(strings.NewReader(""), nil, nil)
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}
