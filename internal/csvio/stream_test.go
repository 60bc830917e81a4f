package csvio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/matangottesman/payment-engine/internal/engine"
	"github.com/matangottesman/payment-engine/internal/ledger"
)

// Full pipeline: CSV stream in, engine application, CSV report out.
func runStream(t *testing.T, input string) string {
	t.Helper()

	store := ledger.NewStore()
	eng := engine.New(store, nil, engine.Topics{}, nil, nil)
	reader := NewReader(strings.NewReader(input), nil, nil)

	for {
		tx, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		// Rejections keep the stream going.
		_ = eng.Apply(context.Background(), tx)
	}

	var out bytes.Buffer
	if err := WriteAccounts(&out, eng.Accounts()); err != nil {
		t.Fatalf("write report: %v", err)
	}
	return out.String()
}

func TestFullFlowSampleStream(t *testing.T) {
	input := strings.Join([]string{
		"type,client,tx,amount",
		"deposit,1,1,5.0",
		"deposit,1,2,2.0",
		"withdrawal,1,3,0.5",
		"deposit,2,4,100.0",
		"dispute,2,4,",
		"chargeback,2,4,",
		"deposit,2,5,10.0", // rejected, account locked
		"deposit,3,6,3.1234",
		"dispute,3,6,",
		"resolve,3,6,",
		"withdrawal,3,7,3.1234",
		"deposit,4,8,1.0",
		"dispute,4,8,",
		"withdrawal,5,9,2.0", // rejected, no such account
		"",
	}, "\n")

	output := runStream(t, input)

	expected := strings.Join([]string{
		"client,available,held,total,locked",
		"1,6.5000,0.0000,6.5000,false",
		"2,0.0000,0.0000,0.0000,true",
		"3,0.0000,0.0000,0.0000,false",
		"4,0.0000,1.0000,1.0000,false",
		"",
	}, "\n")
	if output != expected {
		t.Fatalf("unexpected report:\n%s\nexpected:\n%s", output, expected)
	}
}

func TestFullFlowNegativeAvailableAfterSpentDeposit(t *testing.T) {
	// Deposit, spend it, then dispute the original deposit: available may
	// go negative while the dispute holds funds that were already spent.
	input := strings.Join([]string{
		"type,client,tx,amount",
		"deposit,1,1,100.0",
		"withdrawal,1,2,60.0",
		"dispute,1,1,",
		"chargeback,1,1,",
		"",
	}, "\n")

	output := runStream(t, input)

	expected := strings.Join([]string{
		"client,available,held,total,locked",
		"1,-60.0000,0.0000,-60.0000,true",
		"",
	}, "\n")
	if output != expected {
		t.Fatalf("unexpected report:\n%s\nexpected:\n%s", output, expected)
	}
}

func TestFullFlowUnusableHeaderYieldsEmptyReport(t *testing.T) {
	input := strings.Join([]string{
		"kind,who,ref,value",
		"deposit,1,1,2.5",
		"withdrawal,1,2,1.0",
		"",
	}, "\n")

	output := runStream(t, input)

	expected := "client,available,held,total,locked\n"
	if output != expected {
		t.Fatalf("unexpected report:\n%s\nexpected:\n%s", output, expected)
	}
}

func TestFullFlowSkipsGarbageRows(t *testing.T) {
	input := strings.Join([]string{
		"type,client,tx,amount",
		"deposit,1,1,2.5",
		"not-a-type,1,2,1.0",
		"deposit,one,3,1.0",
		"withdrawal,1,4,1.0",
		"",
	}, "\n")

	output := runStream(t, input)

	expected := strings.Join([]string{
		"client,available,held,total,locked",
		"1,1.5000,0.0000,1.5000,false",
		"",
	}, "\n")
	if output != expected {
		t.Fatalf("unexpected report:\n%s\nexpected:\n%s", output, expected)
	}
}
