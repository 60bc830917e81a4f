// Package csvio is the external parser and formatter around the engine:
// it filters malformed rows before they reach the core and renders the
// final account report.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matangottesman/payment-engine/internal/engine"
	"github.com/shopspring/decimal"
	"log/slog"
)

// Reader streams transactions from a CSV source with the header
// `type,client,tx,amount`. Malformed rows are skipped with a warning and
// never reach the engine.
type Reader struct {
	csv       *csv.Reader
	logger    *slog.Logger
	metrics   *ReaderMetrics
	columns   map[string]int
	badHeader bool
	row       int
	skipped   int
}

func NewReader(r io.Reader, logger *slog.Logger, metrics *ReaderMetrics) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &Reader{
		csv:     cr,
		logger:  logger,
		metrics: metrics,
	}
}

// Next returns the next well-formed transaction, or io.EOF when the stream
// is exhausted.
func (r *Reader) Next() (engine.Transaction, error) {
	for {
		fields, err := r.csv.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return engine.Transaction{}, io.EOF
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				r.skip(parseErr.Line, err)
				continue
			}
			return engine.Transaction{}, fmt.Errorf("read csv: %w", err)
		}
		r.row++

		if r.columns == nil && !r.badHeader {
			// An unusable header never aborts the run: the rest of the
			// stream is drained row by row so the report still comes out.
			if err := r.readHeader(fields); err != nil {
				r.badHeader = true
				r.logger.Warn("unusable header", "error", err.Error())
			}
			continue
		}
		if r.badHeader {
			r.skip(r.row, fmt.Errorf("no usable header"))
			continue
		}

		tx, err := r.parseRow(fields)
		if err != nil {
			r.skip(r.row, err)
			continue
		}
		return tx, nil
	}
}

// Skipped reports how many malformed rows were discarded so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

func (r *Reader) skip(row int, err error) {
	r.skipped++
	if r.metrics != nil {
		r.metrics.RowsSkipped.Inc()
	}
	r.logger.Warn("skipping malformed row", "row", row, "error", err.Error())
}

func (r *Reader) readHeader(fields []string) error {
	columns := make(map[string]int, len(fields))
	for idx, name := range fields {
		columns[strings.ToLower(strings.TrimSpace(name))] = idx
	}
	for _, required := range []string{"type", "client", "tx"} {
		if _, ok := columns[required]; !ok {
			return fmt.Errorf("missing %q column in header", required)
		}
	}
	r.columns = columns
	return nil
}

func (r *Reader) parseRow(fields []string) (engine.Transaction, error) {
	kind, ok := engine.ParseType(r.field(fields, "type"))
	if !ok {
		return engine.Transaction{}, fmt.Errorf("unknown transaction type %q", r.field(fields, "type"))
	}

	client, err := strconv.ParseUint(r.field(fields, "client"), 10, 16)
	if err != nil {
		return engine.Transaction{}, fmt.Errorf("invalid client id %q", r.field(fields, "client"))
	}
	txID, err := strconv.ParseUint(r.field(fields, "tx"), 10, 32)
	if err != nil {
		return engine.Transaction{}, fmt.Errorf("invalid tx id %q", r.field(fields, "tx"))
	}

	tx := engine.Transaction{
		Type:     kind,
		ClientID: uint16(client),
		TxID:     uint32(txID),
	}

	raw := r.field(fields, "amount")
	switch kind {
	case engine.TypeDeposit, engine.TypeWithdrawal:
		if raw == "" {
			return engine.Transaction{}, fmt.Errorf("%s requires an amount", kind)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return engine.Transaction{}, fmt.Errorf("invalid amount %q", raw)
		}
		if amount.IsNegative() {
			return engine.Transaction{}, fmt.Errorf("negative amount %q", raw)
		}
		tx.Amount = amount
		tx.HasAmount = true
	default:
		if raw != "" {
			return engine.Transaction{}, fmt.Errorf("%s must not carry an amount", kind)
		}
	}

	return tx, nil
}

func (r *Reader) field(fields []string, name string) string {
	idx, ok := r.columns[name]
	if !ok || idx >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[idx])
}
