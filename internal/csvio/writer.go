package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/matangottesman/payment-engine/internal/ledger"
)

// WriteAccounts renders the final report: one row per touched account,
// decimals fixed to four fractional digits, sorted by client id. The
// ordering is presentation only.
func WriteAccounts(w io.Writer, accounts []*ledger.Account) error {
	sorted := make([]*ledger.Account, len(accounts))
	copy(sorted, accounts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ClientID < sorted[j].ClientID
	})

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, acct := range sorted {
		row := []string{
			strconv.FormatUint(uint64(acct.ClientID), 10),
			acct.Available.StringFixed(4),
			acct.Held.StringFixed(4),
			acct.Total().StringFixed(4),
			strconv.FormatBool(acct.Locked),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write account %d: %w", acct.ClientID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
