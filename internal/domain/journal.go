package domain

import (
	"github.com/shopspring/decimal"
)

// Journal entry type tags, matching the on-disk log lines.
const (
	EntryDeposit     = "DEPOSIT"
	EntryWithdraw    = "WITHDRAW"
	EntryPinChange   = "PIN-CHG"
	EntryTransferOut = "TRANSFER-"
	EntryTransferIn  = "TRANSFER+"
)

// TransactionJournal is the per-account append-only log. Append failures are
// treated as best-effort by callers: a completed balance mutation is never
// rolled back because its log line could not be written.
type TransactionJournal interface {
	Append(number int64, entryType string, amount, balanceAfter decimal.Decimal, note string) error
	Tail(number int64, n int) ([]string, error)
}
