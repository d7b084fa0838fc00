package journal

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"branch-atm/internal/domain"
	"branch-atm/internal/errors"
)

const timestampLayout = "2006-01-02 15:04:05"

// FileJournal keeps one append-only text file per account number,
// <number>_log.txt, under a single directory. Historical lines are never
// rewritten or deleted.
type FileJournal struct {
	dir    string
	logger *slog.Logger
}

func NewFileJournal(dir string, logger *slog.Logger) *FileJournal {
	return &FileJournal{
		dir:    dir,
		logger: logger,
	}
}

var _ domain.TransactionJournal = (*FileJournal)(nil)

func (j *FileJournal) logPath(number int64) string {
	return filepath.Join(j.dir, fmt.Sprintf("%d_log.txt", number))
}

// Append writes one timestamped line to the account's journal. The file is
// opened in append mode and closed before returning.
func (j *FileJournal) Append(number int64, entryType string, amount, balanceAfter decimal.Decimal, note string) error {
	f, err := os.OpenFile(j.logPath(number), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return errors.NewAppError(errors.InternalError, "failed to open journal").WithDetails(err.Error())
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %-10s Amount: %s  Balance: %s",
		time.Now().Format(timestampLayout), entryType, amount.StringFixed(2), balanceAfter.StringFixed(2))
	if note != "" {
		line += "  Note: " + note
	}

	if _, err := fmt.Fprintln(f, line); err != nil {
		return errors.NewAppError(errors.InternalError, "failed to write journal entry").WithDetails(err.Error())
	}
	return nil
}

// Tail returns the most recent n lines of the account's journal, oldest
// first. The whole file is read sequentially but only n lines are retained,
// in a rotating buffer indexed by count mod n. A missing journal is an
// empty result.
func (j *FileJournal) Tail(number int64, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	f, err := os.Open(j.logPath(number))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewAppError(errors.InternalError, "failed to open journal").WithDetails(err.Error())
	}
	defer f.Close()

	ring := make([]string, n)
	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		ring[count%n] = scanner.Text()
		count++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to read journal").WithDetails(err.Error())
	}

	show := count
	if show > n {
		show = n
	}
	lines := make([]string, 0, show)
	for i := count - show; i < count; i++ {
		lines = append(lines, ring[i%n])
	}
	return lines, nil
}
