package journal

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"branch-atm/internal/domain"
)

func newTestJournal(t *testing.T) *FileJournal {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewFileJournal(t.TempDir(), logger)
}

func TestAppendFormat(t *testing.T) {
	j := newTestJournal(t)

	require.NoError(t, j.Append(2001, domain.EntryDeposit, decimal.NewFromInt(50), decimal.NewFromInt(150), ""))
	require.NoError(t, j.Append(2001, domain.EntryTransferOut, decimal.RequireFromString("12.5"), decimal.RequireFromString("137.5"), "to 1002"))

	lines, err := j.Tail(2001, 10)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Regexp(t, `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] DEPOSIT    Amount: 50\.00  Balance: 150\.00$`, lines[0])
	assert.Regexp(t, `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] TRANSFER-  Amount: 12\.50  Balance: 137\.50  Note: to 1002$`, lines[1])
}

func TestAppendIsPerAccount(t *testing.T) {
	j := newTestJournal(t)

	require.NoError(t, j.Append(1001, domain.EntryWithdraw, decimal.NewFromInt(5), decimal.NewFromInt(95), ""))
	require.NoError(t, j.Append(1002, domain.EntryDeposit, decimal.NewFromInt(7), decimal.NewFromInt(107), ""))

	a, err := j.Tail(1001, 10)
	require.NoError(t, err)
	b, err := j.Tail(1002, 10)
	require.NoError(t, err)
	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
	assert.Contains(t, a[0], "WITHDRAW")
	assert.Contains(t, b[0], "DEPOSIT")

	_, err = os.Stat(filepath.Join(j.dir, "1001_log.txt"))
	assert.NoError(t, err)
}

func TestTail(t *testing.T) {
	j := newTestJournal(t)

	t.Run("missing journal", func(t *testing.T) {
		lines, err := j.Tail(4242, 5)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	for i := 1; i <= 7; i++ {
		note := fmt.Sprintf("op %d", i)
		require.NoError(t, j.Append(3001, domain.EntryDeposit, decimal.NewFromInt(int64(i)), decimal.NewFromInt(int64(i*10)), note))
	}

	t.Run("more lines than n", func(t *testing.T) {
		lines, err := j.Tail(3001, 5)
		require.NoError(t, err)
		require.Len(t, lines, 5)
		// oldest of the returned window first
		assert.Contains(t, lines[0], "op 3")
		assert.Contains(t, lines[4], "op 7")
	})

	t.Run("fewer lines than n", func(t *testing.T) {
		lines, err := j.Tail(3001, 50)
		require.NoError(t, err)
		require.Len(t, lines, 7)
		assert.Contains(t, lines[0], "op 1")
		assert.Contains(t, lines[6], "op 7")
	})

	t.Run("exactly n lines", func(t *testing.T) {
		lines, err := j.Tail(3001, 7)
		require.NoError(t, err)
		require.Len(t, lines, 7)
		assert.Contains(t, lines[0], "op 1")
	})

	t.Run("non-positive n", func(t *testing.T) {
		lines, err := j.Tail(3001, 0)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}
