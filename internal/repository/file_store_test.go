package repository

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"branch-atm/internal/domain"
	"branch-atm/internal/errors"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.dat")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewFileStore(path, logger)
}

func testAccount(number int64, name string, balance string) *domain.Account {
	return &domain.Account{
		Number:  number,
		Name:    name,
		PinHash: "03ac674216f3e15c761ee1a5e255f067953623c8b388b4459e13f978d7c846f4",
		Balance: decimal.RequireFromString(balance),
	}
}

func TestFileStoreLookup(t *testing.T) {
	store := newTestFileStore(t)

	t.Run("missing file", func(t *testing.T) {
		_, err := store.Lookup(1001)
		assert.ErrorIs(t, err, errors.ErrAccountNotFound)
	})

	require.NoError(t, store.Append(testAccount(1001, "Alice", "5000")))
	require.NoError(t, store.Append(testAccount(1002, "Bob", "3000")))

	t.Run("finds each record", func(t *testing.T) {
		a, err := store.Lookup(1001)
		require.NoError(t, err)
		assert.Equal(t, "Alice", a.Name)

		b, err := store.Lookup(1002)
		require.NoError(t, err)
		assert.Equal(t, "Bob", b.Name)
	})

	t.Run("unknown number", func(t *testing.T) {
		_, err := store.Lookup(9999)
		assert.ErrorIs(t, err, errors.ErrAccountNotFound)
	})
}

func TestFileStoreUpdate(t *testing.T) {
	store := newTestFileStore(t)
	require.NoError(t, store.Append(testAccount(1001, "Alice", "5000")))
	require.NoError(t, store.Append(testAccount(1002, "Bob", "3000")))

	t.Run("rewrites in place", func(t *testing.T) {
		before, err := os.Stat(store.path)
		require.NoError(t, err)

		a := testAccount(1001, "Alice", "4500.50")
		a.FailedAttempts = 1
		require.NoError(t, store.Update(a))

		after, err := os.Stat(store.path)
		require.NoError(t, err)
		assert.Equal(t, before.Size(), after.Size(), "update must not grow the file")

		got, err := store.Lookup(1001)
		require.NoError(t, err)
		assert.True(t, got.Balance.Equal(decimal.RequireFromString("4500.50")))
		assert.Equal(t, 1, got.FailedAttempts)

		// neighbouring record untouched
		b, err := store.Lookup(1002)
		require.NoError(t, err)
		assert.Equal(t, "Bob", b.Name)
		assert.True(t, b.Balance.Equal(decimal.NewFromInt(3000)))
	})

	t.Run("unknown record", func(t *testing.T) {
		err := store.Update(testAccount(9999, "Ghost", "0"))
		assert.ErrorIs(t, err, errors.ErrAccountNotFound)
	})

	t.Run("missing file", func(t *testing.T) {
		empty := newTestFileStore(t)
		err := empty.Update(testAccount(1001, "Alice", "1"))
		assert.ErrorIs(t, err, errors.ErrAccountNotFound)
	})
}

func TestFileStoreExists(t *testing.T) {
	store := newTestFileStore(t)
	require.NoError(t, store.Append(testAccount(1001, "Alice", "5000")))

	ok, err := store.Exists(1001)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(4242)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreListAll(t *testing.T) {
	store := newTestFileStore(t)

	t.Run("missing file is empty", func(t *testing.T) {
		accounts, err := store.ListAll()
		require.NoError(t, err)
		assert.Empty(t, accounts)
	})

	t.Run("append order preserved", func(t *testing.T) {
		require.NoError(t, store.Append(testAccount(1003, "Carol", "10")))
		require.NoError(t, store.Append(testAccount(1001, "Alice", "20")))
		require.NoError(t, store.Append(testAccount(1002, "Bob", "30")))

		accounts, err := store.ListAll()
		require.NoError(t, err)
		require.Len(t, accounts, 3)
		assert.Equal(t, int64(1003), accounts[0].Number)
		assert.Equal(t, int64(1001), accounts[1].Number)
		assert.Equal(t, int64(1002), accounts[2].Number)
	})
}

// MemoryStore must honor the same contract the engines rely on.
func TestMemoryStoreContract(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Lookup(1001)
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)

	require.NoError(t, store.Append(testAccount(1001, "Alice", "5000")))
	require.NoError(t, store.Append(testAccount(1002, "Bob", "3000")))

	t.Run("lookup returns a copy", func(t *testing.T) {
		a, err := store.Lookup(1001)
		require.NoError(t, err)
		a.Balance = decimal.NewFromInt(1)

		again, err := store.Lookup(1001)
		require.NoError(t, err)
		assert.True(t, again.Balance.Equal(decimal.NewFromInt(5000)))
	})

	t.Run("update", func(t *testing.T) {
		a := testAccount(1001, "Alice", "123.45")
		require.NoError(t, store.Update(a))
		got, err := store.Lookup(1001)
		require.NoError(t, err)
		assert.True(t, got.Balance.Equal(decimal.RequireFromString("123.45")))

		assert.ErrorIs(t, store.Update(testAccount(9999, "Ghost", "0")), errors.ErrAccountNotFound)
	})

	t.Run("list order", func(t *testing.T) {
		accounts, err := store.ListAll()
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, int64(1001), accounts[0].Number)
		assert.Equal(t, int64(1002), accounts[1].Number)
	})

	t.Run("forced persist failure", func(t *testing.T) {
		store.FailUpdates = true
		defer func() { store.FailUpdates = false }()

		err := store.Update(testAccount(1001, "Alice", "1"))
		var appErr *errors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, errors.PersistFailure, appErr.Code)
	})
}
