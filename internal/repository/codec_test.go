package repository

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"branch-atm/internal/domain"
)

func TestRecordCodec(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		in := domain.Account{
			Number:         1001,
			Name:           "Alice",
			PinHash:        "03ac674216f3e15c761ee1a5e255f067953623c8b388b4459e13f978d7c846f4",
			Balance:        decimal.RequireFromString("5000.25"),
			FailedAttempts: 2,
			Locked:         true,
		}

		buf := marshalRecord(&in)
		require.Len(t, buf, RecordSize)

		out := unmarshalRecord(buf)
		assert.Equal(t, in.Number, out.Number)
		assert.Equal(t, in.Name, out.Name)
		assert.Equal(t, in.PinHash, out.PinHash)
		assert.True(t, in.Balance.Equal(out.Balance), "balance %s != %s", in.Balance, out.Balance)
		assert.Equal(t, in.FailedAttempts, out.FailedAttempts)
		assert.Equal(t, in.Locked, out.Locked)
	})

	t.Run("maximum key survives the 4-byte field", func(t *testing.T) {
		in := domain.Account{Number: domain.MaxAccountNumber, Name: "Max"}

		out := unmarshalRecord(marshalRecord(&in))
		assert.Equal(t, int64(domain.MaxAccountNumber), out.Number)
	})

	t.Run("long name truncated with terminator", func(t *testing.T) {
		in := domain.Account{
			Number: 7,
			Name:   strings.Repeat("x", 80),
		}

		out := unmarshalRecord(marshalRecord(&in))
		assert.Equal(t, strings.Repeat("x", nameSize-1), out.Name)
	})

	t.Run("name padded with NULs", func(t *testing.T) {
		in := domain.Account{Number: 8, Name: "Bo"}

		buf := marshalRecord(&in)
		// everything after the name bytes inside the field must be NUL
		for i := 4 + len(in.Name); i < 4+nameSize; i++ {
			assert.Zero(t, buf[i], "byte %d not padded", i)
		}
		assert.Equal(t, "Bo", unmarshalRecord(buf).Name)
	})

	t.Run("zero value account", func(t *testing.T) {
		out := unmarshalRecord(marshalRecord(&domain.Account{}))
		assert.Zero(t, out.Number)
		assert.Empty(t, out.Name)
		assert.True(t, out.Balance.IsZero())
		assert.False(t, out.Locked)
	})
}
