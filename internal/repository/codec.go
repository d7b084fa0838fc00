package repository

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/shopspring/decimal"

	"branch-atm/internal/domain"
	"branch-atm/internal/hash"
)

// On-disk record layout, little-endian, no header and no padding between
// fields:
//
//	offset  0: account number, uint32
//	offset  4: holder name, nameSize bytes, NUL-terminated and NUL-padded
//	offset 54: PIN digest, 64 lowercase hex chars + NUL
//	offset 119: balance, float64 bits
//	offset 127: failed attempts, uint32
//	offset 131: locked flag, uint32 (0 or 1)
//
// Any change here is a full-file migration; there is no version field.
const (
	nameSize   = 50
	digestSize = hash.HexLen + 1

	// RecordSize is the fixed width of one account record.
	RecordSize = 4 + nameSize + digestSize + 8 + 4 + 4
)

// marshalRecord encodes an account into its fixed-width form. Names longer
// than nameSize-1 bytes are truncated so the NUL terminator always fits.
func marshalRecord(a *domain.Account) []byte {
	buf := make([]byte, RecordSize)

	binary.LittleEndian.PutUint32(buf[0:4], uint32(a.Number))

	name := a.Name
	if len(name) > nameSize-1 {
		name = name[:nameSize-1]
	}
	copy(buf[4:4+nameSize], name)

	digest := a.PinHash
	if len(digest) > digestSize-1 {
		digest = digest[:digestSize-1]
	}
	copy(buf[4+nameSize:4+nameSize+digestSize], digest)

	off := 4 + nameSize + digestSize
	binary.LittleEndian.PutUint64(buf[off:off+8], math.Float64bits(a.Balance.InexactFloat64()))
	binary.LittleEndian.PutUint32(buf[off+8:off+12], uint32(a.FailedAttempts))

	var locked uint32
	if a.Locked {
		locked = 1
	}
	binary.LittleEndian.PutUint32(buf[off+12:off+16], locked)

	return buf
}

// unmarshalRecord decodes one fixed-width record. buf must be RecordSize
// bytes.
func unmarshalRecord(buf []byte) domain.Account {
	off := 4 + nameSize + digestSize
	return domain.Account{
		Number:         int64(binary.LittleEndian.Uint32(buf[0:4])),
		Name:           cString(buf[4 : 4+nameSize]),
		PinHash:        cString(buf[4+nameSize : 4+nameSize+digestSize]),
		Balance:        decimal.NewFromFloat(math.Float64frombits(binary.LittleEndian.Uint64(buf[off : off+8]))),
		FailedAttempts: int(binary.LittleEndian.Uint32(buf[off+8 : off+12])),
		Locked:         binary.LittleEndian.Uint32(buf[off+12:off+16]) != 0,
	}
}

// cString returns the bytes up to the first NUL.
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
