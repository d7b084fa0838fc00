package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"branch-atm/internal/errors"
)

// HexLen is the length of a digest as stored: SHA-256 in lowercase hex.
const HexLen = 64

// Digest computes the canonical lowercase hex SHA-256 of a PIN or password.
// Deterministic and unsalted: stored digests are compared byte-for-byte
// against the digest of the supplied secret. The plaintext is never retained.
func Digest(secret string) (string, error) {
	h := sha256.New()
	if _, err := io.WriteString(h, secret); err != nil {
		return "", errors.NewAppError(errors.HashFailure, "failed to compute digest").WithDetails(err.Error())
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
