package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// MaxAccountNumber is the largest account number the record store can key:
// record keys are 4 bytes wide on disk. Numbers outside [1, MaxAccountNumber]
// must be rejected before they reach a repository.
const MaxAccountNumber = math.MaxUint32

// Account is one holder's identity and financial state. Number is assigned
// at creation and immutable; PinHash is a lowercase SHA-256 hex digest and
// is only ever replaced wholesale.
type Account struct {
	Number         int64           `json:"account_number"`
	Name           string          `json:"name"`
	PinHash        string          `json:"-"`
	Balance        decimal.Decimal `json:"balance"`
	FailedAttempts int             `json:"failed_attempts"`
	Locked         bool            `json:"locked"`
}

// AccountRepository is the record store contract. Implementations scan an
// unordered flat sequence of records; ListAll returns a fresh scan in
// append order on every call.
type AccountRepository interface {
	Lookup(number int64) (*Account, error)
	Update(account *Account) error
	Append(account *Account) error
	Exists(number int64) (bool, error)
	ListAll() ([]Account, error)
}
