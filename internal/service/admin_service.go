package service

import (
	"crypto/subtle"
	"log/slog"

	"github.com/shopspring/decimal"

	"branch-atm/internal/domain"
	"branch-atm/internal/errors"
	"branch-atm/internal/hash"
)

// AdminService holds the privileged operations: account creation, listing,
// unlock, and PIN reset. Admin access is a single shared secret, verified by
// digest comparison; there is no per-admin identity or rate limiting — admin
// access is an out-of-band trust boundary.
type AdminService struct {
	repo        domain.AccountRepository
	adminDigest string
	logger      *slog.Logger
}

func NewAdminService(repo domain.AccountRepository, adminDigest string, logger *slog.Logger) *AdminService {
	return &AdminService{
		repo:        repo,
		adminDigest: adminDigest,
		logger:      logger,
	}
}

// Authenticate checks the shared administrator password.
func (s *AdminService) Authenticate(password string) (bool, error) {
	digest, err := hash.Digest(password)
	if err != nil {
		return false, err
	}
	ok := subtle.ConstantTimeCompare([]byte(digest), []byte(s.adminDigest)) == 1
	if !ok {
		s.logger.Warn("Admin authentication failed")
	}
	return ok, nil
}

// CreateAccount appends a new account record. The account number must be
// positive, within the record key range, and unused; the PIN must meet the
// minimum length. New accounts start unlocked with zero failed attempts.
func (s *AdminService) CreateAccount(number int64, name, pin string, initialBalance decimal.Decimal) (*domain.Account, error) {
	// keys wider than the 4-byte record field would wrap on disk and
	// collide with an existing account
	if number <= 0 || number > domain.MaxAccountNumber {
		return nil, errors.ErrInvalidNumber
	}

	exists, err := s.repo.Exists(number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.ErrAlreadyExists
	}
	if len(pin) < minPinLength {
		return nil, errors.ErrPinTooShort
	}
	if initialBalance.IsNegative() {
		return nil, errors.ErrInvalidAmount
	}

	digest, err := hash.Digest(pin)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Number:         number,
		Name:           name,
		PinHash:        digest,
		Balance:        initialBalance,
		FailedAttempts: 0,
		Locked:         false,
	}
	if err := s.repo.Append(account); err != nil {
		return nil, err
	}

	s.logger.Info("Account created", "account_number", number, "name", name, "initial_balance", initialBalance)
	return account, nil
}

// SeedDemoAccounts creates the demo account pair for first-run bootstrap,
// skipping any number already present so an existing store is never
// disturbed.
func (s *AdminService) SeedDemoAccounts() error {
	seeds := []struct {
		number  int64
		name    string
		pin     string
		balance decimal.Decimal
	}{
		{1001, "Alice", "1234", decimal.NewFromInt(5000)},
		{1002, "Bob", "4321", decimal.NewFromInt(3000)},
	}
	for _, seed := range seeds {
		exists, err := s.repo.Exists(seed.number)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := s.CreateAccount(seed.number, seed.name, seed.pin, seed.balance); err != nil {
			return err
		}
	}
	return nil
}

// ListAccounts returns every stored account in creation order.
func (s *AdminService) ListAccounts() ([]domain.Account, error) {
	return s.repo.ListAll()
}

// Unlock clears the lock and the failed-attempt counter, restoring login
// capability.
func (s *AdminService) Unlock(number int64) error {
	account, err := s.repo.Lookup(number)
	if err != nil {
		return err
	}

	account.Locked = false
	account.FailedAttempts = 0
	if err := s.repo.Update(account); err != nil {
		return err
	}

	s.logger.Info("Account unlocked", "account_number", number)
	return nil
}

// ResetPin replaces the stored digest with that of a new PIN and clears any
// lockout state.
func (s *AdminService) ResetPin(number int64, newPin string) error {
	account, err := s.repo.Lookup(number)
	if err != nil {
		return err
	}
	if len(newPin) < minPinLength {
		return errors.ErrPinTooShort
	}

	digest, err := hash.Digest(newPin)
	if err != nil {
		return err
	}

	account.PinHash = digest
	account.FailedAttempts = 0
	account.Locked = false
	if err := s.repo.Update(account); err != nil {
		return err
	}

	s.logger.Info("PIN reset", "account_number", number)
	return nil
}
