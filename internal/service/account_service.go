package service

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"branch-atm/internal/domain"
	"branch-atm/internal/errors"
	"branch-atm/internal/hash"
)

const (
	maxFailedAttempts = 3
	minPinLength      = 4
)

// AccountService is the holder-facing engine: login with lockout, balance
// mutations, PIN change. Every mutating operation validates first, mutates a
// copy, persists, and only then journals; a journal failure never rolls back
// the persisted mutation.
type AccountService struct {
	repo    domain.AccountRepository
	journal domain.TransactionJournal
	logger  *slog.Logger
}

func NewAccountService(
	repo domain.AccountRepository,
	journal domain.TransactionJournal,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		repo:    repo,
		journal: journal,
		logger:  logger,
	}
}

// Login verifies the PIN for an account. A wrong PIN increments the failed
// attempt counter and persists it before the refusal is returned, so the
// attempt survives a process exit; the third consecutive failure locks the
// account. A locked account refuses login unconditionally, with no counter
// change. A correct PIN resets the counter.
func (s *AccountService) Login(number int64, pin string) (*domain.Account, error) {
	account, err := s.repo.Lookup(number)
	if err != nil {
		return nil, err
	}

	if account.Locked {
		s.logger.Warn("Login refused for locked account", "account_number", number)
		return nil, errors.ErrLocked
	}

	digest, err := hash.Digest(pin)
	if err != nil {
		return nil, err
	}

	if digest != account.PinHash {
		account.FailedAttempts++
		if account.FailedAttempts >= maxFailedAttempts {
			account.Locked = true
		}
		if err := s.repo.Update(account); err != nil {
			s.logger.Error("Failed to persist failed login attempt", "account_number", number, "error", err)
		}
		if account.Locked {
			s.logger.Warn("Account locked after failed PIN attempts", "account_number", number, "attempts", account.FailedAttempts)
			return nil, errors.NewAppErrorf(errors.WrongPin, "incorrect PIN, account locked after %d failed attempts", maxFailedAttempts)
		}
		remaining := maxFailedAttempts - account.FailedAttempts
		s.logger.Warn("Failed PIN attempt", "account_number", number, "attempts", account.FailedAttempts, "max", maxFailedAttempts)
		return nil, errors.NewAppErrorf(errors.WrongPin, "incorrect PIN, %d attempt(s) remaining", remaining)
	}

	if account.FailedAttempts != 0 {
		account.FailedAttempts = 0
		if err := s.repo.Update(account); err != nil {
			s.logger.Error("Failed to reset failed attempts", "account_number", number, "error", err)
		}
	}

	s.logger.Info("Login successful", "account_number", number, "name", account.Name)
	return account, nil
}

// Deposit adds a positive amount to the balance, persists, and journals.
// The input account is not mutated; on persist failure the caller's view is
// unchanged and should be reloaded.
func (s *AccountService) Deposit(account *domain.Account, amount decimal.Decimal) (*domain.Account, error) {
	if !amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}

	updated := *account
	updated.Balance = account.Balance.Add(amount)
	if err := s.repo.Update(&updated); err != nil {
		return nil, err
	}

	s.journalEntry(updated.Number, domain.EntryDeposit, amount, updated.Balance, "")
	s.logger.Info("Deposit completed", "account_number", updated.Number, "amount", amount, "balance", updated.Balance)
	return &updated, nil
}

// Withdraw removes a positive amount no greater than the balance. The
// balance check happens before any mutation; an overdraw is refused, never
// clamped.
func (s *AccountService) Withdraw(account *domain.Account, amount decimal.Decimal) (*domain.Account, error) {
	if !amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}
	if amount.GreaterThan(account.Balance) {
		return nil, errors.ErrInsufficientFunds
	}

	updated := *account
	updated.Balance = account.Balance.Sub(amount)
	if err := s.repo.Update(&updated); err != nil {
		return nil, err
	}

	s.journalEntry(updated.Number, domain.EntryWithdraw, amount, updated.Balance, "")
	s.logger.Info("Withdrawal completed", "account_number", updated.Number, "amount", amount, "balance", updated.Balance)
	return &updated, nil
}

// ChangePin replaces the stored digest after verifying the current PIN,
// requiring the confirmation to match, and enforcing the minimum length.
func (s *AccountService) ChangePin(account *domain.Account, oldPin, newPin, confirmPin string) (*domain.Account, error) {
	oldDigest, err := hash.Digest(oldPin)
	if err != nil {
		return nil, err
	}
	if oldDigest != account.PinHash {
		return nil, errors.ErrWrongPin
	}
	if newPin != confirmPin {
		return nil, errors.ErrPinMismatch
	}
	if len(newPin) < minPinLength {
		return nil, errors.ErrPinTooShort
	}

	newDigest, err := hash.Digest(newPin)
	if err != nil {
		return nil, err
	}

	updated := *account
	updated.PinHash = newDigest
	if err := s.repo.Update(&updated); err != nil {
		return nil, err
	}

	s.journalEntry(updated.Number, domain.EntryPinChange, decimal.Zero, updated.Balance, "PIN updated")
	s.logger.Info("PIN changed", "account_number", updated.Number)
	return &updated, nil
}

// Transfer debits the sender and credits the target, persisting sender
// first. If the target persist fails the sender's debit is compensated by
// restoring its previous balance; if that compensation also fails the store
// is left inconsistent and the error says so, so an operator can reconcile.
func (s *AccountService) Transfer(sender *domain.Account, targetNumber int64, amount decimal.Decimal) (*domain.Account, *domain.Account, error) {
	transferID := uuid.New()
	s.logger.Info("Processing transfer",
		"transfer_id", transferID,
		"source_account", sender.Number,
		"target_account", targetNumber,
		"amount", amount)

	if targetNumber == sender.Number {
		return nil, nil, errors.ErrSameAccount
	}

	target, err := s.repo.Lookup(targetNumber)
	if err != nil {
		return nil, nil, err
	}
	if target.Locked {
		return nil, nil, errors.ErrTargetLocked
	}
	if !amount.IsPositive() {
		return nil, nil, errors.ErrInvalidAmount
	}
	if amount.GreaterThan(sender.Balance) {
		return nil, nil, errors.ErrInsufficientFunds
	}

	updatedSender := *sender
	updatedSender.Balance = sender.Balance.Sub(amount)
	updatedTarget := *target
	updatedTarget.Balance = target.Balance.Add(amount)

	if err := s.repo.Update(&updatedSender); err != nil {
		return nil, nil, err
	}
	if err := s.repo.Update(&updatedTarget); err != nil {
		s.logger.Error("Target persist failed, compensating sender",
			"transfer_id", transferID, "target_account", targetNumber, "error", err)
		if rbErr := s.repo.Update(sender); rbErr != nil {
			s.logger.Error("Compensation failed, store inconsistent",
				"transfer_id", transferID, "source_account", sender.Number, "error", rbErr)
			return nil, nil, errors.NewAppErrorf(errors.PartialTransferFailure,
				"sender %d debited but target %d not credited; manual reconciliation required", sender.Number, targetNumber).
				WithDetails(err.Error())
		}
		return nil, nil, err
	}

	s.journalEntry(updatedSender.Number, domain.EntryTransferOut, amount, updatedSender.Balance,
		fmt.Sprintf("to %d", updatedTarget.Number))
	s.journalEntry(updatedTarget.Number, domain.EntryTransferIn, amount, updatedTarget.Balance,
		fmt.Sprintf("from %d", updatedSender.Number))

	s.logger.Info("Transfer completed", "transfer_id", transferID,
		"source_balance", updatedSender.Balance, "target_balance", updatedTarget.Balance)
	return &updatedSender, &updatedTarget, nil
}

// MiniStatement returns the account's most recent n journal lines, oldest
// first.
func (s *AccountService) MiniStatement(number int64, n int) ([]string, error) {
	return s.journal.Tail(number, n)
}

// journalEntry appends one line best-effort. A failed write is logged and
// swallowed: the balance mutation it describes has already been persisted.
func (s *AccountService) journalEntry(number int64, entryType string, amount, balance decimal.Decimal, note string) {
	if err := s.journal.Append(number, entryType, amount, balance, note); err != nil {
		s.logger.Warn("Journal write failed", "account_number", number, "type", entryType, "error", err)
	}
}
