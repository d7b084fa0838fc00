package repository

import (
	"sync"

	"branch-atm/internal/domain"
	"branch-atm/internal/errors"
)

// MemoryStore is an in-memory AccountRepository with the same contract as
// FileStore, including append-order listing. It backs the engine tests and
// any deployment that does not need persistence.
type MemoryStore struct {
	mu       sync.Mutex
	accounts []domain.Account

	// Forced Update failures, for exercising the engines' persist-error
	// paths in tests. FailUpdates fails every update; FailAfter > 0 lets
	// that many updates succeed and fails the rest.
	// FailNumbers fails updates for specific account numbers only.
	FailUpdates bool
	FailAfter   int
	FailNumbers map[int64]bool
	updates     int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

var _ domain.AccountRepository = (*MemoryStore)(nil)

func (s *MemoryStore) Lookup(number int64) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.accounts {
		if s.accounts[i].Number == number {
			a := s.accounts[i]
			return &a, nil
		}
	}
	return nil, errors.ErrAccountNotFound
}

func (s *MemoryStore) Update(account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updates++
	if s.FailUpdates || s.FailNumbers[account.Number] || (s.FailAfter > 0 && s.updates > s.FailAfter) {
		return errors.NewAppError(errors.PersistFailure, "failed to rewrite account record")
	}
	for i := range s.accounts {
		if s.accounts[i].Number == account.Number {
			s.accounts[i] = *account
			return nil
		}
	}
	return errors.ErrAccountNotFound
}

func (s *MemoryStore) Append(account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = append(s.accounts, *account)
	return nil
}

func (s *MemoryStore) Exists(number int64) (bool, error) {
	_, err := s.Lookup(number)
	if err != nil {
		if errors.Is(err, errors.ErrAccountNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *MemoryStore) ListAll() ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Account, len(s.accounts))
	copy(out, s.accounts)
	return out, nil
}
