package repository

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"branch-atm/internal/domain"
	"branch-atm/internal/errors"
)

// FileStore persists accounts as an unordered flat sequence of fixed-width
// records in a single file. Every operation opens the file, scans from the
// start, and closes it before returning; there is no index and no cache.
// Linear scans are fine here: the account population is small and every
// operation is human-paced.
//
// The mutex serializes all operations. The original design assumed exactly
// one operator at a time; the lock makes that assumption explicit instead of
// leaving the scan-then-rewrite sequence in Update open to interleaving.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger,
	}
}

var _ domain.AccountRepository = (*FileStore)(nil)

// Lookup scans for the record with the given account number. By the
// unique-key invariant the first match is the only one.
func (s *FileStore) Lookup(number int64) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.scan(number)
}

// Update rewrites the record with the matching account number in place at
// its original offset. All other records are untouched. Callers must not
// update a record that has never been appended.
func (s *FileStore) Update(account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_RDWR, 0o644)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.ErrAccountNotFound
		}
		return errors.NewAppError(errors.PersistFailure, "failed to open account store").WithDetails(err.Error())
	}
	defer f.Close()

	buf := make([]byte, RecordSize)
	var offset int64
	for {
		if _, err := io.ReadFull(f, buf); err != nil {
			if err == io.EOF {
				s.logger.Warn("No account found to update", "account_number", account.Number)
				return errors.ErrAccountNotFound
			}
			return errors.NewAppError(errors.InternalError, "failed to read account store").WithDetails(err.Error())
		}
		rec := unmarshalRecord(buf)
		if rec.Number == account.Number {
			if _, err := f.WriteAt(marshalRecord(account), offset); err != nil {
				s.logger.Error("Failed to rewrite account record", "account_number", account.Number, "error", err)
				return errors.NewAppError(errors.PersistFailure, "failed to rewrite account record").WithDetails(err.Error())
			}
			return nil
		}
		offset += RecordSize
	}
}

// Append writes a new record at the end of the file, creating the file on
// first use. Key uniqueness is the caller's responsibility.
func (s *FileStore) Append(account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return errors.NewAppError(errors.PersistFailure, "failed to open account store").WithDetails(err.Error())
	}
	defer f.Close()

	if _, err := f.Write(marshalRecord(account)); err != nil {
		s.logger.Error("Failed to append account record", "account_number", account.Number, "error", err)
		return errors.NewAppError(errors.PersistFailure, "failed to append account record").WithDetails(err.Error())
	}
	return nil
}

// Exists reports whether a record with the given account number is stored.
func (s *FileStore) Exists(number int64) (bool, error) {
	_, err := s.Lookup(number)
	if err != nil {
		if errors.Is(err, errors.ErrAccountNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListAll returns every account in storage (append) order. Each call is a
// fresh scan; a missing store file is an empty result, not an error.
func (s *FileStore) ListAll() ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewAppError(errors.InternalError, "failed to open account store").WithDetails(err.Error())
	}
	defer f.Close()

	var accounts []domain.Account
	buf := make([]byte, RecordSize)
	for {
		if _, err := io.ReadFull(f, buf); err != nil {
			if err == io.EOF {
				return accounts, nil
			}
			return nil, errors.NewAppError(errors.InternalError, "failed to read account store").WithDetails(err.Error())
		}
		accounts = append(accounts, unmarshalRecord(buf))
	}
}

// scan reads records from the start until one matches.
func (s *FileStore) scan(number int64) (*domain.Account, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrAccountNotFound
		}
		return nil, errors.NewAppError(errors.InternalError, "failed to open account store").WithDetails(err.Error())
	}
	defer f.Close()

	buf := make([]byte, RecordSize)
	for {
		if _, err := io.ReadFull(f, buf); err != nil {
			if err == io.EOF {
				return nil, errors.ErrAccountNotFound
			}
			return nil, errors.NewAppError(errors.InternalError, "failed to read account store").WithDetails(err.Error())
		}
		rec := unmarshalRecord(buf)
		if rec.Number == number {
			return &rec, nil
		}
	}
}
