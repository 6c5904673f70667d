package file

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"quizmaster/internal/domain"
)

var accountHeader = []string{"username", "password"}

// AccountStore is the CSV table of registered username/password pairs.
// Rows are appended at registration and never mutated or deleted.
type AccountStore struct {
	path string
}

func NewAccountStore(path string) *AccountStore {
	return &AccountStore{path: path}
}

// Lookup returns the password of the first row matching username exactly.
func (s *AccountStore) Lookup(username string) (string, bool, error) {
	accounts, err := s.readAll()
	if err != nil {
		return "", false, err
	}
	for _, acc := range accounts {
		if acc.Username == username {
			return acc.Password, true, nil
		}
	}
	return "", false, nil
}

// Exists reports whether a row with the given username is present.
func (s *AccountStore) Exists(username string) (bool, error) {
	_, ok, err := s.Lookup(username)
	return ok, err
}

// Append writes one account row. Validation and duplicate checks are the
// caller's responsibility.
func (s *AccountStore) Append(acc domain.Account) error {
	if err := s.ensureHeader(); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open account store: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{acc.Username, acc.Password}); err != nil {
		return fmt.Errorf("write account row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush account store: %w", err)
	}
	return nil
}

func (s *AccountStore) readAll() ([]domain.Account, error) {
	if err := s.ensureHeader(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open account store: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read account store: %w", err)
	}

	var accounts []domain.Account
	for i, record := range records {
		if i == 0 {
			continue // header
		}
		if len(record) < 2 || record[0] == "" || record[1] == "" {
			continue // ignore malformed rows
		}
		accounts = append(accounts, domain.Account{Username: record[0], Password: record[1]})
	}
	return accounts, nil
}

// ensureHeader creates the file with its header, or rewrites a legacy
// headerless file once so later appends never duplicate the header.
func (s *AccountStore) ensureHeader() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return s.rewrite(nil)
	}
	if err != nil {
		return fmt.Errorf("open account store: %w", err)
	}
	records, err := csv.NewReader(f).ReadAll()
	f.Close()
	if err != nil {
		return fmt.Errorf("read account store: %w", err)
	}

	if len(records) > 0 && isAccountHeader(records[0]) {
		return nil
	}
	return s.rewrite(records)
}

func (s *AccountStore) rewrite(rows [][]string) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create account store: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(accountHeader); err != nil {
		return fmt.Errorf("write account header: %w", err)
	}
	for _, row := range rows {
		if isAccountHeader(row) || len(row) < 2 {
			continue
		}
		if err := w.Write(row[:2]); err != nil {
			return fmt.Errorf("rewrite account row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush account store: %w", err)
	}
	return nil
}

func isAccountHeader(row []string) bool {
	return len(row) == 2 && row[0] == accountHeader[0] && row[1] == accountHeader[1]
}
