package app

import (
	"strings"

	"quizmaster/internal/domain"
)

// AccountStore abstracts the persisted username/password table.
type AccountStore interface {
	Lookup(username string) (password string, ok bool, err error)
	Exists(username string) (bool, error)
	Append(acc domain.Account) error
}

// AccountService implements the login/registration flow over the store.
type AccountService struct {
	accounts AccountStore
}

func NewAccountService(accounts AccountStore) *AccountService {
	return &AccountService{accounts: accounts}
}

// ValidateUsername enforces the username rules: non-empty, no CSV delimiter.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return domain.ErrUsernameEmpty
	}
	if strings.Contains(username, ",") {
		return domain.ErrUsernameHasDelimiter
	}
	return nil
}

// ValidatePassword enforces the password rules: at least four characters,
// no CSV delimiter.
func ValidatePassword(password string) error {
	if len(password) < 4 {
		return domain.ErrPasswordTooShort
	}
	if strings.Contains(password, ",") {
		return domain.ErrPasswordHasDelimiter
	}
	return nil
}

// Authenticate reports whether a stored row matches both fields exactly.
func (s *AccountService) Authenticate(username, password string) (bool, error) {
	stored, ok, err := s.accounts.Lookup(username)
	if err != nil {
		return false, err
	}
	return ok && stored == password, nil
}

// Exists reports whether the username is already registered.
func (s *AccountService) Exists(username string) (bool, error) {
	return s.accounts.Exists(username)
}

// Register validates the credentials and appends a new account. It rejects
// usernames that already exist; retrying the login is the caller's move.
func (s *AccountService) Register(username, password string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}
	exists, err := s.accounts.Exists(username)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrAccountExists
	}
	return s.accounts.Append(domain.Account{Username: username, Password: password})
}

// GuestIdentity synthesizes the non-persisted guest identity for a declined
// registration.
func GuestIdentity(username string) domain.Identity {
	name := "guest_" + username
	return domain.Identity{Username: name, Name: name, Guest: true}
}
