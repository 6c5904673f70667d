package domain

import "errors"

var (
	// ErrUsernameEmpty is returned when a username is blank after trimming.
	ErrUsernameEmpty = errors.New("username must not be empty")
	// ErrUsernameHasDelimiter rejects usernames containing the CSV delimiter.
	ErrUsernameHasDelimiter = errors.New("username must not contain commas")
	// ErrPasswordTooShort rejects passwords under four characters.
	ErrPasswordTooShort = errors.New("password must be at least 4 characters long")
	// ErrPasswordHasDelimiter rejects passwords containing the CSV delimiter.
	ErrPasswordHasDelimiter = errors.New("password must not contain commas")
	// ErrAccountExists indicates a registration attempt for a taken username.
	ErrAccountExists = errors.New("username already registered")
	// ErrInvalidQuestion indicates a question with empty fields or a bad correct index.
	ErrInvalidQuestion = errors.New("question has empty fields or invalid correct option")
	// ErrQuestionSetNotFound indicates the requested seed set is absent.
	ErrQuestionSetNotFound = errors.New("question set not found")
)
