package account

import "errors"

var (
	// ErrNotFound occurs when no account matches the lookup key.
	ErrNotFound = errors.New("account not found")

	// ErrDuplicateUsername occurs when the username is already registered.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrDuplicateEmail occurs when the email is already registered.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrDuplicateAddress occurs when a freshly generated wallet address
	// collides with an existing one. Creation retries with a new address.
	ErrDuplicateAddress = errors.New("wallet address already exists")

	// ErrInsufficientBalance occurs when a guarded balance update would take
	// any balance below zero. No balance is changed.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidCredentials occurs when login credentials do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
