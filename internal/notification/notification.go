package notification

import (
	"errors"
	"time"
)

// TypeWallet tags notifications emitted by ledger operations.
const TypeWallet = "wallet"

// ErrNotFound occurs when no notification matches the identifier.
var ErrNotFound = errors.New("notification not found")

// Notification is an append-only per-account event record. Only the read
// flag ever changes after creation.
type Notification struct {
	ID          string
	AccountID   string
	Type        string
	Title       string
	Description string
	Read        bool
	CreatedAt   time.Time
}
