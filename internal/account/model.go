package account

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/athirchat/athirchat/internal/money"
)

// Account represents a registered user with credentials, a wallet address
// and three currency balances.
type Account struct {
	ID            string
	Username      string
	Email         string
	PasswordHash  []byte
	FullName      string
	BirthDate     time.Time
	Gender        string
	WalletAddress string
	UsdBalance    decimal.Decimal
	SypBalance    decimal.Decimal
	AthrBalance   decimal.Decimal
	CreatedAt     time.Time
}

// Balance returns the account's balance in the given currency.
func (a Account) Balance(c money.Currency) decimal.Decimal {
	switch c {
	case money.USD:
		return a.UsdBalance
	case money.SYP:
		return a.SypBalance
	default:
		return a.AthrBalance
	}
}

// Balances is the full balance set as read back from the store.
type Balances struct {
	USD  decimal.Decimal
	SYP  decimal.Decimal
	ATHR decimal.Decimal
}

// Get returns the balance for the given currency.
func (b Balances) Get(c money.Currency) decimal.Decimal {
	switch c {
	case money.USD:
		return b.USD
	case money.SYP:
		return b.SYP
	default:
		return b.ATHR
	}
}

// BalanceDeltas is a partial set of signed per-currency adjustments. Absent
// currencies are left untouched. The store applies the whole set in a single
// guarded update so no balance can go negative.
type BalanceDeltas map[money.Currency]decimal.Decimal

// Registration captures the data required to create an account.
type Registration struct {
	Username string
	Email    string
	Password string
	FullName string
	Birthday string
	Sex      string
}

// PasswordResetRequest tracks an admin-mediated password reset code.
type PasswordResetRequest struct {
	ID        string
	Email     string
	Code      string
	Status    string
	CreatedAt time.Time
}

const (
	// ResetStatusPending marks a reset request awaiting admin review.
	ResetStatusPending = "pending"
	// ResetStatusApproved marks a reset request the admin has sent out.
	ResetStatusApproved = "approved"
	// ResetStatusRejected marks a declined reset request.
	ResetStatusRejected = "rejected"
)
