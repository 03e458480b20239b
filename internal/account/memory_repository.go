package account

import (
	"context"
	"sort"
	"sync"

	"github.com/athirchat/athirchat/internal/money"
)

type memoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]Account
	resets   map[string]PasswordResetRequest
}

// NewMemoryRepository builds an in-memory account store for tests and
// database-less development runs.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		accounts: make(map[string]Account),
		resets:   make(map[string]PasswordResetRequest),
	}
}

func (r *memoryRepository) Create(_ context.Context, a Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		switch {
		case existing.Username == a.Username:
			return ErrDuplicateUsername
		case existing.Email == a.Email:
			return ErrDuplicateEmail
		case existing.WalletAddress == a.WalletAddress:
			return ErrDuplicateAddress
		}
	}
	r.accounts[a.ID] = a
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return a, nil
}

func (r *memoryRepository) FindByUsername(ctx context.Context, username string) (Account, error) {
	return r.findBy(func(a Account) bool { return a.Username == username })
}

func (r *memoryRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	return r.findBy(func(a Account) bool { return a.Email == email })
}

func (r *memoryRepository) FindByUsernameOrEmail(ctx context.Context, identifier string) (Account, error) {
	return r.findBy(func(a Account) bool { return a.Username == identifier || a.Email == identifier })
}

func (r *memoryRepository) FindByWalletAddress(ctx context.Context, address string) (Account, error) {
	return r.findBy(func(a Account) bool { return a.WalletAddress == address })
}

func (r *memoryRepository) findBy(match func(Account) bool) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if match(a) {
			return a, nil
		}
	}
	return Account{}, ErrNotFound
}

// UpdateBalances applies the delta set under the repository lock, checking
// every guard before mutating anything, mirroring the single-statement
// semantics of the Postgres implementation.
func (r *memoryRepository) UpdateBalances(_ context.Context, id string, deltas BalanceDeltas) (Balances, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return Balances{}, ErrNotFound
	}

	next := Balances{USD: a.UsdBalance, SYP: a.SypBalance, ATHR: a.AthrBalance}
	for _, c := range []money.Currency{money.USD, money.SYP, money.ATHR} {
		delta, present := deltas[c]
		if !present {
			continue
		}
		updated := next.Get(c).Add(money.Round2(delta))
		if updated.IsNegative() {
			return Balances{}, ErrInsufficientBalance
		}
		switch c {
		case money.USD:
			next.USD = updated
		case money.SYP:
			next.SYP = updated
		default:
			next.ATHR = updated
		}
	}

	a.UsdBalance, a.SypBalance, a.AthrBalance = next.USD, next.SYP, next.ATHR
	r.accounts[id] = a
	return next, nil
}

func (r *memoryRepository) CreateResetRequest(_ context.Context, req PasswordResetRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets[req.ID] = req
	return nil
}

func (r *memoryRepository) ListResetRequests(_ context.Context) ([]PasswordResetRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]PasswordResetRequest, 0, len(r.resets))
	for _, req := range r.resets {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepository) UpdateResetStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.resets[id]
	if !ok {
		return ErrNotFound
	}
	req.Status = status
	r.resets[id] = req
	return nil
}
