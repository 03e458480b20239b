package account

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Onboarding grant credited to every new account at registration.
var (
	openingUSD  = decimal.NewFromInt(1000)
	openingSYP  = decimal.NewFromInt(5_500_000)
	openingATHR = decimal.NewFromInt(15_250)
)

const (
	minPasswordLength    = 6
	addressCreateRetries = 5
)

// Service manages account lifecycle: registration, authentication and
// password reset requests. Balance mutation belongs to the ledger engine.
type Service struct {
	repo Repository
}

// NewService creates a new account service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates an account with hashed credentials, a fresh wallet
// address and the fixed onboarding balances. Address collisions are retried
// with a newly generated address.
func (s *Service) Register(ctx context.Context, reg Registration) (Account, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Username == "" || reg.Email == "" {
		return Account{}, errors.New("username and email are required")
	}
	if !strings.Contains(reg.Email, "@") {
		return Account{}, errors.New("invalid email address")
	}
	if len(reg.Password) < minPasswordLength {
		return Account{}, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	var birth time.Time
	if reg.Birthday != "" {
		parsed, err := time.Parse("2006-01-02", reg.Birthday)
		if err != nil {
			return Account{}, errors.New("birthday must be YYYY-MM-DD")
		}
		birth = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}

	a := Account{
		ID:           uuid.New().String(),
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(reg.FullName),
		BirthDate:    birth,
		Gender:       strings.TrimSpace(reg.Sex),
		UsdBalance:   openingUSD,
		SypBalance:   openingSYP,
		AthrBalance:  openingATHR,
		CreatedAt:    time.Now().UTC(),
	}

	for attempt := 0; attempt < addressCreateRetries; attempt++ {
		addr, err := NewWalletAddress()
		if err != nil {
			return Account{}, err
		}
		a.WalletAddress = addr

		err = s.repo.Create(ctx, a)
		if errors.Is(err, ErrDuplicateAddress) {
			continue
		}
		if err != nil {
			return Account{}, err
		}
		return a, nil
	}
	return Account{}, errors.New("could not allocate a unique wallet address")
}

// Authenticate verifies the identifier (username or email) and password.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (Account, error) {
	if identifier == "" || password == "" {
		return Account{}, ErrInvalidCredentials
	}
	a, err := s.repo.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, err
	}
	if err := bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)); err != nil {
		return Account{}, ErrInvalidCredentials
	}
	return a, nil
}

// Get fetches an account by ID.
func (s *Service) Get(ctx context.Context, id string) (Account, error) {
	return s.repo.FindByID(ctx, id)
}

// RequestPasswordReset records a pending reset request with a 6-digit code
// for the admin to relay. The account must exist.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (PasswordResetRequest, error) {
	if email == "" {
		return PasswordResetRequest{}, errors.New("email is required")
	}
	if _, err := s.repo.FindByEmail(ctx, email); err != nil {
		return PasswordResetRequest{}, err
	}

	code, err := resetCode()
	if err != nil {
		return PasswordResetRequest{}, err
	}
	req := PasswordResetRequest{
		ID:        uuid.New().String(),
		Email:     email,
		Code:      code,
		Status:    ResetStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateResetRequest(ctx, req); err != nil {
		return PasswordResetRequest{}, err
	}
	return req, nil
}

// ListResetRequests returns all reset requests for the admin panel.
func (s *Service) ListResetRequests(ctx context.Context) ([]PasswordResetRequest, error) {
	return s.repo.ListResetRequests(ctx)
}

// ResolveResetRequest transitions a reset request to approved or rejected.
func (s *Service) ResolveResetRequest(ctx context.Context, id, status string) error {
	if status != ResetStatusApproved && status != ResetStatusRejected {
		return fmt.Errorf("status must be %q or %q", ResetStatusApproved, ResetStatusRejected)
	}
	return s.repo.UpdateResetStatus(ctx, id, status)
}

func resetCode() (string, error) {
	// 6 digits, 100000..999999.
	n, err := rand.Int(rand.Reader, big.NewInt(900_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100_000), nil
}
