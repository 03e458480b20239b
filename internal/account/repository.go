package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/athirchat/athirchat/internal/money"
)

// Repository persists accounts and password reset requests.
type Repository interface {
	Create(ctx context.Context, account Account) error
	FindByID(ctx context.Context, id string) (Account, error)
	FindByUsername(ctx context.Context, username string) (Account, error)
	FindByEmail(ctx context.Context, email string) (Account, error)
	FindByUsernameOrEmail(ctx context.Context, identifier string) (Account, error)
	FindByWalletAddress(ctx context.Context, address string) (Account, error)
	// UpdateBalances applies the delta set in a single atomic update. It
	// returns ErrInsufficientBalance, with no change, if any balance would
	// go negative.
	UpdateBalances(ctx context.Context, id string, deltas BalanceDeltas) (Balances, error)

	CreateResetRequest(ctx context.Context, req PasswordResetRequest) error
	ListResetRequests(ctx context.Context) ([]PasswordResetRequest, error)
	UpdateResetStatus(ctx context.Context, id, status string) error
}

const pgUniqueViolation = "23505"

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed account repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Migrate creates the account tables if they do not exist.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            username VARCHAR(255) NOT NULL,
            email VARCHAR(255) NOT NULL,
            password_hash TEXT NOT NULL,
            full_name VARCHAR(255) NOT NULL DEFAULT '',
            birth_date TIMESTAMPTZ,
            gender VARCHAR(50) NOT NULL DEFAULT '',
            wallet_address VARCHAR(25) NOT NULL,
            usd_balance NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (usd_balance >= 0),
            syp_balance NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (syp_balance >= 0),
            athr_balance NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (athr_balance >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            CONSTRAINT users_username_key UNIQUE (username),
            CONSTRAINT users_email_key UNIQUE (email),
            CONSTRAINT users_wallet_address_key UNIQUE (wallet_address)
        );`,
		`CREATE TABLE IF NOT EXISTS password_reset_requests (
            id UUID PRIMARY KEY,
            email TEXT NOT NULL,
            code TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate accounts: %w", err)
		}
	}
	return nil
}

const accountColumns = `id, username, email, password_hash, full_name,
    COALESCE(birth_date, 'epoch'::timestamptz), gender, wallet_address,
    usd_balance::text, syp_balance::text, athr_balance::text, created_at`

// Create inserts a new account row.
func (r *PostgresRepository) Create(ctx context.Context, a Account) error {
	id, err := uuid.Parse(a.ID)
	if err != nil {
		return err
	}
	var birth *time.Time
	if !a.BirthDate.IsZero() {
		b := a.BirthDate.UTC()
		birth = &b
	}
	_, err = r.db.Exec(ctx, `INSERT INTO users
        (id, username, email, password_hash, full_name, birth_date, gender, wallet_address,
         usd_balance, syp_balance, athr_balance, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::numeric, $10::numeric, $11::numeric, $12)`,
		id, a.Username, a.Email, a.PasswordHash, a.FullName, birth, a.Gender, a.WalletAddress,
		a.UsdBalance.StringFixed(2), a.SypBalance.StringFixed(2), a.AthrBalance.StringFixed(2),
		a.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			switch pgErr.ConstraintName {
			case "users_username_key":
				return ErrDuplicateUsername
			case "users_email_key":
				return ErrDuplicateEmail
			case "users_wallet_address_key":
				return ErrDuplicateAddress
			}
		}
		return err
	}
	return nil
}

// FindByID fetches an account by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Account, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return Account{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE id = $1`, accountID)
	return scanAccount(row)
}

// FindByUsername fetches an account by username.
func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE username = $1`, username)
	return scanAccount(row)
}

// FindByEmail fetches an account by email address.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE email = $1`, email)
	return scanAccount(row)
}

// FindByUsernameOrEmail fetches an account matching the identifier as either
// username or email.
func (r *PostgresRepository) FindByUsernameOrEmail(ctx context.Context, identifier string) (Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM users
        WHERE username = $1 OR email = $1 LIMIT 1`, identifier)
	return scanAccount(row)
}

// FindByWalletAddress fetches the account holding the given wallet address.
func (r *PostgresRepository) FindByWalletAddress(ctx context.Context, address string) (Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE wallet_address = $1`, address)
	return scanAccount(row)
}

// UpdateBalances applies all provided deltas in one UPDATE whose WHERE
// clause guards every touched balance against going negative, so the
// read-modify-write race cannot occur and failure leaves no partial effect.
func (r *PostgresRepository) UpdateBalances(ctx context.Context, id string, deltas BalanceDeltas) (Balances, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return Balances{}, ErrNotFound
	}
	if len(deltas) == 0 {
		return Balances{}, fmt.Errorf("no balance deltas provided")
	}

	sets := make([]string, 0, len(deltas))
	conds := []string{"id = $1"}
	args := []any{accountID}
	for _, c := range []money.Currency{money.USD, money.SYP, money.ATHR} {
		delta, ok := deltas[c]
		if !ok {
			continue
		}
		args = append(args, delta.StringFixed(2))
		n := len(args)
		col := balanceColumn(c)
		sets = append(sets, fmt.Sprintf("%s = %s + $%d::numeric", col, col, n))
		conds = append(conds, fmt.Sprintf("%s + $%d::numeric >= 0", col, n))
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE %s
        RETURNING usd_balance::text, syp_balance::text, athr_balance::text`,
		strings.Join(sets, ", "), strings.Join(conds, " AND "))

	var usd, syp, athr string
	if err := r.db.QueryRow(ctx, query, args...).Scan(&usd, &syp, &athr); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Guard rejected or no such account; disambiguate.
			var exists bool
			if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, accountID).Scan(&exists); err != nil {
				return Balances{}, err
			}
			if exists {
				return Balances{}, ErrInsufficientBalance
			}
			return Balances{}, ErrNotFound
		}
		return Balances{}, err
	}
	return parseBalances(usd, syp, athr)
}

// CreateResetRequest inserts a password reset request.
func (r *PostgresRepository) CreateResetRequest(ctx context.Context, req PasswordResetRequest) error {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO password_reset_requests (id, email, code, status, created_at)
        VALUES ($1, $2, $3, $4, $5)`, id, req.Email, req.Code, req.Status, req.CreatedAt.UTC())
	return err
}

// ListResetRequests returns all reset requests, newest first.
func (r *PostgresRepository) ListResetRequests(ctx context.Context) ([]PasswordResetRequest, error) {
	rows, err := r.db.Query(ctx, `SELECT id, email, code, status, created_at
        FROM password_reset_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PasswordResetRequest
	for rows.Next() {
		var req PasswordResetRequest
		var id uuid.UUID
		if err := rows.Scan(&id, &req.Email, &req.Code, &req.Status, &req.CreatedAt); err != nil {
			return nil, err
		}
		req.ID = id.String()
		req.CreatedAt = req.CreatedAt.UTC()
		out = append(out, req)
	}
	return out, rows.Err()
}

// UpdateResetStatus transitions a reset request to the given status.
func (r *PostgresRepository) UpdateResetStatus(ctx context.Context, id, status string) error {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE password_reset_requests SET status = $1 WHERE id = $2`, status, reqID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func balanceColumn(c money.Currency) string {
	switch c {
	case money.USD:
		return "usd_balance"
	case money.SYP:
		return "syp_balance"
	default:
		return "athr_balance"
	}
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		a         Account
		id        uuid.UUID
		birth     time.Time
		usd, syp  string
		athr      string
		createdAt time.Time
	)
	if err := row.Scan(&id, &a.Username, &a.Email, &a.PasswordHash, &a.FullName,
		&birth, &a.Gender, &a.WalletAddress, &usd, &syp, &athr, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	a.ID = id.String()
	if birth.Unix() != 0 {
		a.BirthDate = birth.UTC()
	}
	a.CreatedAt = createdAt.UTC()
	balances, err := parseBalances(usd, syp, athr)
	if err != nil {
		return Account{}, err
	}
	a.UsdBalance, a.SypBalance, a.AthrBalance = balances.USD, balances.SYP, balances.ATHR
	return a, nil
}

func parseBalances(usd, syp, athr string) (Balances, error) {
	var (
		b   Balances
		err error
	)
	if b.USD, err = decimal.NewFromString(usd); err != nil {
		return Balances{}, fmt.Errorf("parse usd balance: %w", err)
	}
	if b.SYP, err = decimal.NewFromString(syp); err != nil {
		return Balances{}, fmt.Errorf("parse syp balance: %w", err)
	}
	if b.ATHR, err = decimal.NewFromString(athr); err != nil {
		return Balances{}, fmt.Errorf("parse athr balance: %w", err)
	}
	return b, nil
}
