package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists notifications.
type Repository interface {
	Create(ctx context.Context, n Notification) error
	ListForAccount(ctx context.Context, accountID string) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, accountID string) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed notification repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Migrate creates the notifications table if it does not exist.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS notifications (
        id UUID PRIMARY KEY,
        account_id UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
        type VARCHAR(50) NOT NULL,
        title TEXT NOT NULL,
        description TEXT NOT NULL,
        read BOOLEAN NOT NULL DEFAULT FALSE,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );`)
	if err != nil {
		return fmt.Errorf("migrate notifications: %w", err)
	}
	return nil
}

// Create appends a notification record.
func (r *PostgresRepository) Create(ctx context.Context, n Notification) error {
	id, err := uuid.Parse(n.ID)
	if err != nil {
		return err
	}
	accountID, err := uuid.Parse(n.AccountID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO notifications (id, account_id, type, title, description, read, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, accountID, n.Type, n.Title, n.Description, n.Read, n.CreatedAt.UTC())
	return err
}

// ListForAccount returns the account's notifications, newest first.
func (r *PostgresRepository) ListForAccount(ctx context.Context, accountID string) ([]Notification, error) {
	owner, err := uuid.Parse(accountID)
	if err != nil {
		return nil, ErrNotFound
	}
	rows, err := r.db.Query(ctx, `SELECT id, account_id, type, title, description, read, created_at
        FROM notifications WHERE account_id = $1 ORDER BY created_at DESC, id`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var (
			n         Notification
			id, accID uuid.UUID
		)
		if err := rows.Scan(&id, &accID, &n.Type, &n.Title, &n.Description, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.ID = id.String()
		n.AccountID = accID.String()
		n.CreatedAt = n.CreatedAt.UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flips a single notification's read flag.
func (r *PostgresRepository) MarkRead(ctx context.Context, id string) error {
	notifID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, notifID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead flips the read flag on every notification the account owns.
func (r *PostgresRepository) MarkAllRead(ctx context.Context, accountID string) error {
	owner, err := uuid.Parse(accountID)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.db.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE account_id = $1`, owner)
	return err
}
