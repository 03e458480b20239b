package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service records and serves per-account notifications. It is invoked by
// the ledger engine after account state has been persisted, so it assumes
// the owning account exists.
type Service struct {
	repo Repository
}

// NewService creates a notification service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Append records an unread notification timestamped now.
func (s *Service) Append(ctx context.Context, accountID, kind, title, description string) (Notification, error) {
	n := Notification{
		ID:          uuid.New().String(),
		AccountID:   accountID,
		Type:        kind,
		Title:       title,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// ListForAccount returns the account's notifications, newest first.
func (s *Service) ListForAccount(ctx context.Context, accountID string) ([]Notification, error) {
	return s.repo.ListForAccount(ctx, accountID)
}

// MarkRead marks one notification as read.
func (s *Service) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}

// MarkAllRead marks every notification owned by the account as read.
func (s *Service) MarkAllRead(ctx context.Context, accountID string) error {
	return s.repo.MarkAllRead(ctx, accountID)
}
