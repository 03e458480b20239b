package notification

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAppendAndListNewestFirst(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	accountID := "acct-1"

	first, err := svc.Append(ctx, accountID, TypeWallet, "Transaction Successful", "You received 50.00 USD")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if first.Read {
		t.Fatal("notification must default to unread")
	}

	// Force distinct timestamps so ordering is observable.
	time.Sleep(5 * time.Millisecond)
	second, err := svc.Append(ctx, accountID, TypeWallet, "Transfer Sent", "Sent 10.00 USD")
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	svc.Append(ctx, "acct-2", TypeWallet, "Transaction Successful", "You received 1.00 USD")

	list, err := svc.ListForAccount(ctx, accountID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("expected newest first, got %v then %v", list[0].Title, list[1].Title)
	}
}

func TestMarkReadAndMarkAllRead(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	accountID := "acct-1"

	a, _ := svc.Append(ctx, accountID, TypeWallet, "one", "d")
	b, _ := svc.Append(ctx, accountID, TypeWallet, "two", "d")

	if err := svc.MarkRead(ctx, a.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	list, _ := svc.ListForAccount(ctx, accountID)
	for _, n := range list {
		if n.ID == a.ID && !n.Read {
			t.Fatal("notification not marked read")
		}
		if n.ID == b.ID && n.Read {
			t.Fatal("unrelated notification marked read")
		}
	}

	if err := svc.MarkAllRead(ctx, accountID); err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	list, _ = svc.ListForAccount(ctx, accountID)
	for _, n := range list {
		if !n.Read {
			t.Fatalf("notification %s still unread", n.ID)
		}
	}

	if err := svc.MarkRead(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
