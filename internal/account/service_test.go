package account

import (
	"context"
	"errors"
	"testing"
)

func validRegistration() Registration {
	return Registration{
		Username: "amira",
		Email:    "amira@example.com",
		Password: "s3cret-pass",
		Birthday: "1999-04-12",
		Sex:      "female",
	}
}

func TestRegisterGrantsOpeningBalances(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	a, err := svc.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if got := a.UsdBalance.StringFixed(2); got != "1000.00" {
		t.Fatalf("usd opening balance = %s", got)
	}
	if got := a.SypBalance.StringFixed(2); got != "5500000.00" {
		t.Fatalf("syp opening balance = %s", got)
	}
	if got := a.AthrBalance.StringFixed(2); got != "15250.00" {
		t.Fatalf("athr opening balance = %s", got)
	}
	if string(a.PasswordHash) == "s3cret-pass" {
		t.Fatal("password stored in plain text")
	}
	if len(a.WalletAddress) != AddressLength {
		t.Fatalf("wallet address length = %d", len(a.WalletAddress))
	}
}

func TestRegisterDuplicateIdentity(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("register: %v", err)
	}

	dup := validRegistration()
	dup.Email = "other@example.com"
	if _, err := svc.Register(ctx, dup); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected duplicate username, got %v", err)
	}

	dup = validRegistration()
	dup.Username = "karim"
	if _, err := svc.Register(ctx, dup); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	bad := validRegistration()
	bad.Password = "short"
	if _, err := svc.Register(ctx, bad); err == nil {
		t.Fatal("expected short password rejection")
	}

	bad = validRegistration()
	bad.Email = "not-an-email"
	if _, err := svc.Register(ctx, bad); err == nil {
		t.Fatal("expected invalid email rejection")
	}

	bad = validRegistration()
	bad.Birthday = "12/04/1999"
	if _, err := svc.Register(ctx, bad); err == nil {
		t.Fatal("expected invalid birthday rejection")
	}
}

func TestAuthenticateByUsernameOrEmail(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	created, err := svc.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, identifier := range []string{"amira", "amira@example.com"} {
		a, err := svc.Authenticate(ctx, identifier, "s3cret-pass")
		if err != nil {
			t.Fatalf("authenticate %q: %v", identifier, err)
		}
		if a.ID != created.ID {
			t.Fatalf("authenticated wrong account")
		}
	}

	if _, err := svc.Authenticate(ctx, "amira", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "s3cret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}

func TestRequestPasswordReset(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("register: %v", err)
	}

	req, err := svc.RequestPasswordReset(ctx, "amira@example.com")
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if len(req.Code) != 6 {
		t.Fatalf("reset code length = %d", len(req.Code))
	}
	if req.Status != ResetStatusPending {
		t.Fatalf("reset status = %s", req.Status)
	}

	if _, err := svc.RequestPasswordReset(ctx, "unknown@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestResolveResetRequest(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("register: %v", err)
	}
	req, err := svc.RequestPasswordReset(ctx, "amira@example.com")
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}

	if err := svc.ResolveResetRequest(ctx, req.ID, "escalated"); err == nil {
		t.Fatal("expected invalid status to be rejected")
	}
	if err := svc.ResolveResetRequest(ctx, req.ID, ResetStatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}

	list, err := svc.ListResetRequests(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Status != ResetStatusApproved {
		t.Fatalf("requests = %+v", list)
	}

	if err := svc.ResolveResetRequest(ctx, "missing", ResetStatusRejected); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
