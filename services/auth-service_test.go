package services_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"taskhub/models"
	"taskhub/repositories/memory"
	"taskhub/services"
)

func newAuthService() (*services.AuthService, *memory.UserRepo) {
	users := memory.NewUserRepo()
	tokens := services.NewTokenService(memory.NewTokenRepo())
	return services.NewAuthService(users, tokens, bcrypt.MinCost), users
}

func TestRegisterStoresHashAndIssuesToken(t *testing.T) {
	svc, users := newAuthService()
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "Ana", "ana@example.com", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	stored, err := users.ByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if stored.Password == "secret123" {
		t.Fatal("password stored as plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	resolved, err := svc.CurrentUser(ctx, token)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if resolved.ID != user.ID {
		t.Fatalf("token resolved to %s, want %s", resolved.ID.Hex(), user.ID.Hex())
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "Ana", "ana@example.com", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.Register(ctx, "Another Ana", "ana@example.com", "different9"); !errors.Is(err, models.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestLoginIssuesFreshTokenKeepingOldOnes(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	user, first, err := svc.Register(ctx, "Ana", "ana@example.com", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	logged, second, err := svc.Login(ctx, "ana@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != user.ID {
		t.Fatal("login returned a different user")
	}
	if second == first {
		t.Fatal("login must mint a new token")
	}

	for _, token := range []string{first, second} {
		if _, err := svc.CurrentUser(ctx, token); err != nil {
			t.Fatalf("token should still resolve: %v", err)
		}
	}
}

func TestLoginFailureIsUniform(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "Ana", "ana@example.com", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, badPassword := svc.Login(ctx, "ana@example.com", "wrong-password")
	_, _, unknownEmail := svc.Login(ctx, "nobody@example.com", "secret123")

	if !errors.Is(badPassword, models.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", badPassword)
	}
	if !errors.Is(unknownEmail, models.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownEmail)
	}
	if badPassword.Error() != unknownEmail.Error() {
		t.Fatal("failure messages must not distinguish unknown email from wrong password")
	}
}

func TestLogoutRevokesOnlyPresentedToken(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, first, err := svc.Register(ctx, "Ana", "ana@example.com", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	_, second, err := svc.Login(ctx, "ana@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, first); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.CurrentUser(ctx, first); !errors.Is(err, models.ErrUnauthenticated) {
		t.Fatalf("revoked token should not resolve, got %v", err)
	}
	if _, err := svc.CurrentUser(ctx, second); err != nil {
		t.Fatalf("other session must survive logout: %v", err)
	}

	if err := svc.Logout(ctx, first); !errors.Is(err, models.ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound on repeated logout, got %v", err)
	}
}

func TestCurrentUserStripsPasswordHash(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, token, err := svc.Register(ctx, "Ana", "ana@example.com", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.CurrentUser(ctx, token)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user.Password != "" {
		t.Fatal("password hash must not leave the service")
	}
}
