package services_test

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskhub/models"
	"taskhub/repositories/memory"
	"taskhub/services"
)

func TestIssueProducesUniqueOpaqueTokens(t *testing.T) {
	svc := services.NewTokenService(memory.NewTokenRepo())
	userID := primitive.NewObjectID()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := svc.Issue(context.Background(), userID)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		if len(token) != 64 {
			t.Fatalf("expected 64 hex chars (256 bits), got %d", len(token))
		}
		if seen[token] {
			t.Fatalf("token value reused: %s", token)
		}
		seen[token] = true
	}
}

func TestResolveReturnsOwningUser(t *testing.T) {
	svc := services.NewTokenService(memory.NewTokenRepo())
	userID := primitive.NewObjectID()

	token, err := svc.Issue(context.Background(), userID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	resolved, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved != userID {
		t.Fatalf("resolved user %s, want %s", resolved.Hex(), userID.Hex())
	}
}

func TestResolveUnknownTokenIsUnauthenticated(t *testing.T) {
	svc := services.NewTokenService(memory.NewTokenRepo())

	if _, err := svc.Resolve(context.Background(), "no-such-token"); !errors.Is(err, models.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRevokedTokenNeverResolves(t *testing.T) {
	svc := services.NewTokenService(memory.NewTokenRepo())
	userID := primitive.NewObjectID()

	token, err := svc.Issue(context.Background(), userID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := svc.Revoke(context.Background(), token); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	if _, err := svc.Resolve(context.Background(), token); !errors.Is(err, models.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after revoke, got %v", err)
	}
}

func TestRevokeIsNotIdempotent(t *testing.T) {
	svc := services.NewTokenService(memory.NewTokenRepo())
	userID := primitive.NewObjectID()

	token, err := svc.Issue(context.Background(), userID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := svc.Revoke(context.Background(), token); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	if err := svc.Revoke(context.Background(), token); !errors.Is(err, models.ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound on second revoke, got %v", err)
	}
	if err := svc.Revoke(context.Background(), "no-such-token"); !errors.Is(err, models.ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound for unknown token, got %v", err)
	}
}
