package repositories

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStoreBreakerIgnoresDomainMisses(t *testing.T) {
	cb := NewStoreBreaker()

	// A stream of not-found lookups, as produced by bad bearer tokens
	// or 404 id fetches, must not trip the breaker.
	for i := 0; i < 20; i++ {
		_, err := execute(cb, func() (any, error) { return nil, mongo.ErrNoDocuments })
		if !errors.Is(err, mongo.ErrNoDocuments) {
			t.Fatalf("miss %d: expected ErrNoDocuments through the breaker, got %v", i, err)
		}
	}

	if _, err := execute(cb, func() (any, error) { return "ok", nil }); err != nil {
		t.Fatalf("breaker must stay closed after domain misses: %v", err)
	}
	if state := cb.State(); state != gobreaker.StateClosed {
		t.Fatalf("breaker state %s, want closed", state)
	}
}

func TestStoreBreakerIgnoresDuplicateKeys(t *testing.T) {
	cb := NewStoreBreaker()
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}

	for i := 0; i < 20; i++ {
		if _, err := execute(cb, func() (any, error) { return nil, dup }); err == nil {
			t.Fatal("expected the duplicate-key error back")
		}
	}

	if _, err := execute(cb, func() (any, error) { return "ok", nil }); err != nil {
		t.Fatalf("breaker must stay closed after duplicate-key errors: %v", err)
	}
}

func TestStoreBreakerOpensOnInfrastructureFailures(t *testing.T) {
	cb := NewStoreBreaker()
	down := errors.New("connection reset by peer")

	for i := 0; i < 6; i++ {
		if _, err := execute(cb, func() (any, error) { return nil, down }); err == nil {
			t.Fatalf("failure %d: expected an error", i)
		}
	}

	if _, err := execute(cb, func() (any, error) { return "ok", nil }); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected ErrOpenState after consecutive failures, got %v", err)
	}
}

func TestExecuteWithoutBreaker(t *testing.T) {
	res, err := execute(nil, func() (any, error) { return 42, nil })
	if err != nil || res.(int) != 42 {
		t.Fatalf("nil breaker must pass through: %v, %v", res, err)
	}
}
