// Package repositories contains the MongoDB-backed persistence layer.
// Every store round-trip runs through a shared circuit breaker so a
// flapping database degrades into fast failures instead of piled-up
// requests; an open breaker surfaces as a generic internal error at the
// API boundary.
package repositories

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"

	"taskhub/logging"
)

// NewStoreBreaker builds the circuit breaker shared by the Mongo
// repositories. Only infrastructure failures count against it: a
// lookup that finds no document or an insert hitting a unique index is
// the store answering correctly, and a run of bad bearer tokens or 404
// ids must not cut healthy traffic off from the database.
func NewStoreBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "mongodb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, mongo.ErrNoDocuments) || mongo.IsDuplicateKeyError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Warnf("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

func execute(cb *gobreaker.CircuitBreaker, op func() (any, error)) (any, error) {
	if cb == nil {
		return op()
	}
	return cb.Execute(op)
}
