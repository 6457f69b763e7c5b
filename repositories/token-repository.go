package repositories

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"taskhub/models"
)

type TokenRepo struct {
	collection *mongo.Collection
	breaker    *gobreaker.CircuitBreaker
}

func NewTokenRepo(collection *mongo.Collection, breaker *gobreaker.CircuitBreaker) *TokenRepo {
	return &TokenRepo{collection: collection, breaker: breaker}
}

func (r *TokenRepo) Insert(ctx context.Context, token *models.Token) error {
	_, err := execute(r.breaker, func() (any, error) {
		return r.collection.InsertOne(ctx, token)
	})
	return err
}

func (r *TokenRepo) ByValue(ctx context.Context, value string) (*models.Token, error) {
	res, err := execute(r.breaker, func() (any, error) {
		var token models.Token
		if err := r.collection.FindOne(ctx, bson.M{"value": value}).Decode(&token); err != nil {
			return nil, err
		}
		return &token, nil
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return res.(*models.Token), nil
}

// Revoke flips the revoked flag on a live token. The single-document
// update is atomic, so once this returns nil no concurrent ByValue can
// observe the token as live.
func (r *TokenRepo) Revoke(ctx context.Context, value string) error {
	res, err := execute(r.breaker, func() (any, error) {
		return r.collection.UpdateOne(ctx,
			bson.M{"value": value, "revoked": false},
			bson.M{"$set": bson.M{"revoked": true}},
		)
	})
	if err != nil {
		return err
	}
	if res.(*mongo.UpdateResult).MatchedCount == 0 {
		return models.ErrTokenNotFound
	}
	return nil
}
