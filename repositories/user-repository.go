package repositories

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskhub/models"
)

type UserRepo struct {
	collection *mongo.Collection
	breaker    *gobreaker.CircuitBreaker
}

func NewUserRepo(collection *mongo.Collection, breaker *gobreaker.CircuitBreaker) *UserRepo {
	return &UserRepo{collection: collection, breaker: breaker}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	_, err := execute(r.breaker, func() (any, error) {
		return r.collection.InsertOne(ctx, user)
	})
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrDuplicateEmail
	}
	return err
}

func (r *UserRepo) ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	res, err := execute(r.breaker, func() (any, error) {
		var user models.User
		if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
			return nil, err
		}
		return &user, nil
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return res.(*models.User), nil
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	res, err := execute(r.breaker, func() (any, error) {
		cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			return nil, err
		}
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]models.User), nil
}

func (r *UserRepo) AllExist(ctx context.Context, ids []primitive.ObjectID) (bool, error) {
	unique := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return true, nil
	}

	res, err := execute(r.breaker, func() (any, error) {
		return r.collection.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": unique}})
	})
	if err != nil {
		return false, err
	}
	return res.(int64) == int64(len(unique)), nil
}
