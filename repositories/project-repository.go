package repositories

import (
	"context"
	"errors"
	"regexp"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskhub/models"
	"taskhub/services"
)

type ProjectRepo struct {
	collection *mongo.Collection
	breaker    *gobreaker.CircuitBreaker
}

func NewProjectRepo(collection *mongo.Collection, breaker *gobreaker.CircuitBreaker) *ProjectRepo {
	return &ProjectRepo{collection: collection, breaker: breaker}
}

func (r *ProjectRepo) Create(ctx context.Context, project *models.Project) error {
	_, err := execute(r.breaker, func() (any, error) {
		return r.collection.InsertOne(ctx, project)
	})
	return err
}

func (r *ProjectRepo) ByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	res, err := execute(r.breaker, func() (any, error) {
		var project models.Project
		if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project); err != nil {
			return nil, err
		}
		return &project, nil
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return res.(*models.Project), nil
}

func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	res, err := execute(r.breaker, func() (any, error) {
		return r.collection.UpdateOne(ctx,
			bson.M{"_id": project.ID},
			bson.M{"$set": bson.M{
				"name":        project.Name,
				"description": project.Description,
			}},
		)
	})
	if err != nil {
		return err
	}
	if res.(*mongo.UpdateResult).MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := execute(r.breaker, func() (any, error) {
		return r.collection.DeleteOne(ctx, bson.M{"_id": id})
	})
	if err != nil {
		return err
	}
	if res.(*mongo.DeleteResult).DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *ProjectRepo) Search(ctx context.Context, ownerID primitive.ObjectID, q services.ProjectQuery) ([]models.Project, int64, error) {
	filter := bson.M{"owner_id": ownerID}
	if q.Text != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Text), Options: "i"}
		filter["$or"] = []bson.M{{"name": re}, {"description": re}}
	}

	res, err := execute(r.breaker, func() (any, error) {
		total, err := r.collection.CountDocuments(ctx, filter)
		if err != nil {
			return nil, err
		}

		opts := options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
			SetSkip(int64((q.Page - 1) * q.PerPage)).
			SetLimit(int64(q.PerPage))
		cursor, err := r.collection.Find(ctx, filter, opts)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var projects []models.Project
		if err := cursor.All(ctx, &projects); err != nil {
			return nil, err
		}
		return searchResult[models.Project]{items: projects, total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	result := res.(searchResult[models.Project])
	return result.items, result.total, nil
}
