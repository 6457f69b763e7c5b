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

type searchResult[T any] struct {
	items []T
	total int64
}

type TaskRepo struct {
	collection *mongo.Collection
	breaker    *gobreaker.CircuitBreaker
}

func NewTaskRepo(collection *mongo.Collection, breaker *gobreaker.CircuitBreaker) *TaskRepo {
	return &TaskRepo{collection: collection, breaker: breaker}
}

func (r *TaskRepo) Create(ctx context.Context, task *models.Task) error {
	_, err := execute(r.breaker, func() (any, error) {
		return r.collection.InsertOne(ctx, task)
	})
	return err
}

func (r *TaskRepo) ByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	res, err := execute(r.breaker, func() (any, error) {
		var task models.Task
		if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
			return nil, err
		}
		return &task, nil
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return res.(*models.Task), nil
}

func (r *TaskRepo) Update(ctx context.Context, task *models.Task) error {
	res, err := execute(r.breaker, func() (any, error) {
		return r.collection.UpdateOne(ctx,
			bson.M{"_id": task.ID},
			bson.M{"$set": bson.M{
				"project_id":   task.ProjectID,
				"title":        task.Title,
				"description":  task.Description,
				"status":       task.Status,
				"assignee_ids": task.AssigneeIDs,
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

func (r *TaskRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
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

func (r *TaskRepo) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) error {
	_, err := execute(r.breaker, func() (any, error) {
		return r.collection.DeleteMany(ctx, bson.M{"project_id": projectID})
	})
	return err
}

func (r *TaskRepo) Search(ctx context.Context, actorID primitive.ObjectID, q services.TaskQuery) ([]models.Task, int64, error) {
	clauses := []bson.M{
		{"$or": []bson.M{{"creator_id": actorID}, {"assignee_ids": actorID}}},
	}
	if q.ProjectID != nil {
		clauses = append(clauses, bson.M{"project_id": *q.ProjectID})
	}
	if q.Status != "" {
		clauses = append(clauses, bson.M{"status": q.Status})
	}
	if q.Text != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Text), Options: "i"}
		clauses = append(clauses, bson.M{"$or": []bson.M{{"title": re}, {"description": re}}})
	}
	filter := bson.M{"$and": clauses}

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

		var tasks []models.Task
		if err := cursor.All(ctx, &tasks); err != nil {
			return nil, err
		}
		return searchResult[models.Task]{items: tasks, total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	result := res.(searchResult[models.Task])
	return result.items, result.total, nil
}
