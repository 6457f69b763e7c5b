package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskhub/models"
)

// Repository interfaces consumed by the services. The Mongo-backed
// implementations live in the repositories package; in-memory ones used
// by tests and Mongo-less runs live in repositories/memory.

type UserRepository interface {
	// Create persists a new user. Returns models.ErrDuplicateEmail when
	// the email is already taken.
	Create(ctx context.Context, user *models.User) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	// List returns all users ordered by name.
	List(ctx context.Context) ([]models.User, error)
	// AllExist reports whether every id references an existing user.
	AllExist(ctx context.Context, ids []primitive.ObjectID) (bool, error)
}

type TokenRepository interface {
	Insert(ctx context.Context, token *models.Token) error
	ByValue(ctx context.Context, value string) (*models.Token, error)
	// Revoke marks a live token revoked. Returns models.ErrTokenNotFound
	// when the value is unknown or already revoked. The transition must
	// be atomic with respect to concurrent ByValue calls.
	Revoke(ctx context.Context, value string) error
}

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// Search returns the owner's projects matching the query, newest
	// first, plus the total match count before pagination.
	Search(ctx context.Context, ownerID primitive.ObjectID, q ProjectQuery) ([]models.Project, int64, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DeleteByProject removes every task belonging to the project.
	DeleteByProject(ctx context.Context, projectID primitive.ObjectID) error
	// Search returns tasks visible to the actor (creator or assignee)
	// matching the query, newest first, plus the total match count.
	Search(ctx context.Context, actorID primitive.ObjectID, q TaskQuery) ([]models.Task, int64, error)
}

// ProjectQuery filters the owner-scoped project listing.
type ProjectQuery struct {
	Text    string
	Page    int
	PerPage int
}

// TaskQuery filters the creator-or-assignee task listing.
type TaskQuery struct {
	Text      string
	ProjectID *primitive.ObjectID
	Status    models.TaskStatus
	Page      int
	PerPage   int
}

// ProjectPatch carries a partial project update; nil fields are left
// untouched.
type ProjectPatch struct {
	Name        *string
	Description *string
}

// TaskPatch carries a partial task update; nil fields are left
// untouched. A non-nil AssigneeIDs fully replaces the assignment set.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	ProjectID   *primitive.ObjectID
	AssigneeIDs *[]primitive.ObjectID
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = models.DefaultPerPage
	}
	if perPage > models.MaxPerPage {
		perPage = models.MaxPerPage
	}
	return page, perPage
}
