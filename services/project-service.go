package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskhub/logging"
	"taskhub/models"
	"taskhub/policies"
)

// ProjectService implements project CRUD and search. Mutations are
// gated on ownership; deletion cascades to the project's tasks.
type ProjectService struct {
	projects ProjectRepository
	tasks    TaskRepository
}

func NewProjectService(projects ProjectRepository, tasks TaskRepository) *ProjectService {
	return &ProjectService{projects: projects, tasks: tasks}
}

// Create stores a new project. The owner comes from the authenticated
// actor, never from request input.
func (s *ProjectService) Create(ctx context.Context, owner *models.User, name, description string) (*models.Project, error) {
	project := &models.Project{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		OwnerID:     owner.ID,
		CreatedAt:   time.Now(),
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %s created by user %s", project.ID.Hex(), owner.ID.Hex())
	return project, nil
}

// Get fetches a single project by id.
func (s *ProjectService) Get(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	return s.projects.ByID(ctx, id)
}

// Update applies a partial patch after the ownership check passes.
// Fields absent from the patch keep their current values.
func (s *ProjectService) Update(ctx context.Context, actor *models.User, id primitive.ObjectID, patch ProjectPatch) (*models.Project, error) {
	project, err := s.projects.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policies.CanModifyProject(actor, project) {
		return nil, models.ErrForbidden
	}

	if patch.Name != nil {
		project.Name = *patch.Name
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: PROJECT_UPDATED, Description: Project %s updated by user %s", id.Hex(), actor.ID.Hex())
	return project, nil
}

// Delete removes the project and all of its tasks after the ownership
// check passes. The task cascade runs first so a failure leaves the
// project (and the retry path) intact.
func (s *ProjectService) Delete(ctx context.Context, actor *models.User, id primitive.ObjectID) error {
	project, err := s.projects.ByID(ctx, id)
	if err != nil {
		return err
	}
	if !policies.CanModifyProject(actor, project) {
		return models.ErrForbidden
	}

	if err := s.tasks.DeleteByProject(ctx, id); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}

	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %s deleted by user %s", id.Hex(), actor.ID.Hex())
	return nil
}

// Search lists the owner's projects, optionally filtered by a
// case-insensitive substring match on name or description.
func (s *ProjectService) Search(ctx context.Context, owner *models.User, q ProjectQuery) (*models.Page, error) {
	q.Page, q.PerPage = normalizePage(q.Page, q.PerPage)

	projects, total, err := s.projects.Search(ctx, owner.ID, q)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return &models.Page{Data: projects, Total: total, Current: q.Page, PerPage: q.PerPage}, nil
}
