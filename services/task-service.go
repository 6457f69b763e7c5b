package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskhub/logging"
	"taskhub/models"
	"taskhub/policies"
)

// TaskService implements task CRUD and search. Mutations are gated on
// the creator; any authenticated user may create a task in any existing
// project.
type TaskService struct {
	tasks    TaskRepository
	projects ProjectRepository
	users    UserRepository
}

func NewTaskService(tasks TaskRepository, projects ProjectRepository, users UserRepository) *TaskService {
	return &TaskService{tasks: tasks, projects: projects, users: users}
}

// TaskInput is the validated payload for task creation.
type TaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	ProjectID   primitive.ObjectID
	AssigneeIDs []primitive.ObjectID
}

// Create stores a new task. The project must exist; every assignee id
// must reference an existing user. Status defaults to pending.
func (s *TaskService) Create(ctx context.Context, creator *models.User, input TaskInput) (*models.Task, error) {
	if _, err := s.projects.ByID(ctx, input.ProjectID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &models.InvalidReferenceError{Message: "The selected project does not exist."}
		}
		return nil, err
	}
	if err := s.checkAssignees(ctx, input.AssigneeIDs); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.StatusPending
	}

	task := &models.Task{
		ID:          primitive.NewObjectID(),
		ProjectID:   input.ProjectID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		CreatorID:   creator.ID,
		AssigneeIDs: input.AssigneeIDs,
		CreatedAt:   time.Now(),
	}
	if task.AssigneeIDs == nil {
		task.AssigneeIDs = []primitive.ObjectID{}
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created by user %s in project %s", task.ID.Hex(), creator.ID.Hex(), input.ProjectID.Hex())
	return task, nil
}

// Get fetches a single task by id. Visibility is intentionally not
// restricted here; only the listing applies the creator-or-assignee
// scope.
func (s *TaskService) Get(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	return s.tasks.ByID(ctx, id)
}

// Update applies a partial patch after the creator check passes. A
// supplied assignee set fully replaces the previous one; absent fields
// keep their current values.
func (s *TaskService) Update(ctx context.Context, actor *models.User, id primitive.ObjectID, patch TaskPatch) (*models.Task, error) {
	task, err := s.tasks.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policies.CanModifyTask(actor, task) {
		return nil, models.ErrForbidden
	}

	if patch.ProjectID != nil {
		if _, err := s.projects.ByID(ctx, *patch.ProjectID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, &models.InvalidReferenceError{Message: "The selected project does not exist."}
			}
			return nil, err
		}
		task.ProjectID = *patch.ProjectID
	}
	if patch.AssigneeIDs != nil {
		if err := s.checkAssignees(ctx, *patch.AssigneeIDs); err != nil {
			return nil, err
		}
		task.AssigneeIDs = *patch.AssigneeIDs
		if task.AssigneeIDs == nil {
			task.AssigneeIDs = []primitive.ObjectID{}
		}
	}
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: TASK_UPDATED, Description: Task %s updated by user %s", id.Hex(), actor.ID.Hex())
	return task, nil
}

// Delete removes the task after the creator check passes.
func (s *TaskService) Delete(ctx context.Context, actor *models.User, id primitive.ObjectID) error {
	task, err := s.tasks.ByID(ctx, id)
	if err != nil {
		return err
	}
	if !policies.CanModifyTask(actor, task) {
		return models.ErrForbidden
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted by user %s", id.Hex(), actor.ID.Hex())
	return nil
}

// Search lists tasks where the actor is the creator or an assignee,
// intersected with the optional project, status, and text filters.
func (s *TaskService) Search(ctx context.Context, actor *models.User, q TaskQuery) (*models.Page, error) {
	q.Page, q.PerPage = normalizePage(q.Page, q.PerPage)

	tasks, total, err := s.tasks.Search(ctx, actor.ID, q)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return &models.Page{Data: tasks, Total: total, Current: q.Page, PerPage: q.PerPage}, nil
}

func (s *TaskService) checkAssignees(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	ok, err := s.users.AllExist(ctx, ids)
	if err != nil {
		return err
	}
	if !ok {
		return &models.InvalidReferenceError{Message: "One or more selected users do not exist."}
	}
	return nil
}
