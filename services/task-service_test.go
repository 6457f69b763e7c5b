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

type taskFixture struct {
	users    *memory.UserRepo
	projects *services.ProjectService
	tasks    *services.TaskService
	creator  *models.User
	assignee *models.User
	stranger *models.User
	project  *models.Project
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	ctx := context.Background()
	users := memory.NewUserRepo()
	projectRepo := memory.NewProjectRepo()
	taskRepo := memory.NewTaskRepo()

	f := &taskFixture{
		users:    users,
		projects: services.NewProjectService(projectRepo, taskRepo),
		tasks:    services.NewTaskService(taskRepo, projectRepo, users),
		creator:  &models.User{ID: primitive.NewObjectID(), Name: "Creator", Email: "creator@example.com"},
		assignee: &models.User{ID: primitive.NewObjectID(), Name: "Assignee", Email: "assignee@example.com"},
		stranger: &models.User{ID: primitive.NewObjectID(), Name: "Stranger", Email: "stranger@example.com"},
	}
	for _, u := range []*models.User{f.creator, f.assignee, f.stranger} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	project, err := f.projects.Create(ctx, f.creator, "P1", "")
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	f.project = project
	return f
}

func TestTaskCreateDefaultsToPending(t *testing.T) {
	f := newTaskFixture(t)

	task, err := f.tasks.Create(context.Background(), f.creator, services.TaskInput{
		Title:     "T1",
		ProjectID: f.project.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Status != models.StatusPending {
		t.Fatalf("status %q, want pending", task.Status)
	}
	if task.CreatorID != f.creator.ID {
		t.Fatal("creator must come from the authenticated actor")
	}
	if task.AssigneeIDs == nil || len(task.AssigneeIDs) != 0 {
		t.Fatalf("expected empty assignee set, got %v", task.AssigneeIDs)
	}
}

func TestTaskCreateRequiresExistingProject(t *testing.T) {
	f := newTaskFixture(t)

	_, err := f.tasks.Create(context.Background(), f.creator, services.TaskInput{
		Title:     "T1",
		ProjectID: primitive.NewObjectID(),
	})
	if !errors.Is(err, models.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestTaskCreateRequiresExistingAssignees(t *testing.T) {
	f := newTaskFixture(t)

	_, err := f.tasks.Create(context.Background(), f.creator, services.TaskInput{
		Title:       "T1",
		ProjectID:   f.project.ID,
		AssigneeIDs: []primitive.ObjectID{f.assignee.ID, primitive.NewObjectID()},
	})
	if !errors.Is(err, models.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestAnyUserMayCreateTaskInAnyProject(t *testing.T) {
	f := newTaskFixture(t)

	task, err := f.tasks.Create(context.Background(), f.stranger, services.TaskInput{
		Title:     "Drive-by task",
		ProjectID: f.project.ID,
	})
	if err != nil {
		t.Fatalf("create by non-owner should succeed: %v", err)
	}
	if task.CreatorID != f.stranger.ID {
		t.Fatal("creator must be the actor")
	}
}

func TestTaskUpdatePartialPatch(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task, err := f.tasks.Create(ctx, f.creator, services.TaskInput{
		Title:       "T1",
		Description: "keep me",
		ProjectID:   f.project.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	status := models.StatusInProgress
	updated, err := f.tasks.Update(ctx, f.creator, task.ID, services.TaskPatch{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != models.StatusInProgress {
		t.Fatalf("status %q, want in_progress", updated.Status)
	}
	if updated.Title != "T1" || updated.Description != "keep me" {
		t.Fatalf("absent fields must be untouched: %+v", updated)
	}
}

func TestTaskUpdateReplacesAssigneeSet(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task, err := f.tasks.Create(ctx, f.creator, services.TaskInput{
		Title:       "T1",
		ProjectID:   f.project.ID,
		AssigneeIDs: []primitive.ObjectID{f.assignee.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	replacement := []primitive.ObjectID{f.stranger.ID}
	updated, err := f.tasks.Update(ctx, f.creator, task.ID, services.TaskPatch{AssigneeIDs: &replacement})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.AssigneeIDs) != 1 || updated.AssigneeIDs[0] != f.stranger.ID {
		t.Fatalf("assignee set must be fully replaced, got %v", updated.AssigneeIDs)
	}

	cleared := []primitive.ObjectID{}
	updated, err = f.tasks.Update(ctx, f.creator, task.ID, services.TaskPatch{AssigneeIDs: &cleared})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.AssigneeIDs) != 0 {
		t.Fatalf("empty set should clear assignees, got %v", updated.AssigneeIDs)
	}
}

func TestTaskMutationByNonCreatorForbidden(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task, err := f.tasks.Create(ctx, f.creator, services.TaskInput{
		Title:       "T1",
		ProjectID:   f.project.ID,
		AssigneeIDs: []primitive.ObjectID{f.assignee.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "hijacked"
	// Assignees can see the task but must not be able to mutate it.
	if _, err := f.tasks.Update(ctx, f.assignee, task.ID, services.TaskPatch{Title: &title}); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for assignee, got %v", err)
	}
	if err := f.tasks.Delete(ctx, f.stranger, task.ID); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}

	got, err := f.tasks.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "T1" {
		t.Fatalf("forbidden update must not mutate state, title is %q", got.Title)
	}
}

func TestTaskDeleteTwiceIsNotFound(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task, err := f.tasks.Create(ctx, f.creator, services.TaskInput{Title: "T1", ProjectID: f.project.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.tasks.Delete(ctx, f.creator, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.tasks.Delete(ctx, f.creator, task.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestTaskSearchVisibleToCreatorOrAssignee(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task, err := f.tasks.Create(ctx, f.creator, services.TaskInput{
		Title:       "Shared",
		ProjectID:   f.project.ID,
		AssigneeIDs: []primitive.ObjectID{f.assignee.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, tc := range []struct {
		name    string
		actor   *models.User
		visible bool
	}{
		{"creator", f.creator, true},
		{"assignee", f.assignee, true},
		{"stranger", f.stranger, false},
	} {
		page, err := f.tasks.Search(ctx, tc.actor, services.TaskQuery{})
		if err != nil {
			t.Fatalf("%s search: %v", tc.name, err)
		}
		found := false
		for _, got := range page.Data.([]models.Task) {
			if got.ID == task.ID {
				found = true
			}
		}
		if found != tc.visible {
			t.Fatalf("%s: visible=%v, want %v", tc.name, found, tc.visible)
		}
	}
}

func TestTaskSearchFilters(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	other, err := f.projects.Create(ctx, f.creator, "P2", "")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	if _, err := f.tasks.Create(ctx, f.creator, services.TaskInput{Title: "Fix login bug", ProjectID: f.project.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.tasks.Create(ctx, f.creator, services.TaskInput{Title: "Write docs", ProjectID: f.project.ID, Status: models.StatusCompleted}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.tasks.Create(ctx, f.creator, services.TaskInput{Title: "Fix deploy", ProjectID: other.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}

	page, err := f.tasks.Search(ctx, f.creator, services.TaskQuery{ProjectID: &f.project.ID})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("project filter: total %d, want 2", page.Total)
	}

	page, err = f.tasks.Search(ctx, f.creator, services.TaskQuery{Status: models.StatusCompleted})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("status filter: total %d, want 1", page.Total)
	}

	page, err = f.tasks.Search(ctx, f.creator, services.TaskQuery{Text: "FIX"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("text filter: total %d, want 2", page.Total)
	}

	page, err = f.tasks.Search(ctx, f.creator, services.TaskQuery{Text: "fix", ProjectID: &f.project.ID})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("intersected filters: total %d, want 1", page.Total)
	}
}
