// Package memory provides in-memory implementations of the repository
// interfaces. They back the test suite and Mongo-less local runs, and
// mirror the Mongo repositories' behavior: duplicate-email detection,
// newest-first ordering, case-insensitive substring search, and atomic
// token revocation.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskhub/models"
	"taskhub/services"
)

type UserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[primitive.ObjectID]models.User)}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return models.ErrDuplicateEmail
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepo) ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (r *UserRepo) AllExist(ctx context.Context, ids []primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if _, ok := r.users[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}

type TokenRepo struct {
	mu     sync.Mutex
	tokens map[string]models.Token
}

func NewTokenRepo() *TokenRepo {
	return &TokenRepo{tokens: make(map[string]models.Token)}
}

func (r *TokenRepo) Insert(ctx context.Context, token *models.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.Value] = *token
	return nil
}

func (r *TokenRepo) ByValue(ctx context.Context, value string) (*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[value]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &token, nil
}

func (r *TokenRepo) Revoke(ctx context.Context, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[value]
	if !ok || token.Revoked {
		return models.ErrTokenNotFound
	}
	token.Revoked = true
	r.tokens[value] = token
	return nil
}

type projectEntry struct {
	project models.Project
	seq     int
}

type ProjectRepo struct {
	mu       sync.Mutex
	projects map[primitive.ObjectID]projectEntry
	seq      int
}

func NewProjectRepo() *ProjectRepo {
	return &ProjectRepo{projects: make(map[primitive.ObjectID]projectEntry)}
}

func (r *ProjectRepo) Create(ctx context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.projects[project.ID] = projectEntry{project: *project, seq: r.seq}
	return nil
}

func (r *ProjectRepo) ByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.projects[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	project := entry.project
	return &project, nil
}

func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.projects[project.ID]
	if !ok {
		return models.ErrNotFound
	}
	entry.project.Name = project.Name
	entry.project.Description = project.Description
	r.projects[project.ID] = entry
	return nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *ProjectRepo) Search(ctx context.Context, ownerID primitive.ObjectID, q services.ProjectQuery) ([]models.Project, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var entries []projectEntry
	for _, entry := range r.projects {
		if entry.project.OwnerID != ownerID {
			continue
		}
		if q.Text != "" && !containsFold(entry.project.Name, q.Text) && !containsFold(entry.project.Description, q.Text) {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq > entries[j].seq })

	total := int64(len(entries))
	entries = paginate(entries, q.Page, q.PerPage)
	projects := make([]models.Project, 0, len(entries))
	for _, entry := range entries {
		projects = append(projects, entry.project)
	}
	return projects, total, nil
}

type taskEntry struct {
	task models.Task
	seq  int
}

type TaskRepo struct {
	mu    sync.Mutex
	tasks map[primitive.ObjectID]taskEntry
	seq   int
}

func NewTaskRepo() *TaskRepo {
	return &TaskRepo{tasks: make(map[primitive.ObjectID]taskEntry)}
}

func (r *TaskRepo) Create(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.tasks[task.ID] = taskEntry{task: cloneTask(*task), seq: r.seq}
	return nil
}

func (r *TaskRepo) ByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.tasks[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	task := cloneTask(entry.task)
	return &task, nil
}

func (r *TaskRepo) Update(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.tasks[task.ID]
	if !ok {
		return models.ErrNotFound
	}
	updated := cloneTask(*task)
	updated.CreatorID = entry.task.CreatorID
	updated.CreatedAt = entry.task.CreatedAt
	entry.task = updated
	r.tasks[task.ID] = entry
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *TaskRepo) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, entry := range r.tasks {
		if entry.task.ProjectID == projectID {
			delete(r.tasks, id)
		}
	}
	return nil
}

func (r *TaskRepo) Search(ctx context.Context, actorID primitive.ObjectID, q services.TaskQuery) ([]models.Task, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var entries []taskEntry
	for _, entry := range r.tasks {
		task := entry.task
		if !visibleTo(task, actorID) {
			continue
		}
		if q.ProjectID != nil && task.ProjectID != *q.ProjectID {
			continue
		}
		if q.Status != "" && task.Status != q.Status {
			continue
		}
		if q.Text != "" && !containsFold(task.Title, q.Text) && !containsFold(task.Description, q.Text) {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq > entries[j].seq })

	total := int64(len(entries))
	entries = paginate(entries, q.Page, q.PerPage)
	tasks := make([]models.Task, 0, len(entries))
	for _, entry := range entries {
		tasks = append(tasks, cloneTask(entry.task))
	}
	return tasks, total, nil
}

func visibleTo(task models.Task, actorID primitive.ObjectID) bool {
	if task.CreatorID == actorID {
		return true
	}
	for _, id := range task.AssigneeIDs {
		if id == actorID {
			return true
		}
	}
	return false
}

func cloneTask(task models.Task) models.Task {
	assignees := make([]primitive.ObjectID, len(task.AssigneeIDs))
	copy(assignees, task.AssigneeIDs)
	task.AssigneeIDs = assignees
	return task
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func paginate[T any](entries []T, page, perPage int) []T {
	start := (page - 1) * perPage
	if start >= len(entries) {
		return nil
	}
	end := start + perPage
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}
