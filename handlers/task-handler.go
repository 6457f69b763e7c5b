package handlers

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskhub/middleware"
	"taskhub/models"
	"taskhub/services"
)

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, r, models.ErrUnauthenticated)
		return
	}

	query := services.TaskQuery{
		Text:    r.URL.Query().Get("search"),
		Status:  models.TaskStatus(r.URL.Query().Get("status")),
		Page:    intQuery(r, "page"),
		PerPage: intQuery(r, "per_page"),
	}
	if raw := r.URL.Query().Get("project_id"); raw != "" {
		projectID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondError(w, r, &models.ValidationError{Fields: map[string]string{"project_id": "The selected project does not exist."}})
			return
		}
		query.ProjectID = &projectID
	}

	page, err := h.tasks.Search(r.Context(), actor, query)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse{Success: true, Data: page})
}

type createTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	ProjectID   string   `json:"project_id"`
	AssigneeIDs []string `json:"assignee_ids"`
}

func (req *createTaskRequest) validate() (services.TaskInput, error) {
	fields := make(map[string]string)
	var input services.TaskInput

	if req.Title == "" {
		fields["title"] = "The task title is required."
	} else if len(req.Title) > 255 {
		fields["title"] = "The title may not be greater than 255 characters."
	}
	input.Title = req.Title
	input.Description = req.Description

	if req.Status != "" {
		status := models.TaskStatus(req.Status)
		if !status.Valid() {
			fields["status"] = "The selected status is invalid."
		}
		input.Status = status
	}

	if req.ProjectID == "" {
		fields["project_id"] = "The project is required."
	} else {
		projectID, err := primitive.ObjectIDFromHex(req.ProjectID)
		if err != nil {
			fields["project_id"] = "The selected project does not exist."
		}
		input.ProjectID = projectID
	}

	if len(req.AssigneeIDs) > 0 {
		ids, ok := parseObjectIDs(req.AssigneeIDs)
		if !ok {
			fields["assignee_ids"] = "One or more selected users do not exist."
		}
		input.AssigneeIDs = ids
	}

	if len(fields) > 0 {
		return input, &models.ValidationError{Fields: fields}
	}
	return input, nil
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, r, models.ErrUnauthenticated)
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, &models.ValidationError{Fields: map[string]string{"body": "Invalid JSON payload."}})
		return
	}
	input, err := req.validate()
	if err != nil {
		respondError(w, r, err)
		return
	}

	task, err := h.tasks.Create(r.Context(), actor, input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, successResponse{
		Success: true,
		Message: "Task created successfully",
		Data:    task,
	})
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, models.ErrNotFound)
		return
	}

	task, err := h.tasks.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse{Success: true, Data: task})
}

type updateTaskRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Status      *string   `json:"status"`
	ProjectID   *string   `json:"project_id"`
	AssigneeIDs *[]string `json:"assignee_ids"`
}

func (req *updateTaskRequest) validate() (services.TaskPatch, error) {
	fields := make(map[string]string)
	var patch services.TaskPatch

	if req.Title != nil {
		if *req.Title == "" {
			fields["title"] = "The task title is required."
		} else if len(*req.Title) > 255 {
			fields["title"] = "The title may not be greater than 255 characters."
		}
		patch.Title = req.Title
	}
	patch.Description = req.Description

	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		if !status.Valid() {
			fields["status"] = "The selected status is invalid."
		}
		patch.Status = &status
	}

	if req.ProjectID != nil {
		projectID, err := primitive.ObjectIDFromHex(*req.ProjectID)
		if err != nil {
			fields["project_id"] = "The selected project does not exist."
		}
		patch.ProjectID = &projectID
	}

	if req.AssigneeIDs != nil {
		ids, ok := parseObjectIDs(*req.AssigneeIDs)
		if !ok {
			fields["assignee_ids"] = "One or more selected users do not exist."
		}
		if ids == nil {
			ids = []primitive.ObjectID{}
		}
		patch.AssigneeIDs = &ids
	}

	if len(fields) > 0 {
		return patch, &models.ValidationError{Fields: fields}
	}
	return patch, nil
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, r, models.ErrUnauthenticated)
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, models.ErrNotFound)
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, &models.ValidationError{Fields: map[string]string{"body": "Invalid JSON payload."}})
		return
	}
	patch, err := req.validate()
	if err != nil {
		respondError(w, r, err)
		return
	}

	task, err := h.tasks.Update(r.Context(), actor, id, patch)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "Task updated successfully",
		Data:    task,
	})
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, r, models.ErrUnauthenticated)
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, models.ErrNotFound)
		return
	}

	if err := h.tasks.Delete(r.Context(), actor, id); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse{Success: true, Message: "Task deleted successfully"})
}

func parseObjectIDs(raw []string) ([]primitive.ObjectID, bool) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, value := range raw {
		id, err := primitive.ObjectIDFromHex(value)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
