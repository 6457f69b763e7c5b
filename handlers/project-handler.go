package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskhub/middleware"
	"taskhub/models"
	"taskhub/services"
)

type ProjectHandler struct {
	projects *services.ProjectService
}

func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, r, models.ErrUnauthenticated)
		return
	}

	query := services.ProjectQuery{
		Text:    r.URL.Query().Get("search"),
		Page:    intQuery(r, "page"),
		PerPage: intQuery(r, "per_page"),
	}
	page, err := h.projects.Search(r.Context(), actor, query)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse{Success: true, Data: page})
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, r, models.ErrUnauthenticated)
		return
	}

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, &models.ValidationError{Fields: map[string]string{"body": "Invalid JSON payload."}})
		return
	}
	if req.Name == "" {
		respondError(w, r, &models.ValidationError{Fields: map[string]string{"name": "The name field is required."}})
		return
	}
	if len(req.Name) > 255 {
		respondError(w, r, &models.ValidationError{Fields: map[string]string{"name": "The name may not be greater than 255 characters."}})
		return
	}

	project, err := h.projects.Create(r.Context(), actor, req.Name, req.Description)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, successResponse{
		Success: true,
		Message: "Project created successfully",
		Data:    project,
	})
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, models.ErrNotFound)
		return
	}

	project, err := h.projects.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse{Success: true, Data: project})
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, &models.ValidationError{Fields: map[string]string{"body": "Invalid JSON payload."}})
		return
	}
	if req.Name != nil && *req.Name == "" {
		respondError(w, r, &models.ValidationError{Fields: map[string]string{"name": "The name field is required."}})
		return
	}
	if req.Name != nil && len(*req.Name) > 255 {
		respondError(w, r, &models.ValidationError{Fields: map[string]string{"name": "The name may not be greater than 255 characters."}})
		return
	}

	project, err := h.projects.Update(r.Context(), actor, id, services.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "Project updated successfully",
		Data:    project,
	})
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.projects.Delete(r.Context(), actor, id); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse{Success: true, Message: "Project deleted successfully"})
}

// pathID parses the {id} route variable. A malformed id behaves like a
// missing resource.
func pathID(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(mux.Vars(r)["id"])
}

func intQuery(r *http.Request, name string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return value
}
