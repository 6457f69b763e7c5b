package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"

	"taskhub/middleware"
	"taskhub/models"
	"taskhub/services"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *registerRequest) validate() error {
	fields := make(map[string]string)
	if req.Name == "" {
		fields["name"] = "The name field is required."
	} else if len(req.Name) > 255 {
		fields["name"] = "The name may not be greater than 255 characters."
	}
	if req.Email == "" {
		fields["email"] = "The email field is required."
	} else if len(req.Email) > 255 || !emailPattern.MatchString(req.Email) {
		fields["email"] = "The email must be a valid email address."
	}
	if req.Password == "" {
		fields["password"] = "The password field is required."
	} else if len(req.Password) < 8 {
		fields["password"] = "The password must be at least 8 characters."
	}
	if len(fields) > 0 {
		return &models.ValidationError{Fields: fields}
	}
	return nil
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, &models.ValidationError{Fields: map[string]string{"body": "Invalid JSON payload."}})
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, r, err)
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, successResponse{
		Success: true,
		Message: "User registered successfully",
		Data:    map[string]any{"user": user, "token": token},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *loginRequest) validate() error {
	fields := make(map[string]string)
	if req.Email == "" {
		fields["email"] = "The email field is required."
	}
	if req.Password == "" {
		fields["password"] = "The password field is required."
	}
	if len(fields) > 0 {
		return &models.ValidationError{Fields: fields}
	}
	return nil
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, &models.ValidationError{Fields: map[string]string{"body": "Invalid JSON payload."}})
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, r, err)
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "Login successful",
		Data:    map[string]any{"user": user, "token": token},
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		respondError(w, r, models.ErrUnauthenticated)
		return
	}

	if err := h.auth.Logout(r.Context(), token); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse{Success: true, Message: "Logout successful"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, r, models.ErrUnauthenticated)
		return
	}

	respondJSON(w, http.StatusOK, successResponse{Success: true, Data: user})
}
