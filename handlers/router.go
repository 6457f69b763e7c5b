package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter assembles the full HTTP surface. Public routes are
// registered before the authenticated subrouter so the middleware never
// touches register/login.
func NewRouter(auth *AuthHandler, projects *ProjectHandler, tasks *TaskHandler, users *UserHandler, authenticate mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/register", auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", auth.Login).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(authenticate)

	protected.HandleFunc("/logout", auth.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/me", auth.Me).Methods(http.MethodGet)
	protected.HandleFunc("/users", users.List).Methods(http.MethodGet)

	protected.HandleFunc("/projects", projects.List).Methods(http.MethodGet)
	protected.HandleFunc("/projects", projects.Create).Methods(http.MethodPost)
	protected.HandleFunc("/projects/{id}", projects.Get).Methods(http.MethodGet)
	protected.HandleFunc("/projects/{id}", projects.Update).Methods(http.MethodPut, http.MethodPatch)
	protected.HandleFunc("/projects/{id}", projects.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/tasks", tasks.List).Methods(http.MethodGet)
	protected.HandleFunc("/tasks", tasks.Create).Methods(http.MethodPost)
	protected.HandleFunc("/tasks/{id}", tasks.Get).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id}", tasks.Update).Methods(http.MethodPut, http.MethodPatch)
	protected.HandleFunc("/tasks/{id}", tasks.Delete).Methods(http.MethodDelete)

	return r
}
