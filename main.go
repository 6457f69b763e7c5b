package main

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskhub/config"
	"taskhub/handlers"
	"taskhub/logging"
	"taskhub/middleware"
	"taskhub/repositories"
	"taskhub/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Event ID: CONFIG_ERROR, Description: Failed to load configuration: %v", err)
	}

	logging.InitLogger(cfg.LogFile, cfg.Debug)
	handlers.SetDebug(cfg.Debug)
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Taskhub...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", cfg.MongoURI)

	db := client.Database(cfg.MongoDB)
	if err := repositories.EnsureIndexes(ctx, db); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
	}

	breaker := repositories.NewStoreBreaker()
	userRepo := repositories.NewUserRepo(db.Collection("users"), breaker)
	tokenRepo := repositories.NewTokenRepo(db.Collection("tokens"), breaker)
	projectRepo := repositories.NewProjectRepo(db.Collection("projects"), breaker)
	taskRepo := repositories.NewTaskRepo(db.Collection("tasks"), breaker)

	tokenService := services.NewTokenService(tokenRepo)
	authService := services.NewAuthService(userRepo, tokenService, cfg.BcryptCost)
	projectService := services.NewProjectService(projectRepo, taskRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo)
	userService := services.NewUserService(userRepo)

	router := handlers.NewRouter(
		handlers.NewAuthHandler(authService),
		handlers.NewProjectHandler(projectService),
		handlers.NewTaskHandler(taskService),
		handlers.NewUserHandler(userService),
		middleware.Authenticate(authService),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      enableCORS(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost:%s", cfg.ServerPort)
	if err := srv.ListenAndServe(); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
