package services

import (
	"context"

	"taskhub/models"
)

// UserService exposes the user directory consumed by the assignee
// picker: every registered user, password hashes stripped.
type UserService struct {
	users UserRepository
}

func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}
