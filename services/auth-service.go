package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"taskhub/logging"
	"taskhub/models"
)

// AuthService implements registration, login, logout, and bearer-token
// resolution on top of the user store and the token issuer.
type AuthService struct {
	users      UserRepository
	tokens     *TokenService
	bcryptCost int
}

func NewAuthService(users UserRepository, tokens *TokenService, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates a user with a bcrypt-hashed password and issues the
// first token for the new account. Fails with models.ErrDuplicateEmail
// when the email is already taken.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	if _, err := s.users.ByEmail(ctx, email); err == nil {
		logging.Logger.Warnf("Event ID: REGISTER_DUPLICATE_EMAIL, Description: Registration attempt with existing email: %s", email)
		return nil, "", models.ErrDuplicateEmail
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The unique index on email closes the race between the
		// lookup above and the insert.
		if errors.Is(err, models.ErrDuplicateEmail) {
			return nil, "", models.ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User registered successfully: %s", user.ID.Hex())
	return user, token, nil
}

// Login verifies the credentials and issues a fresh token without
// invalidating prior ones. Unknown email and wrong password share the
// same models.ErrInvalidCredentials; only the logs distinguish them.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			logging.Logger.Warnf("Event ID: LOGIN_UNKNOWN_EMAIL, Description: Login attempt failed - user not found: %s", email)
			return nil, "", models.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logging.Logger.Warnf("Event ID: LOGIN_BAD_PASSWORD, Description: Login attempt failed - invalid password for user: %s", user.ID.Hex())
		return nil, "", models.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	logging.Logger.Infof("Event ID: USER_LOGGED_IN, Description: User logged in successfully: %s", user.ID.Hex())
	return user, token, nil
}

// Logout revokes exactly the token presented with the current request.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return err
	}
	logging.Logger.Info("Event ID: USER_LOGGED_OUT, Description: Token revoked")
	return nil
}

// CurrentUser resolves a bearer token to its owning user. The stored
// password hash is stripped before the record leaves the service.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthenticated
		}
		return nil, err
	}

	user.Password = ""
	return user, nil
}
