package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskhub/models"
)

// tokenBytes is the entropy of an issued token. 32 bytes is well above
// the 128-bit minimum needed to make collisions and guessing negligible.
const tokenBytes = 32

// TokenService mints and revokes the opaque bearer tokens that stand in
// for sessions. Tokens are random values stored server-side, so a
// revocation acknowledged to the caller is immediately visible to every
// subsequent Resolve.
type TokenService struct {
	tokens TokenRepository
}

func NewTokenService(tokens TokenRepository) *TokenService {
	return &TokenService{tokens: tokens}
}

// Issue mints a new token for the user. Prior tokens stay valid.
func (s *TokenService) Issue(ctx context.Context, userID primitive.ObjectID) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	value := hex.EncodeToString(buf)

	token := &models.Token{
		ID:       primitive.NewObjectID(),
		Value:    value,
		UserID:   userID,
		IssuedAt: time.Now(),
	}
	if err := s.tokens.Insert(ctx, token); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return value, nil
}

// Resolve maps a presented token to its owning user id. Unknown and
// revoked tokens both fail with models.ErrUnauthenticated.
func (s *TokenService) Resolve(ctx context.Context, value string) (primitive.ObjectID, error) {
	token, err := s.tokens.ByValue(ctx, value)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return primitive.NilObjectID, models.ErrUnauthenticated
		}
		return primitive.NilObjectID, err
	}
	if token.Revoked {
		return primitive.NilObjectID, models.ErrUnauthenticated
	}
	return token.UserID, nil
}

// Revoke invalidates the token. Revoking an unknown or already-revoked
// token fails with models.ErrTokenNotFound.
func (s *TokenService) Revoke(ctx context.Context, value string) error {
	return s.tokens.Revoke(ctx, value)
}
