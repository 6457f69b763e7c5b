package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Token is an opaque bearer credential bound to a single user session.
// A user may hold any number of live tokens at once; revocation affects
// only the revoked token.
type Token struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Value    string             `bson:"value"`
	UserID   primitive.ObjectID `bson:"user_id"`
	IssuedAt time.Time          `bson:"issued_at"`
	Revoked  bool               `bson:"revoked"`
}
