package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is owned by exactly one user. The owner is set at creation
// time from the authenticated actor and never changes afterwards.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
