package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// Valid reports whether the status is one of the three defined values.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task belongs to exactly one project and has exactly one creator.
// The creator is immutable post-creation; assignees are tracked for
// visibility only and carry no mutation rights.
type Task struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID   `bson:"project_id" json:"project_id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Status      TaskStatus           `bson:"status" json:"status"`
	CreatorID   primitive.ObjectID   `bson:"creator_id" json:"creator_id"`
	AssigneeIDs []primitive.ObjectID `bson:"assignee_ids" json:"assignee_ids"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
}
