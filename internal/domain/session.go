// internal/domain/session.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxFeedbackLength caps the free-text feedback stored on a session.
const MaxFeedbackLength = 1000

// WorkoutSession records a user working through a generated plan.
// It is created by a start or a completion and only ever patched to completed.
type WorkoutSession struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID      primitive.ObjectID `bson:"planId" json:"planId"`
	UserID      string             `bson:"userId" json:"userId"`
	StartedAt   *time.Time         `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Feedback    string             `bson:"feedback,omitempty" json:"feedback,omitempty"`
	Rating      *int               `bson:"rating,omitempty" json:"rating,omitempty"` // 1-5
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Open reports whether the session was started but not completed yet.
func (s *WorkoutSession) Open() bool {
	return s.StartedAt != nil && s.CompletedAt == nil
}
