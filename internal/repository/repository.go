package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/fitgen/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// PlanFilter selects plans. Zero fields are not constrained.
type PlanFilter struct {
	UserID        string
	IDs           []primitive.ObjectID
	PromptVersion string
	Fingerprint   string
}

// FindOptions controls ordering and size of list queries. Limit <= 0 means no limit.
type FindOptions struct {
	SortNewestFirst bool
	Limit           int64
}

// PlanRepository stores generated plans. Plans are immutable, so there is no update.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	// GetByFingerprint returns the newest plan for the triple, or ErrNotFound.
	GetByFingerprint(ctx context.Context, userID, promptVersion, fingerprint string) (*domain.WorkoutPlan, error)
	Find(ctx context.Context, filter PlanFilter, opts FindOptions) ([]domain.WorkoutPlan, error)
}

// SessionRepository stores workout sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error)
	// FindOpen returns the newest started, uncompleted session of the user for the plan.
	FindOpen(ctx context.Context, userID string, planID primitive.ObjectID) (*domain.WorkoutSession, error)
	// Complete patches an open session. It returns ErrNotFound when the session is
	// missing or already completed.
	Complete(ctx context.Context, id primitive.ObjectID, completedAt time.Time, feedback string, rating *int) error
	// ListCompleted returns completed sessions of the user, most recently completed first.
	ListCompleted(ctx context.Context, userID string, limit int64) ([]domain.WorkoutSession, error)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ProfileRepository stores one fitness profile per user.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
}

// GenerationLogRepository records every call to the generation model.
type GenerationLogRepository interface {
	Create(ctx context.Context, entry *domain.GenerationLog) (primitive.ObjectID, error)
}
