package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/fitgen/internal/apperr"
	"alcyxob/fitgen/internal/domain"
	"alcyxob/fitgen/internal/logger"
	"alcyxob/fitgen/internal/planstore"
	"alcyxob/fitgen/internal/repository"
)

var (
	ErrFeedbackTooLong = fmt.Errorf("feedback must be at most %d characters", domain.MaxFeedbackLength)
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// CompletedListLimit caps the completed-workouts listing.
const CompletedListLimit = 20

const completedScanFactor = 5

type CompleteInput struct {
	Feedback string
	Rating   *int
}

// CompletedWorkout is a plan the user finished, with the session that finished it.
type CompletedWorkout struct {
	Plan    *domain.WorkoutPlan
	Session domain.WorkoutSession
}

type SessionService interface {
	// Start opens a session for the plan. An already open session is returned as-is.
	Start(ctx context.Context, userID string, planID primitive.ObjectID) (*domain.WorkoutSession, error)
	// Complete closes the user's open session for the plan, or records a completed
	// session when none is open.
	Complete(ctx context.Context, userID string, planID primitive.ObjectID, in CompleteInput) (*domain.WorkoutSession, error)
	// ListCompleted returns up to limit plans of completed sessions, most recent first.
	ListCompleted(ctx context.Context, userID string, limit int) ([]CompletedWorkout, error)
}

type sessionService struct {
	sessions repository.SessionRepository
	store    *planstore.Store
	log      *logger.Logger
	now      func() time.Time
}

func NewSessionService(sessions repository.SessionRepository, store *planstore.Store, log *logger.Logger) SessionService {
	return &sessionService{
		sessions: sessions,
		store:    store,
		log:      log.With("component", "session"),
		now:      time.Now,
	}
}

func (s *sessionService) ownedPlan(ctx context.Context, userID string, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.store.FindByID(ctx, planID)
	if err != nil {
		if planstore.IsNotFound(err) {
			return nil, ErrPlanNotFound
		}
		return nil, apperr.Persistence(err)
	}
	if plan.UserID != userID {
		return nil, ErrPlanAccessDenied
	}
	return plan, nil
}

func (s *sessionService) Start(ctx context.Context, userID string, planID primitive.ObjectID) (*domain.WorkoutSession, error) {
	if _, err := s.ownedPlan(ctx, userID, planID); err != nil {
		return nil, err
	}

	open, err := s.sessions.FindOpen(ctx, userID, planID)
	if err == nil {
		return open, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Persistence(err)
	}

	now := s.now().UTC()
	session := &domain.WorkoutSession{PlanID: planID, UserID: userID, StartedAt: &now}
	if _, err := s.sessions.Create(ctx, session); err != nil {
		return nil, apperr.Persistence(err)
	}
	return session, nil
}

func validateCompletion(in CompleteInput) error {
	if utf8.RuneCountInString(in.Feedback) > domain.MaxFeedbackLength {
		return ErrFeedbackTooLong
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return ErrInvalidRating
	}
	return nil
}

func (s *sessionService) Complete(ctx context.Context, userID string, planID primitive.ObjectID, in CompleteInput) (*domain.WorkoutSession, error) {
	if err := validateCompletion(in); err != nil {
		return nil, err
	}
	if _, err := s.ownedPlan(ctx, userID, planID); err != nil {
		return nil, err
	}
	now := s.now().UTC()

	open, err := s.sessions.FindOpen(ctx, userID, planID)
	switch {
	case err == nil:
		err = s.sessions.Complete(ctx, open.ID, now, in.Feedback, in.Rating)
		if err == nil {
			done, err := s.sessions.GetByID(ctx, open.ID)
			if err != nil {
				return nil, apperr.Persistence(err)
			}
			return done, nil
		}
		// Someone completed it first; record this completion on its own.
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Persistence(err)
		}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperr.Persistence(err)
	}

	session := &domain.WorkoutSession{
		PlanID:      planID,
		UserID:      userID,
		CompletedAt: &now,
		Feedback:    in.Feedback,
		Rating:      in.Rating,
	}
	if _, err := s.sessions.Create(ctx, session); err != nil {
		return nil, apperr.Persistence(err)
	}
	return session, nil
}

func (s *sessionService) ListCompleted(ctx context.Context, userID string, limit int) ([]CompletedWorkout, error) {
	if limit <= 0 || limit > CompletedListLimit {
		limit = CompletedListLimit
	}
	// Repeat completions of one plan collapse below, so scan past the limit.
	sessions, err := s.sessions.ListCompleted(ctx, userID, int64(limit)*completedScanFactor)
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	// A plan completed more than once is listed at its most recent completion.
	var (
		latest []domain.WorkoutSession
		ids    []primitive.ObjectID
		seen   = map[primitive.ObjectID]bool{}
	)
	for _, sess := range sessions {
		if seen[sess.PlanID] {
			continue
		}
		seen[sess.PlanID] = true
		latest = append(latest, sess)
		ids = append(ids, sess.PlanID)
		if len(latest) == limit {
			break
		}
	}
	if len(ids) == 0 {
		return []CompletedWorkout{}, nil
	}

	plans, err := s.store.Find(ctx, repository.PlanFilter{UserID: userID, IDs: ids}, repository.FindOptions{})
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	byID := make(map[primitive.ObjectID]*domain.WorkoutPlan, len(plans))
	for i := range plans {
		byID[plans[i].ID] = &plans[i]
	}

	out := make([]CompletedWorkout, 0, len(latest))
	for _, sess := range latest {
		plan, ok := byID[sess.PlanID]
		if !ok {
			s.log.Warn("completed session references a missing plan", "session_id", sess.ID.Hex(), "plan_id", sess.PlanID.Hex())
			continue
		}
		out = append(out, CompletedWorkout{Plan: plan, Session: sess})
	}
	return out, nil
}
