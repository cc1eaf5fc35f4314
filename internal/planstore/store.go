// Package planstore persists generated plans and answers the dedup lookup that runs
// before every generation.
//
// Uniqueness of (user, prompt version, fingerprint) is best-effort. A TTL cache in front
// of the repository short-circuits repeated writes inside its window, but two processes
// (or two callers racing past an empty cache) can both insert. Readers resolve duplicates
// by taking the newest plan.
package planstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/fitgen/internal/cache"
	"alcyxob/fitgen/internal/domain"
	"alcyxob/fitgen/internal/logger"
	"alcyxob/fitgen/internal/planner"
	"alcyxob/fitgen/internal/repository"
)

// DefaultTTL is how long a dedup entry stays cached.
const DefaultTTL = 10 * time.Minute

var ErrNotFound = repository.ErrNotFound

// Store combines the plan repository with the dedup cache.
type Store struct {
	repo  repository.PlanRepository
	cache cache.Cache
	ttl   time.Duration
	log   *logger.Logger
	now   func() time.Time
}

func New(repo repository.PlanRepository, c cache.Cache, ttl time.Duration, log *logger.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{repo: repo, cache: c, ttl: ttl, log: log.With("component", "planstore"), now: time.Now}
}

// Key is the dedup cache key. The prompt version is part of it, so a prompt change starts
// an empty key space.
func Key(promptVersion, fingerprint string) string {
	return "plan:" + promptVersion + ":" + fingerprint
}

// Create persists plan unless a plan with the same key is already cached, in which case
// the cached plan is returned with created=false. The fingerprint is computed from the
// embedded request when missing.
func (s *Store) Create(ctx context.Context, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, bool, error) {
	if plan.Fingerprint == "" {
		plan.Fingerprint = planner.Fingerprint(plan.Request)
	}
	key := Key(plan.PromptVersion, plan.Fingerprint)

	if cached := s.cached(ctx, key, plan.UserID); cached != nil {
		return cached, false, nil
	}

	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = s.now().UTC()
	}
	id, err := s.repo.Create(ctx, plan)
	if err != nil {
		return nil, false, fmt.Errorf("saving plan: %w", err)
	}
	plan.ID = id
	s.remember(ctx, key, plan)
	return plan, true, nil
}

// FindByFingerprint returns the existing plan for the triple, or ErrNotFound.
func (s *Store) FindByFingerprint(ctx context.Context, userID, promptVersion, fingerprint string) (*domain.WorkoutPlan, error) {
	key := Key(promptVersion, fingerprint)
	if cached := s.cached(ctx, key, userID); cached != nil {
		return cached, nil
	}

	plan, err := s.repo.GetByFingerprint(ctx, userID, promptVersion, fingerprint)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, key, plan)
	return plan, nil
}

func (s *Store) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Store) Find(ctx context.Context, filter repository.PlanFilter, opts repository.FindOptions) ([]domain.WorkoutPlan, error) {
	return s.repo.Find(ctx, filter, opts)
}

// cached returns the cached plan for key. Cache failures are logged and treated as misses.
func (s *Store) cached(ctx context.Context, key, userID string) *domain.WorkoutPlan {
	if s.cache == nil {
		return nil
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("plan cache read failed", "key", key, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var plan domain.WorkoutPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		s.log.Warn("dropping undecodable plan cache entry", "key", key, "error", err)
		_ = s.cache.Delete(ctx, key)
		return nil
	}
	// The fingerprint covers the user id, so this only trips on a corrupted entry.
	if plan.UserID != userID {
		return nil
	}
	return &plan
}

func (s *Store) remember(ctx context.Context, key string, plan *domain.WorkoutPlan) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(plan)
	if err == nil {
		err = s.cache.Set(ctx, key, raw, s.ttl)
	}
	if err != nil {
		s.log.Warn("plan cache write failed", "key", key, "error", err)
	}
}

// IsNotFound reports whether err means the plan does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
