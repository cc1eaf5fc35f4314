// Package memory holds in-process implementations of the repository interfaces.
// They back the service and API tests and behave like the Mongo repositories for the
// queries the services issue.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/fitgen/internal/domain"
	"alcyxob/fitgen/internal/repository"
)

var (
	_ repository.PlanRepository          = (*Plans)(nil)
	_ repository.SessionRepository       = (*Sessions)(nil)
	_ repository.UserRepository          = (*Users)(nil)
	_ repository.ProfileRepository       = (*Profiles)(nil)
	_ repository.GenerationLogRepository = (*GenerationLogs)(nil)
)

// Plans implements repository.PlanRepository.
type Plans struct {
	mu    sync.Mutex
	plans []domain.WorkoutPlan
}

func NewPlans() *Plans { return &Plans{} }

func (r *Plans) Create(_ context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan.ID = primitive.NewObjectID()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}
	r.plans = append(r.plans, *plan)
	return plan.ID, nil
}

func (r *Plans) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.plans {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Plans) GetByFingerprint(ctx context.Context, userID, promptVersion, fingerprint string) (*domain.WorkoutPlan, error) {
	found, _ := r.Find(ctx, repository.PlanFilter{UserID: userID, PromptVersion: promptVersion, Fingerprint: fingerprint},
		repository.FindOptions{SortNewestFirst: true, Limit: 1})
	if len(found) == 0 {
		return nil, repository.ErrNotFound
	}
	return &found[0], nil
}

func (r *Plans) Find(_ context.Context, f repository.PlanFilter, o repository.FindOptions) ([]domain.WorkoutPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.WorkoutPlan{}
	for _, p := range r.plans {
		switch {
		case f.UserID != "" && p.UserID != f.UserID,
			f.IDs != nil && !slices.Contains(f.IDs, p.ID),
			f.PromptVersion != "" && p.PromptVersion != f.PromptVersion,
			f.Fingerprint != "" && p.Fingerprint != f.Fingerprint:
			continue
		}
		out = append(out, p)
	}
	if o.SortNewestFirst {
		// Stable so equal timestamps keep the later insert first after reversal.
		slices.Reverse(out)
		slices.SortStableFunc(out, func(a, b domain.WorkoutPlan) int { return b.CreatedAt.Compare(a.CreatedAt) })
	}
	if o.Limit > 0 && int64(len(out)) > o.Limit {
		out = out[:o.Limit]
	}
	return out, nil
}

// Len returns the number of stored plans.
func (r *Plans) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.plans)
}

// Sessions implements repository.SessionRepository.
type Sessions struct {
	mu       sync.Mutex
	sessions []domain.WorkoutSession
}

func NewSessions() *Sessions { return &Sessions{} }

func (r *Sessions) Create(_ context.Context, s *domain.WorkoutSession) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	r.sessions = append(r.sessions, *s)
	return s.ID, nil
}

func (r *Sessions) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Sessions) FindOpen(_ context.Context, userID string, planID primitive.ObjectID) (*domain.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var newest *domain.WorkoutSession
	for i := range r.sessions {
		s := &r.sessions[i]
		if s.UserID != userID || s.PlanID != planID || !s.Open() {
			continue
		}
		if newest == nil || s.StartedAt.After(*newest.StartedAt) {
			newest = s
		}
	}
	if newest == nil {
		return nil, repository.ErrNotFound
	}
	out := *newest
	return &out, nil
}

func (r *Sessions) Complete(_ context.Context, id primitive.ObjectID, completedAt time.Time, feedback string, rating *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sessions {
		s := &r.sessions[i]
		if s.ID != id || !s.Open() {
			continue
		}
		s.CompletedAt = &completedAt
		if feedback != "" {
			s.Feedback = feedback
		}
		if rating != nil {
			v := *rating
			s.Rating = &v
		}
		s.UpdatedAt = time.Now().UTC()
		return nil
	}
	return repository.ErrNotFound
}

func (r *Sessions) ListCompleted(_ context.Context, userID string, limit int64) ([]domain.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.WorkoutSession{}
	for _, s := range r.sessions {
		if s.UserID == userID && s.CompletedAt != nil {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.WorkoutSession) int { return b.CompletedAt.Compare(*a.CompletedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Users implements repository.UserRepository.
type Users struct {
	mu    sync.Mutex
	users []domain.User
}

func NewUsers() *Users { return &Users{} }

func (r *Users) Create(_ context.Context, u *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.Email = strings.ToLower(u.Email)
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	r.users = append(r.users, *u)
	return u.ID, nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Users) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Profiles implements repository.ProfileRepository.
type Profiles struct {
	mu       sync.Mutex
	profiles []domain.Profile
}

func NewProfiles() *Profiles { return &Profiles{} }

func (r *Profiles) Create(_ context.Context, p *domain.Profile) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.profiles {
		if existing.UserID == p.UserID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	p.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	r.profiles = append(r.profiles, *p)
	return p.ID, nil
}

func (r *Profiles) find(match func(domain.Profile) bool) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if match(p) {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Profiles) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Profile, error) {
	return r.find(func(p domain.Profile) bool { return p.ID == id })
}

func (r *Profiles) GetByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	return r.find(func(p domain.Profile) bool { return p.UserID == userID })
}

func (r *Profiles) Update(_ context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.profiles {
		if r.profiles[i].ID == p.ID {
			p.UserID = r.profiles[i].UserID
			p.CreatedAt = r.profiles[i].CreatedAt
			p.UpdatedAt = time.Now().UTC()
			r.profiles[i] = *p
			return nil
		}
	}
	return repository.ErrNotFound
}

// GenerationLogs implements repository.GenerationLogRepository.
type GenerationLogs struct {
	mu      sync.Mutex
	entries []domain.GenerationLog
}

func NewGenerationLogs() *GenerationLogs { return &GenerationLogs{} }

func (r *GenerationLogs) Create(_ context.Context, e *domain.GenerationLog) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = primitive.NewObjectID()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	r.entries = append(r.entries, *e)
	return e.ID, nil
}

// Entries returns a copy of every recorded entry.
func (r *GenerationLogs) Entries() []domain.GenerationLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.entries)
}
