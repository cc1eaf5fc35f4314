package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"

	"alcyxob/fitgen/internal/apperr"
	"alcyxob/fitgen/internal/domain"
	"alcyxob/fitgen/internal/llm"
	"alcyxob/fitgen/internal/logger"
	"alcyxob/fitgen/internal/planner"
	"alcyxob/fitgen/internal/planstore"
	"alcyxob/fitgen/internal/repository"
	"alcyxob/fitgen/internal/storage"
)

var (
	ErrPlanNotFound     = errors.New("workout plan not found")
	ErrPlanAccessDenied = errors.New("access denied: plan belongs to another user")
)

// Quick-generate defaults.
const (
	QuickWorkoutType = "general_fitness"
	QuickDurationMin = 30
	QuickExperience  = domain.ExperienceIntermediate
)

var QuickEquipment = []string{"bodyweight"}

// auditTimeout bounds the archive and generation-log writes, which outlive the request.
const auditTimeout = 10 * time.Second

// PlanGenerator is the part of llm.Generator the workout service uses.
type PlanGenerator interface {
	Generate(ctx context.Context, prompt planner.Prompt, opts llm.GenerateOptions) (*llm.Result, error)
}

// GenerateResult is a stored plan and whether it was served from an earlier generation.
type GenerateResult struct {
	Plan    *domain.WorkoutPlan
	Deduped bool
}

type WorkoutService interface {
	// Generate returns the user's existing plan for the canonical request, or generates,
	// normalizes and stores a new one.
	Generate(ctx context.Context, req domain.PreWorkoutRequest) (*GenerateResult, error)
	QuickGenerate(ctx context.Context, userID string) (*GenerateResult, error)
	// GetPlan returns the plan if callerID owns it.
	GetPlan(ctx context.Context, callerID string, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
}

type workoutService struct {
	store         *planstore.Store
	generator     PlanGenerator
	genLogs       repository.GenerationLogRepository
	archive       storage.Archive
	promptVersion string
	model         string
	log           *logger.Logger
	flight        singleflight.Group
	now           func() time.Time
}

// NewWorkoutService wires the generation pipeline. model is recorded on plans when the
// provider does not report the model it used.
func NewWorkoutService(
	store *planstore.Store,
	generator PlanGenerator,
	genLogs repository.GenerationLogRepository,
	archive storage.Archive,
	promptVersion, model string,
	log *logger.Logger,
) WorkoutService {
	if archive == nil {
		archive = storage.Noop{}
	}
	return &workoutService{
		store:         store,
		generator:     generator,
		genLogs:       genLogs,
		archive:       archive,
		promptVersion: promptVersion,
		model:         model,
		log:           log.With("component", "workout"),
		now:           time.Now,
	}
}

func (s *workoutService) Generate(ctx context.Context, req domain.PreWorkoutRequest) (*GenerateResult, error) {
	fp := planner.Fingerprint(req)

	existing, err := s.store.FindByFingerprint(ctx, req.UserID, s.promptVersion, fp)
	switch {
	case err == nil:
		s.log.Info("serving deduplicated plan", "user_id", req.UserID, "plan_id", existing.ID.Hex())
		return &GenerateResult{Plan: existing, Deduped: true}, nil
	case !planstore.IsNotFound(err):
		return nil, apperr.Persistence(fmt.Errorf("dedup lookup: %w", err))
	}

	// Identical requests racing in this process share one model call. Only the caller
	// whose function ran generated anything; everyone else is served a deduped plan.
	leader := false
	v, err, _ := s.flight.Do(planstore.Key(s.promptVersion, fp), func() (any, error) {
		leader = true
		// A flight that finished between our lookup and Do has already stored the plan.
		if again, err := s.store.FindByFingerprint(ctx, req.UserID, s.promptVersion, fp); err == nil {
			return &GenerateResult{Plan: again, Deduped: true}, nil
		}
		return s.generateAndStore(ctx, req, fp)
	})
	if err != nil {
		return nil, err
	}
	res := v.(*GenerateResult)
	return &GenerateResult{Plan: res.Plan, Deduped: res.Deduped || !leader}, nil
}

func (s *workoutService) QuickGenerate(ctx context.Context, userID string) (*GenerateResult, error) {
	return s.Generate(ctx, QuickRequest(userID))
}

// QuickRequest is the request quick-generate issues for userID.
func QuickRequest(userID string) domain.PreWorkoutRequest {
	return domain.PreWorkoutRequest{
		UserID:            userID,
		WorkoutType:       QuickWorkoutType,
		Experience:        QuickExperience,
		Goals:             []string{QuickWorkoutType},
		TimeAvailableMin:  QuickDurationMin,
		EquipmentOverride: append([]string(nil), QuickEquipment...),
	}
}

func (s *workoutService) generateAndStore(ctx context.Context, req domain.PreWorkoutRequest, fp string) (*GenerateResult, error) {
	prompt := planner.ComposePrompt(req)
	started := s.now()
	res, err := s.generator.Generate(ctx, prompt, llm.GenerateOptions{
		WorkoutType: req.WorkoutType,
		Experience:  req.Experience,
		DurationMin: req.TimeAvailableMin,
	})

	entry := &domain.GenerationLog{
		UserID:        req.UserID,
		Fingerprint:   fp,
		PromptVersion: s.promptVersion,
		Model:         s.model,
		Outcome:       domain.GenerationSucceeded,
		DurationMs:    s.now().Sub(started).Milliseconds(),
		CreatedAt:     started.UTC(),
	}
	if res != nil {
		if res.Model != "" {
			entry.Model = res.Model
		}
		entry.TokensUsed = res.TokensUsed
		entry.ArchiveKey = s.archiveRaw(ctx, started, fp, res.Raw)
	}

	if err != nil {
		entry.Outcome = domain.GenerationFailed
		var genErr *llm.GenerationError
		if errors.As(err, &genErr) {
			entry.ErrorKind = string(genErr.Kind)
			if entry.ArchiveKey == "" {
				entry.ArchiveKey = s.archiveRaw(ctx, started, fp, genErr.Raw)
			}
		}
		s.recordGeneration(ctx, entry)
		s.log.Warn("plan generation failed", "user_id", req.UserID, "kind", entry.ErrorKind, "error", err)
		return nil, err
	}

	plan := planner.Normalize(res.Draft, req)
	plan.UserID = req.UserID
	plan.Model = entry.Model
	plan.PromptVersion = s.promptVersion
	plan.Variant = prompt.Variant
	plan.Fingerprint = fp
	plan.CreatedAt = s.now().UTC()

	saved, created, err := s.store.Create(ctx, &plan)
	if err != nil {
		entry.Outcome = domain.GenerationFailed
		entry.ErrorKind = "persistence"
		s.recordGeneration(ctx, entry)
		return nil, apperr.Persistence(err)
	}
	entry.PlanID = &saved.ID
	s.recordGeneration(ctx, entry)

	s.log.Info("generated plan",
		"user_id", req.UserID,
		"plan_id", saved.ID.Hex(),
		"model", plan.Model,
		"tokens", entry.TokensUsed,
		"duration_ms", entry.DurationMs,
	)
	return &GenerateResult{Plan: saved, Deduped: !created}, nil
}

// archiveRaw stores the raw model text and returns its key, or "" when nothing was stored.
func (s *workoutService) archiveRaw(ctx context.Context, at time.Time, fp, raw string) string {
	if raw == "" {
		return ""
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()
	key := storage.GenerationKey(at, fp)
	if err := s.archive.PutObject(ctx, key, storage.ArchiveContentType, []byte(raw)); err != nil {
		s.log.Warn("archiving model output failed", "key", key, "error", err)
		return ""
	}
	return key
}

func (s *workoutService) recordGeneration(ctx context.Context, entry *domain.GenerationLog) {
	if s.genLogs == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()
	if _, err := s.genLogs.Create(ctx, entry); err != nil {
		s.log.Warn("recording generation failed", "fingerprint", entry.Fingerprint, "error", err)
	}
}

func (s *workoutService) GetPlan(ctx context.Context, callerID string, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.store.FindByID(ctx, planID)
	if err != nil {
		if planstore.IsNotFound(err) {
			return nil, ErrPlanNotFound
		}
		return nil, apperr.Persistence(err)
	}
	if plan.UserID != callerID {
		return nil, ErrPlanAccessDenied
	}
	return plan, nil
}
