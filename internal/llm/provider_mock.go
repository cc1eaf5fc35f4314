package llm

import (
	"context"
	"sync"
	"time"
)

// MockProvider implements Provider for tests and offline development.
// It returns FixedContent, or CompleteErr when set.
type MockProvider struct {
	FixedContent string
	CompleteErr  error
	// Delay holds each call for this long, or until ctx is done.
	Delay time.Duration

	mu    sync.Mutex
	calls []CompletionRequest
}

// NewMockProvider creates a mock provider with a canned response.
func NewMockProvider(content string) *MockProvider {
	return &MockProvider{FixedContent: content}
}

func (p *MockProvider) Name() string { return "Mock" }

func (p *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	p.mu.Unlock()

	if p.Delay > 0 {
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.CompleteErr != nil {
		return nil, p.CompleteErr
	}
	return &Completion{
		Content:    p.FixedContent,
		Model:      "mock",
		TokensUsed: 100,
		Duration:   time.Millisecond,
	}, nil
}

// Calls returns a copy of every request the mock has received.
func (p *MockProvider) Calls() []CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]CompletionRequest, len(p.calls))
	copy(out, p.calls)
	return out
}

// SamplePlanJSON is a small valid plan used by the mock provider when no file is configured.
const SamplePlanJSON = `{
  "meta": {"date": "", "session_type": "full_body", "goal": "general_fitness", "experience": "intermediate",
           "est_duration_min": 30, "equipment_used": ["bodyweight"]},
  "warmup": [
    {"slug": "arm_circles", "name": "Arm Circles", "category": "mobility", "equipment": ["bodyweight"],
     "target_muscles": ["shoulders"], "sets": [{"reps": null, "time_sec": 60, "rest_sec": 0, "tempo": "", "intensity": "light", "notes": ""}]}
  ],
  "blocks": [
    {"name": "Strength", "exercises": [
      {"slug": "bodyweight_squat", "name": "Bodyweight Squat", "category": "strength", "equipment": ["bodyweight"],
       "target_muscles": ["quads", "glutes"], "sets": [
         {"reps": 15, "time_sec": null, "rest_sec": 60, "tempo": "3-1-1-0", "intensity": "moderate", "notes": ""},
         {"reps": 15, "time_sec": null, "rest_sec": 60, "tempo": "3-1-1-0", "intensity": "moderate", "notes": ""},
         {"reps": 12, "time_sec": null, "rest_sec": 60, "tempo": "3-1-1-0", "intensity": "hard", "notes": ""}]},
      {"slug": "push_up", "name": "Push-up", "category": "strength", "equipment": ["bodyweight"],
       "target_muscles": ["chest", "triceps"], "sets": []},
      {"slug": "plank", "name": "Plank", "category": "core", "equipment": ["bodyweight"],
       "target_muscles": ["core"], "sets": [
         {"reps": null, "time_sec": 40, "rest_sec": 30, "tempo": "", "intensity": "moderate", "notes": ""},
         {"reps": null, "time_sec": 40, "rest_sec": 30, "tempo": "", "intensity": "moderate", "notes": ""}]}
    ]}
  ],
  "finisher": [{"name": "Burpees", "work_sec": 20, "rest_sec": 10, "rounds": 4, "notes": "max effort"}],
  "cooldown": [
    {"slug": "hamstring_stretch", "name": "Hamstring Stretch", "category": "mobility", "equipment": ["bodyweight"],
     "target_muscles": ["hamstrings"], "sets": []}
  ],
  "notes": "Keep rest honest."
}`
