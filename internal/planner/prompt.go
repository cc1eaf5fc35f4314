package planner

import (
	"fmt"
	"strings"

	"alcyxob/fitgen/internal/domain"
)

const (
	defaultGoals     = "general_fitness"
	defaultEquipment = "bodyweight only"
)

// Prompt is the user-side instruction sent to the generation model.
// Variant is reserved for prompt A/B tests and is empty for now.
type Prompt struct {
	Text    string
	Variant string
}

// ComposePrompt renders the request into the instruction text. Duration and experience
// always appear; they anchor the model's training-load decisions.
func ComposePrompt(req domain.PreWorkoutRequest) Prompt {
	goals := joinOr(req.Goals, defaultGoals)
	equipment := joinOr(req.EquipmentOverride, defaultEquipment)
	workoutType := req.WorkoutType
	if workoutType == "" {
		workoutType = defaultGoals
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a single %s workout session for a %s trainee.\n", workoutType, req.Experience)
	fmt.Fprintf(&b, "Total time available: %d minutes, including warm-up and cool-down.\n", req.TimeAvailableMin)
	fmt.Fprintf(&b, "Goals, in priority order: %s.\n", goals)
	fmt.Fprintf(&b, "Available equipment: %s. Do not use anything else.\n", equipment)
	if len(req.Constraints) > 0 {
		b.WriteString("Constraints and injuries to respect:\n")
		for _, c := range req.Constraints {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}
	b.WriteString("\nRequirements:\n")
	b.WriteString("- Put every main exercise in blocks, each with complete per-set programming.\n")
	b.WriteString("- Each set uses reps OR time_sec, set the other to null.\n")
	b.WriteString("- Include a warmup and a cooldown. Add a finisher only if time allows.\n")
	fmt.Fprintf(&b, "- meta.est_duration_min must not exceed %d.\n", req.TimeAvailableMin)

	return Prompt{Text: b.String()}
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

// SystemPersona is the fixed system instruction for the generation model.
const SystemPersona = `You are an expert strength and conditioning coach who writes single-session
workout plans. You apply evidence-based programming:

PERIODIZATION AND LOAD
- Match volume and intensity to the trainee's experience. Beginners: moderate loads, RPE 6-7,
  simple movement patterns. Intermediates: RPE 7-8, moderate complexity. Advanced: RPE 8-9,
  complex and unilateral variations where useful.
- Fit the whole session, warm-up and cool-down included, inside the stated time budget.
  Account for rest periods when estimating duration.

BIOMECHANICS AND SELECTION
- Order exercises from most to least neurally demanding: compound lifts first, then accessories,
  then core and conditioning.
- Balance push and pull, and knee- and hip-dominant patterns, across the session.
- Only prescribe exercises that the listed equipment allows. Respect every stated constraint or
  injury; substitute a safe alternative instead of omitting a movement pattern.

PROGRAMMING
- Strength: 3-6 reps, 2-3 min rest. Hypertrophy: 8-12 reps, 60-90 s rest.
  Endurance and conditioning: 12+ reps or timed work, 30-45 s rest.
- Give a tempo (eccentric-pause-concentric-pause, e.g. "3-1-1-0") and an intensity label per set.
- Warm-up: 5-10 minutes of general and movement-specific preparation.
  Cool-down: 5 minutes of mobility and breathing.

OUTPUT
- Respond with JSON only, matching the provided schema exactly. No markdown, no commentary.
- Use lowercase snake_case slugs for exercises.`
