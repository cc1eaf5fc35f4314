package planner

import (
	"strings"
	"unicode"

	"alcyxob/fitgen/internal/domain"
)

// Role is where an exercise sits in the session.
type Role string

const (
	RoleMain     Role = "main"
	RoleWarmup   Role = "warmup"
	RoleCooldown Role = "cooldown"
)

// Category drives the fallback set programming.
type Category string

const (
	CategoryCompound  Category = "compound"
	CategoryIsolation Category = "isolation"
	CategoryCore      Category = "core"
	CategoryCardio    Category = "cardio"
	CategoryMobility  Category = "mobility"
)

const (
	defaultTempo      = "2-1-2-1"
	caloriesPerMinute = 8
	minFallbackReps   = 5
	maxRPE            = 9
)

// Equipment levels.
const (
	EquipmentBodyweight = "bodyweight"
	EquipmentEquipped   = "equipped"
)

// Keywords match whole words of an exercise name, so "row" never hits "Throw".
var (
	compoundKeywords = keywords("squat", "press", "row", "deadlift", "lunge", "pull-up", "pullup",
		"chin-up", "clean", "thrust", "thruster", "snatch", "dip")
	coreKeywords   = keywords("plank", "core", "crunch", "sit-up", "hollow", "dead bug", "russian twist")
	cardioKeywords = keywords("cardio", "hiit", "burpee", "jump", "sprint", "run", "mountain climber", "skater", "jack")
)

// ProgramOptions carries what the requester told us. A nil *ProgramOptions means
// the exercise gets role defaults only.
type ProgramOptions struct {
	Experience     domain.Experience
	PrimaryGoal    string
	EquipmentLevel string
}

// OptionsFor derives programming options from a request. Any item other than
// bodyweight makes the session equipped.
func OptionsFor(req domain.PreWorkoutRequest) *ProgramOptions {
	level := EquipmentBodyweight
	for _, e := range req.EquipmentOverride {
		if e != "" && e != EquipmentBodyweight {
			level = EquipmentEquipped
			break
		}
	}
	return &ProgramOptions{
		Experience:     req.Experience,
		PrimaryGoal:    req.PrimaryGoal(),
		EquipmentLevel: level,
	}
}

// Classify buckets an exercise by role and name keywords.
func Classify(name string, role Role) Category {
	if role == RoleWarmup || role == RoleCooldown {
		return CategoryMobility
	}
	words := splitWords(name)
	switch {
	case matchesAny(words, compoundKeywords):
		return CategoryCompound
	case matchesAny(words, coreKeywords):
		return CategoryCore
	case matchesAny(words, cardioKeywords):
		return CategoryCardio
	}
	return CategoryIsolation
}

func splitWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func keywords(phrases ...string) [][]string {
	out := make([][]string, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, splitWords(p))
	}
	return out
}

// matchesAny reports whether any phrase appears as a run of consecutive words.
func matchesAny(words []string, phrases [][]string) bool {
	for _, phrase := range phrases {
	scan:
		for i := 0; i+len(phrase) <= len(words); i++ {
			for j, kw := range phrase {
				if !wordMatches(words[i+j], kw) {
					continue scan
				}
			}
			return true
		}
	}
	return false
}

// wordMatches accepts the keyword itself and its plural or -ing forms:
// "squats", "crunches", "jumping", "running".
func wordMatches(word, kw string) bool {
	rest, ok := strings.CutPrefix(word, kw)
	if !ok {
		return false
	}
	switch rest {
	case "", "s", "es", "ing":
		return true
	}
	return len(rest) == 4 && rest[0] == kw[len(kw)-1] && rest[1:] == "ing"
}

// NormalizeExercise converts a drafted exercise into its stored form and guarantees a
// non-empty sets array. Sets are synthesized when the draft has none, when it has a single
// set for a main exercise, or when no set carries a dosage.
func NormalizeExercise(ex domain.DraftExercise, role Role, opts *ProgramOptions) domain.Exercise {
	out := domain.Exercise{
		Slug:          ex.Slug,
		Name:          ex.Name,
		Category:      ex.Category,
		Equipment:     ex.Equipment,
		TargetMuscles: ex.TargetMuscles,
	}

	if needsSynthesis(ex.Sets, role) {
		category := Classify(ex.Name, role)
		if role == RoleMain && opts != nil {
			out.Sets = programmedSets(category, opts)
		} else {
			out.Sets = fallbackSets(category, role)
		}
	} else {
		out.Sets = make([]domain.Set, 0, len(ex.Sets))
		for _, s := range ex.Sets {
			out.Sets = append(out.Sets, convertSet(s))
		}
	}
	out.SetCount = len(out.Sets)
	return out
}

func needsSynthesis(sets []domain.DraftSet, role Role) bool {
	if len(sets) == 0 || (len(sets) == 1 && role == RoleMain) {
		return true
	}
	for _, s := range sets {
		if positive(s.Reps) || positive(s.TimeSec) {
			return false
		}
	}
	return true
}

func positive(p *int) bool { return p != nil && *p > 0 }

func convertSet(s domain.DraftSet) domain.Set {
	out := domain.Set{
		RestSec:   max(s.RestSec, 0),
		Tempo:     s.Tempo,
		Intensity: s.Intensity,
		Notes:     s.Notes,
	}
	// Reps win when the model filled both.
	if positive(s.Reps) {
		out.Reps = *s.Reps
	} else if positive(s.TimeSec) {
		out.TimeSec = *s.TimeSec
	}
	return out
}

// programmedSets is the full three-set prescription for a main exercise when we know
// who the plan is for. Bodyweight sessions get no load guidance.
func programmedSets(category Category, opts *ProgramOptions) []domain.Set {
	var (
		rest    = restForGoal(opts.PrimaryGoal)
		rpe     = []int{6, 7, 8}
		weights = []string{"light", "moderate", "heavy"}
		notes   = []string{"warm-up set", "", "final set"}
	)
	if opts.EquipmentLevel == EquipmentBodyweight {
		weights = []string{"", "", ""}
	}
	sets := make([]domain.Set, 3)
	for i := range sets {
		s := domain.Set{
			RestSec:        rest,
			Tempo:          defaultTempo,
			Intensity:      "moderate",
			RPE:            rpe[i],
			WeightGuidance: weights[i],
			Notes:          notes[i],
		}
		if category == CategoryCardio {
			s.TimeSec = cardioBaseSec(opts.Experience) + 15*i
		} else {
			s.Reps = 10
		}
		sets[i] = s
	}
	return sets
}

func restForGoal(goal string) int {
	g := strings.ToLower(goal)
	switch {
	case strings.Contains(g, "strength"), strings.Contains(g, "power"):
		return 120
	case strings.Contains(g, "endurance"), strings.Contains(g, "fat_loss"),
		strings.Contains(g, "weight_loss"), strings.Contains(g, "conditioning"):
		return 45
	}
	return 60
}

func cardioBaseSec(e domain.Experience) int {
	switch e {
	case domain.ExperienceBeginner:
		return 20
	case domain.ExperienceAdvanced:
		return 40
	}
	return 30
}

// fallbackSets is used for warm-up and cool-down items and for main exercises when
// no programming options are available.
func fallbackSets(category Category, role Role) []domain.Set {
	count, rest, rpe, intensity := 3, 90, 7, "moderate"
	if role == RoleWarmup || role == RoleCooldown {
		count, rest, rpe, intensity = 1, 30, 3, "light"
	}

	sets := make([]domain.Set, count)
	for i := range sets {
		s := domain.Set{
			RestSec:   rest,
			Tempo:     defaultTempo,
			Intensity: intensity,
			RPE:       min(rpe+i, maxRPE),
		}
		if category == CategoryCardio {
			s.TimeSec = 30
		} else {
			s.Reps = max(startingReps(category)-2*i, minFallbackReps)
		}
		sets[i] = s
	}
	return sets
}

func startingReps(category Category) int {
	switch category {
	case CategoryCompound, CategoryMobility:
		return 10
	case CategoryCore:
		return 15
	}
	return 12
}

// Normalize turns a model draft into the stored plan shape: all main exercises in one
// "Main Workout" block, warm-up and cool-down sections, and meta derived from the request.
// Identity fields (ID, owner, model, fingerprint, timestamps) are left for the caller.
func Normalize(draft *domain.PlanDraft, req domain.PreWorkoutRequest) domain.WorkoutPlan {
	opts := OptionsFor(req)

	main := make([]domain.Exercise, 0, draft.ExerciseCount())
	for _, b := range draft.Blocks {
		for _, ex := range b.Exercises {
			main = append(main, NormalizeExercise(ex, RoleMain, opts))
		}
	}

	plan := domain.WorkoutPlan{
		Request: req,
		Blocks:  []domain.Block{{Name: domain.MainBlockName, Exercises: main}},
		Notes:   draft.Notes,
	}
	plan.WarmUp = section(draft.Warmup, RoleWarmup)
	plan.CoolDown = section(draft.Cooldown, RoleCooldown)
	for _, f := range draft.Finisher {
		f.WorkSec = max(f.WorkSec, 0)
		f.RestSec = max(f.RestSec, 0)
		f.Rounds = max(f.Rounds, 1)
		plan.Finisher = append(plan.Finisher, f)
	}

	duration := req.TimeAvailableMin
	if d := draft.Meta.EstDurationMin; d > 0 && d <= req.TimeAvailableMin {
		duration = d
	}
	plan.Meta = domain.PlanMeta{
		EstimatedDurationMin: duration,
		Difficulty:           string(req.Experience),
		EquipmentNeeded:      equipmentNeeded(draft, req),
		CaloriesEstimate:     caloriesPerMinute * duration,
	}
	return plan
}

func section(items []domain.DraftExercise, role Role) *domain.Section {
	if len(items) == 0 {
		return nil
	}
	s := &domain.Section{Exercises: make([]domain.Exercise, 0, len(items))}
	seconds := 0
	for _, it := range items {
		ex := NormalizeExercise(it, role, nil)
		for _, set := range ex.Sets {
			// Roughly three seconds per repetition.
			seconds += set.TimeSec + 3*set.Reps + set.RestSec
		}
		s.Exercises = append(s.Exercises, ex)
	}
	s.DurationMin = max((seconds+59)/60, 1)
	return s
}

func equipmentNeeded(draft *domain.PlanDraft, req domain.PreWorkoutRequest) []string {
	if len(draft.Meta.EquipmentUsed) > 0 {
		return draft.Meta.EquipmentUsed
	}
	seen := map[string]bool{}
	var out []string
	for _, b := range draft.Blocks {
		for _, ex := range b.Exercises {
			for _, e := range ex.Equipment {
				if e != "" && !seen[e] {
					seen[e] = true
					out = append(out, e)
				}
			}
		}
	}
	if len(out) > 0 {
		return out
	}
	if len(req.EquipmentOverride) > 0 {
		return req.EquipmentOverride
	}
	return []string{"bodyweight"}
}
