package planner

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"alcyxob/fitgen/internal/domain"
)

func intp(v int) *int { return &v }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want Category
	}{
		{"Back Squat", RoleMain, CategoryCompound},
		{"Dumbbell Bench Press", RoleMain, CategoryCompound},
		{"Pull-Up", RoleMain, CategoryCompound},
		{"Hip Thrust", RoleMain, CategoryCompound},
		{"Front Plank", RoleMain, CategoryCore},
		{"Dead Bug", RoleMain, CategoryCore},
		{"Burpee", RoleMain, CategoryCardio},
		{"Mountain Climber", RoleMain, CategoryCardio},
		{"Bicep Curl", RoleMain, CategoryIsolation},
		{"Medicine Ball Throw", RoleMain, CategoryIsolation},
		{"Bicycle Crunches", RoleMain, CategoryCore},
		{"Sit-ups", RoleMain, CategoryCore},
		{"Walking Lunges", RoleMain, CategoryCompound},
		{"Jumping Jacks", RoleMain, CategoryCardio},
		{"Running in Place", RoleMain, CategoryCardio},
		{"Pressdown", RoleMain, CategoryIsolation},
		{"Back Squat", RoleWarmup, CategoryMobility},
		{"Burpee", RoleCooldown, CategoryMobility},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+tt.name, func(t *testing.T) {
			if got := Classify(tt.name, tt.role); got != tt.want {
				t.Errorf("Classify(%q, %s) = %s, want %s", tt.name, tt.role, got, tt.want)
			}
		})
	}
}

func TestNormalizeExercise_ProgrammedMain(t *testing.T) {
	opts := &ProgramOptions{Experience: domain.ExperienceIntermediate, PrimaryGoal: "strength"}
	got := NormalizeExercise(domain.DraftExercise{Name: "Back Squat"}, RoleMain, opts)

	want := []domain.Set{
		{Reps: 10, RestSec: 120, Tempo: "2-1-2-1", Intensity: "moderate", RPE: 6, WeightGuidance: "light", Notes: "warm-up set"},
		{Reps: 10, RestSec: 120, Tempo: "2-1-2-1", Intensity: "moderate", RPE: 7, WeightGuidance: "moderate"},
		{Reps: 10, RestSec: 120, Tempo: "2-1-2-1", Intensity: "moderate", RPE: 8, WeightGuidance: "heavy", Notes: "final set"},
	}
	if diff := cmp.Diff(want, got.Sets); diff != "" {
		t.Errorf("sets mismatch (-want +got):\n%s", diff)
	}
	if got.SetCount != 3 {
		t.Errorf("SetCount = %d, want 3", got.SetCount)
	}
}

func TestOptionsFor_EquipmentLevel(t *testing.T) {
	tests := []struct {
		equipment []string
		want      string
	}{
		{nil, EquipmentBodyweight},
		{[]string{"bodyweight"}, EquipmentBodyweight},
		{[]string{"bodyweight", "dumbbells"}, EquipmentEquipped},
		{[]string{"dumbbells", "bodyweight"}, EquipmentEquipped},
		{[]string{"kettlebell"}, EquipmentEquipped},
	}
	for _, tt := range tests {
		req := domain.PreWorkoutRequest{Experience: domain.ExperienceBeginner, EquipmentOverride: tt.equipment}
		if got := OptionsFor(req).EquipmentLevel; got != tt.want {
			t.Errorf("OptionsFor(%v).EquipmentLevel = %q, want %q", tt.equipment, got, tt.want)
		}
	}
}

func TestNormalizeExercise_BodyweightHasNoLoadGuidance(t *testing.T) {
	opts := &ProgramOptions{Experience: domain.ExperienceBeginner, PrimaryGoal: "strength", EquipmentLevel: EquipmentBodyweight}
	got := NormalizeExercise(domain.DraftExercise{Name: "Split Squat"}, RoleMain, opts)
	if len(got.Sets) != 3 {
		t.Fatalf("len(sets) = %d, want 3", len(got.Sets))
	}
	for i, s := range got.Sets {
		if s.WeightGuidance != "" {
			t.Errorf("set %d weight guidance = %q, want none", i, s.WeightGuidance)
		}
	}

	opts.EquipmentLevel = EquipmentEquipped
	got = NormalizeExercise(domain.DraftExercise{Name: "Split Squat"}, RoleMain, opts)
	if got.Sets[2].WeightGuidance != "heavy" {
		t.Errorf("equipped final set guidance = %q, want heavy", got.Sets[2].WeightGuidance)
	}
}

func TestNormalizeExercise_ProgrammedCardio(t *testing.T) {
	tests := []struct {
		experience domain.Experience
		want       []int
	}{
		{domain.ExperienceBeginner, []int{20, 35, 50}},
		{domain.ExperienceIntermediate, []int{30, 45, 60}},
		{domain.ExperienceAdvanced, []int{40, 55, 70}},
	}
	for _, tt := range tests {
		t.Run(string(tt.experience), func(t *testing.T) {
			opts := &ProgramOptions{Experience: tt.experience, PrimaryGoal: "fat_loss"}
			ex := NormalizeExercise(domain.DraftExercise{Name: "Burpees"}, RoleMain, opts)

			var got []int
			for _, s := range ex.Sets {
				if s.Reps != 0 {
					t.Errorf("time-based set has reps %d", s.Reps)
				}
				if s.RestSec != 45 {
					t.Errorf("RestSec = %d, want 45", s.RestSec)
				}
				got = append(got, s.TimeSec)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("time_sec mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeExercise_Fallback(t *testing.T) {
	tests := []struct {
		name     string
		exercise string
		role     Role
		want     []domain.Set
	}{
		{
			name: "isolation main", exercise: "Lateral Raise", role: RoleMain,
			want: []domain.Set{
				{Reps: 12, RestSec: 90, Tempo: "2-1-2-1", Intensity: "moderate", RPE: 7},
				{Reps: 10, RestSec: 90, Tempo: "2-1-2-1", Intensity: "moderate", RPE: 8},
				{Reps: 8, RestSec: 90, Tempo: "2-1-2-1", Intensity: "moderate", RPE: 9},
			},
		},
		{
			name: "core main", exercise: "Hollow Hold", role: RoleMain,
			want: []domain.Set{
				{Reps: 15, RestSec: 90, Tempo: "2-1-2-1", Intensity: "moderate", RPE: 7},
				{Reps: 13, RestSec: 90, Tempo: "2-1-2-1", Intensity: "moderate", RPE: 8},
				{Reps: 11, RestSec: 90, Tempo: "2-1-2-1", Intensity: "moderate", RPE: 9},
			},
		},
		{
			name: "cardio main", exercise: "Jumping Jacks", role: RoleMain,
			want: []domain.Set{
				{TimeSec: 30, RestSec: 90, Tempo: "2-1-2-1", Intensity: "moderate", RPE: 7},
				{TimeSec: 30, RestSec: 90, Tempo: "2-1-2-1", Intensity: "moderate", RPE: 8},
				{TimeSec: 30, RestSec: 90, Tempo: "2-1-2-1", Intensity: "moderate", RPE: 9},
			},
		},
		{
			name: "warmup", exercise: "Arm Circles", role: RoleWarmup,
			want: []domain.Set{{Reps: 10, RestSec: 30, Tempo: "2-1-2-1", Intensity: "light", RPE: 3}},
		},
		{
			name: "cooldown", exercise: "Child's Pose", role: RoleCooldown,
			want: []domain.Set{{Reps: 10, RestSec: 30, Tempo: "2-1-2-1", Intensity: "light", RPE: 3}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeExercise(domain.DraftExercise{Name: tt.exercise}, tt.role, nil)
			if diff := cmp.Diff(tt.want, got.Sets); diff != "" {
				t.Errorf("sets mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeExercise_WarmupIgnoresOptions(t *testing.T) {
	opts := &ProgramOptions{Experience: domain.ExperienceAdvanced, PrimaryGoal: "strength"}
	got := NormalizeExercise(domain.DraftExercise{Name: "Leg Swings"}, RoleWarmup, opts)
	if len(got.Sets) != 1 || got.Sets[0].RPE != 3 {
		t.Errorf("warm-up sets = %+v, want one RPE 3 set", got.Sets)
	}
}

func TestNormalizeExercise_SingleSetMainIsSynthesized(t *testing.T) {
	ex := domain.DraftExercise{Name: "Deadlift", Sets: []domain.DraftSet{{Reps: intp(5), RestSec: 180}}}
	got := NormalizeExercise(ex, RoleMain, nil)
	if len(got.Sets) != 3 {
		t.Fatalf("len(sets) = %d, want 3", len(got.Sets))
	}

	// A single warm-up set is a complete prescription.
	got = NormalizeExercise(domain.DraftExercise{Name: "Cat Cow", Sets: []domain.DraftSet{{Reps: intp(8)}}}, RoleWarmup, nil)
	if len(got.Sets) != 1 || got.Sets[0].Reps != 8 {
		t.Errorf("warm-up sets = %+v, want the provided set", got.Sets)
	}
}

func TestNormalizeExercise_ProvidedSetsKept(t *testing.T) {
	ex := domain.DraftExercise{
		Slug: "goblet_squat",
		Name: "Goblet Squat",
		Sets: []domain.DraftSet{
			{Reps: intp(12), RestSec: 60, Tempo: "3-1-1-0", Intensity: "moderate"},
			{Reps: intp(10), TimeSec: intp(40), RestSec: -5},
			{TimeSec: intp(45), RestSec: 30, Notes: "hold at the bottom"},
			{Reps: intp(-3), RestSec: 30},
		},
	}
	got := NormalizeExercise(ex, RoleMain, &ProgramOptions{})

	want := []domain.Set{
		{Reps: 12, RestSec: 60, Tempo: "3-1-1-0", Intensity: "moderate"},
		{Reps: 10, RestSec: 0},
		{TimeSec: 45, RestSec: 30, Notes: "hold at the bottom"},
		{RestSec: 30},
	}
	if diff := cmp.Diff(want, got.Sets); diff != "" {
		t.Errorf("sets mismatch (-want +got):\n%s", diff)
	}
	if got.Slug != "goblet_squat" || got.SetCount != 4 {
		t.Errorf("got slug %q count %d", got.Slug, got.SetCount)
	}
}

func TestNormalizeExercise_NoDosageSynthesized(t *testing.T) {
	ex := domain.DraftExercise{Name: "Lunge", Sets: []domain.DraftSet{{RestSec: 60}, {RestSec: 60}}}
	got := NormalizeExercise(ex, RoleMain, nil)
	for i, s := range got.Sets {
		if s.Reps <= 0 && s.TimeSec <= 0 {
			t.Errorf("set %d has no dosage: %+v", i, s)
		}
	}
}

func TestNormalize(t *testing.T) {
	req := baseRequest()
	draft := &domain.PlanDraft{
		Meta:   domain.DraftMeta{EstDurationMin: 40},
		Warmup: []domain.DraftExercise{{Name: "Arm Circles"}},
		Blocks: []domain.DraftBlock{
			{Name: "Strength", Exercises: []domain.DraftExercise{
				{Name: "Dumbbell Press", Equipment: []string{"dumbbells", "bench"}},
				{Name: "Dumbbell Row", Equipment: []string{"dumbbells"}},
			}},
			{Name: "Accessories", Exercises: []domain.DraftExercise{{Name: "Biceps Curl"}}},
		},
		Finisher: []domain.FinisherItem{{Name: "Burpees", WorkSec: 30, RestSec: -1}},
		Cooldown: []domain.DraftExercise{{Name: "Chest Stretch"}},
		Notes:    "Stay controlled.",
	}

	plan := Normalize(draft, req)

	if len(plan.Blocks) != 1 || plan.Blocks[0].Name != domain.MainBlockName {
		t.Fatalf("blocks = %+v, want a single %q block", plan.Blocks, domain.MainBlockName)
	}
	var names []string
	for _, ex := range plan.Blocks[0].Exercises {
		names = append(names, ex.Name)
		if len(ex.Sets) == 0 {
			t.Errorf("%s has no sets", ex.Name)
		}
	}
	if diff := cmp.Diff([]string{"Dumbbell Press", "Dumbbell Row", "Biceps Curl"}, names); diff != "" {
		t.Errorf("main exercise order (-want +got):\n%s", diff)
	}

	wantMeta := domain.PlanMeta{
		EstimatedDurationMin: 40,
		Difficulty:           "intermediate",
		EquipmentNeeded:      []string{"dumbbells", "bench"},
		CaloriesEstimate:     320,
	}
	if diff := cmp.Diff(wantMeta, plan.Meta); diff != "" {
		t.Errorf("meta mismatch (-want +got):\n%s", diff)
	}

	if plan.WarmUp == nil || len(plan.WarmUp.Exercises) != 1 || plan.WarmUp.DurationMin < 1 {
		t.Errorf("warm-up = %+v", plan.WarmUp)
	}
	if plan.CoolDown == nil || len(plan.CoolDown.Exercises) != 1 {
		t.Errorf("cool-down = %+v", plan.CoolDown)
	}
	if got := plan.Finisher[0]; got.RestSec != 0 || got.Rounds != 1 {
		t.Errorf("finisher = %+v, want clamped rest and one round", got)
	}
	if plan.Notes != "Stay controlled." {
		t.Errorf("Notes = %q", plan.Notes)
	}
}

func TestNormalize_DurationFallsBackToRequest(t *testing.T) {
	req := baseRequest()
	draft := &domain.PlanDraft{
		Meta:   domain.DraftMeta{EstDurationMin: 90},
		Blocks: []domain.DraftBlock{{Exercises: []domain.DraftExercise{{Name: "Push-up"}}}},
	}
	plan := Normalize(draft, req)
	if got, want := plan.Meta.EstimatedDurationMin, req.TimeAvailableMin; got != want {
		t.Errorf("EstimatedDurationMin = %d, want %d", got, want)
	}
	if got, want := plan.Meta.CaloriesEstimate, 8*req.TimeAvailableMin; got != want {
		t.Errorf("CaloriesEstimate = %d, want %d", got, want)
	}
	if plan.WarmUp != nil || plan.CoolDown != nil {
		t.Error("empty warm-up and cool-down should be omitted")
	}
}
