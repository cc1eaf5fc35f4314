package planner

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/fitgen/internal/domain"
)

func TestFormatRest(t *testing.T) {
	tests := []struct {
		sec  int
		want string
	}{
		{-10, "0s"},
		{0, "0s"},
		{45, "45s"},
		{59, "59s"},
		{60, "1m"},
		{90, "1m 30s"},
		{120, "2m"},
		{510, "8m 30s"},
	}
	for _, tt := range tests {
		if got := FormatRest(tt.sec); got != tt.want {
			t.Errorf("FormatRest(%d) = %q, want %q", tt.sec, got, tt.want)
		}
	}
}

func samplePlan() *domain.WorkoutPlan {
	return &domain.WorkoutPlan{
		ID:     primitive.NewObjectID(),
		UserID: "user-1",
		Blocks: []domain.Block{{
			Name: domain.MainBlockName,
			Exercises: []domain.Exercise{
				{
					Name: "Goblet Squat",
					Sets: []domain.Set{
						{Reps: 12, RestSec: 90, Tempo: "3-1-1-0", Intensity: "moderate", RPE: 7, WeightGuidance: "light"},
						{Reps: 10, RestSec: 90},
						{Reps: 8, RestSec: 90},
					},
					SetCount: 3,
				},
				{
					Name:     "Plank",
					Sets:     []domain.Set{{TimeSec: 45, RestSec: 30}, {TimeSec: 45, RestSec: 30}},
					SetCount: 2,
				},
			},
		}},
		WarmUp:   &domain.Section{Exercises: []domain.Exercise{{Name: "Arm Circles", Sets: []domain.Set{{Reps: 10}}}}, DurationMin: 5},
		Finisher: []domain.FinisherItem{{Name: "Burpees", WorkSec: 20, RestSec: 10, Rounds: 4}},
		Meta:     domain.PlanMeta{EstimatedDurationMin: 30, Difficulty: "beginner", CaloriesEstimate: 240},
		Notes:    "Breathe.",
	}
}

func TestToDisplay(t *testing.T) {
	p := samplePlan()
	got := ToDisplay(p)

	want := []DisplayExercise{
		{
			Name: "Goblet Squat", BlockName: domain.MainBlockName, BlockIndex: 0, ExerciseIndex: 0,
			Sets: 3, Reps: "12/10/8", Rest: "1m 30s", RestType: RestTypeFixed,
			Tempo: "3-1-1-0", Intensity: "moderate", RPE: 7, WeightGuidance: "light",
		},
		{
			Name: "Plank", BlockName: domain.MainBlockName, BlockIndex: 0, ExerciseIndex: 1,
			Sets: 2, Reps: TimeBasedReps, Duration: "45s", Rest: "30s", RestType: RestTypeFixed,
		},
		{
			Name: "Burpees", BlockName: FinisherBlockName, BlockIndex: 1, ExerciseIndex: 0,
			Sets: 4, Reps: TimeBasedReps, Duration: "20s", Rest: "10s", RestType: RestTypeFixed,
		},
	}
	ignoreDetails := cmp.FilterPath(func(p cmp.Path) bool {
		return p.Last().String() == ".SetDetails"
	}, cmp.Ignore())
	if diff := cmp.Diff(want, got.Exercises, ignoreDetails); diff != "" {
		t.Errorf("exercises mismatch (-want +got):\n%s", diff)
	}

	if got.ID != p.ID.Hex() || got.Notes != "Breathe." || got.EstimatedDurationMin != 30 {
		t.Errorf("top-level fields not surfaced: %+v", got)
	}
	if len(got.Warmup) != 1 || got.WarmupDurationMin != 5 {
		t.Errorf("warm-up = %+v (%d min)", got.Warmup, got.WarmupDurationMin)
	}
	if got.Cooldown == nil || len(got.Cooldown) != 0 {
		t.Errorf("cool-down should be an empty list, got %+v", got.Cooldown)
	}
	if n := len(got.Exercises[1].SetDetails); n != 2 {
		t.Errorf("plank set details = %d, want 2", n)
	}
}

func TestStoredToDisplay_LegacyDefaults(t *testing.T) {
	p := &domain.WorkoutPlan{
		LegacyExercises: []domain.Exercise{
			{},
			{Name: "Push-up", SetCount: 3},
			{Name: "Row", Sets: []domain.Set{{RestSec: 60}}},
			{Name: "Squat", Sets: []domain.Set{{Reps: 8}, {Reps: 8, RestSec: 90}}},
		},
	}

	got := StoredToDisplay(p)
	if len(got.Exercises) != 4 {
		t.Fatalf("len(exercises) = %d, want 4", len(got.Exercises))
	}

	first := got.Exercises[0]
	if first.Name != UnknownExerciseName || first.Sets != 1 || first.Reps != "10" || first.Rest != "60s" {
		t.Errorf("defaults not applied: %+v", first)
	}
	if first.BlockName != domain.MainBlockName {
		t.Errorf("BlockName = %q, want %q", first.BlockName, domain.MainBlockName)
	}
	if second := got.Exercises[1]; second.Sets != 3 || second.Reps != "10" {
		t.Errorf("stored set count should win over the default: %+v", second)
	}
	if third := got.Exercises[2]; third.Reps != "10" || third.Rest != "1m" {
		t.Errorf("set without dosage = %+v", third)
	}
	squat := got.Exercises[3]
	if squat.Rest != DefaultRest || squat.RestType != RestTypeFixed {
		t.Errorf("set without rest: rest=%q restType=%q, want %q fixed", squat.Rest, squat.RestType, DefaultRest)
	}
	if diff := cmp.Diff([]string{"60s", "1m 30s"}, []string{squat.SetDetails[0].Rest, squat.SetDetails[1].Rest}); diff != "" {
		t.Errorf("per-set rest mismatch (-want +got):\n%s", diff)
	}
	if got.EquipmentNeeded == nil || got.Warmup == nil {
		t.Error("lists must never be nil")
	}
}

func TestToDisplay_NoSetsWithoutLegacy(t *testing.T) {
	p := &domain.WorkoutPlan{Blocks: []domain.Block{{Name: "Main", Exercises: []domain.Exercise{{}}}}}
	got := ToDisplay(p)
	if ex := got.Exercises[0]; ex.Name != "" || ex.Reps != "" {
		t.Errorf("ToDisplay should not invent values: %+v", ex)
	}
}
