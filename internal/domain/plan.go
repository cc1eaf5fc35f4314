// internal/domain/plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MainBlockName is the name of the single block a stored plan keeps its main exercises in.
const MainBlockName = "Main Workout"

// WorkoutPlan is a generated plan after normalization. Plans are never updated once stored.
type WorkoutPlan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        string             `bson:"userId" json:"userId"`                   // Owner
	Model         string             `bson:"model" json:"model"`                     // Model id that produced it
	PromptVersion string             `bson:"promptVersion" json:"promptVersion"`     // Partitions the dedup key space
	Variant       string             `bson:"variant,omitempty" json:"variant,omitempty"`
	Request       PreWorkoutRequest  `bson:"request" json:"request"`
	Fingerprint   string             `bson:"fingerprint" json:"fingerprint"`
	Blocks        []Block            `bson:"blocks" json:"blocks"`
	WarmUp        *Section           `bson:"warmUp,omitempty" json:"warmUp,omitempty"`
	CoolDown      *Section           `bson:"coolDown,omitempty" json:"coolDown,omitempty"`
	Finisher      []FinisherItem     `bson:"finisher,omitempty" json:"finisher,omitempty"`
	Meta          PlanMeta           `bson:"meta" json:"meta"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`

	// LegacyExercises is the flat exercise list written by early versions before plans had
	// blocks. Read-only; new plans never set it.
	LegacyExercises []Exercise `bson:"exercises,omitempty" json:"-"`
}

type Block struct {
	Name      string     `bson:"name" json:"name"`
	Exercises []Exercise `bson:"exercises" json:"exercises"`
}

// Section is a warm-up or cool-down: a list of exercises and the minutes it takes.
type Section struct {
	Exercises   []Exercise `bson:"exercises" json:"exercises"`
	DurationMin int        `bson:"durationMin" json:"durationMin"`
}

type PlanMeta struct {
	EstimatedDurationMin int      `bson:"estimatedDurationMin" json:"estimatedDurationMin"`
	Difficulty           string   `bson:"difficulty" json:"difficulty"`
	EquipmentNeeded      []string `bson:"equipmentNeeded" json:"equipmentNeeded"`
	CaloriesEstimate     int      `bson:"caloriesEstimate" json:"caloriesEstimate"`
}

// Exercise is one movement with its prescribed sets.
type Exercise struct {
	Slug          string   `bson:"slug,omitempty" json:"slug,omitempty"`
	Name          string   `bson:"name" json:"name"`
	Category      string   `bson:"category,omitempty" json:"category,omitempty"`
	Equipment     []string `bson:"equipment,omitempty" json:"equipment,omitempty"`
	TargetMuscles []string `bson:"targetMuscles,omitempty" json:"targetMuscles,omitempty"`
	SetCount      int      `bson:"setCount" json:"setCount"`
	Sets          []Set    `bson:"sets" json:"sets"`
}

// Set is one prescribed unit of work. Exactly one of Reps and TimeSec is the dosage;
// the other is zero.
type Set struct {
	Reps           int    `bson:"reps,omitempty" json:"reps,omitempty"`
	TimeSec        int    `bson:"timeSec,omitempty" json:"timeSec,omitempty"`
	RestSec        int    `bson:"restSec" json:"restSec"`
	Tempo          string `bson:"tempo,omitempty" json:"tempo,omitempty"`
	Intensity      string `bson:"intensity,omitempty" json:"intensity,omitempty"`
	RPE            int    `bson:"rpe,omitempty" json:"rpe,omitempty"`
	WeightGuidance string `bson:"weightGuidance,omitempty" json:"weightGuidance,omitempty"`
	Notes          string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// TimeBased reports whether the set is dosed by duration rather than repetitions.
func (s Set) TimeBased() bool {
	return s.Reps == 0 && s.TimeSec > 0
}

// MainExercises returns every exercise across the plan's blocks, in order.
func (p *WorkoutPlan) MainExercises() []Exercise {
	var out []Exercise
	for _, b := range p.Blocks {
		out = append(out, b.Exercises...)
	}
	return out
}
