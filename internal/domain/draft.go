// internal/domain/draft.go
package domain

// PlanDraft is the structured plan exactly as the generation model returned it.
// Field names follow the JSON schema the model is constrained to.
type PlanDraft struct {
	Meta     DraftMeta       `json:"meta"`
	Warmup   []DraftExercise `json:"warmup"`
	Blocks   []DraftBlock    `json:"blocks"`
	Finisher []FinisherItem  `json:"finisher"`
	Cooldown []DraftExercise `json:"cooldown"`
	Notes    string          `json:"notes"`
}

type DraftMeta struct {
	Date           string   `json:"date"`
	SessionType    string   `json:"session_type"`
	Goal           string   `json:"goal"`
	Experience     string   `json:"experience"`
	EstDurationMin int      `json:"est_duration_min"`
	EquipmentUsed  []string `json:"equipment_used"`
}

// DraftBlock is a named group of exercises, e.g. "Strength A".
type DraftBlock struct {
	Name      string          `json:"name"`
	Exercises []DraftExercise `json:"exercises"`
}

type DraftExercise struct {
	Slug          string     `json:"slug"`
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	Equipment     []string   `json:"equipment"`
	TargetMuscles []string   `json:"target_muscles"`
	Sets          []DraftSet `json:"sets"`
}

// DraftSet carries either Reps or TimeSec as the dosage; the other is null.
type DraftSet struct {
	Reps      *int   `json:"reps"`
	TimeSec   *int   `json:"time_sec"`
	RestSec   int    `json:"rest_sec"`
	Tempo     string `json:"tempo"`
	Intensity string `json:"intensity"`
	Notes     string `json:"notes"`
}

// FinisherItem is a short high-intensity piece done after the main blocks.
type FinisherItem struct {
	Name    string `bson:"name" json:"name"`
	WorkSec int    `bson:"workSec" json:"work_sec"`
	RestSec int    `bson:"restSec" json:"rest_sec"`
	Rounds  int    `bson:"rounds" json:"rounds"`
	Notes   string `bson:"notes,omitempty" json:"notes"`
}

// ExerciseCount returns the number of exercises across all blocks.
func (d *PlanDraft) ExerciseCount() int {
	n := 0
	for _, b := range d.Blocks {
		n += len(b.Exercises)
	}
	return n
}
