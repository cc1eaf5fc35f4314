package planner

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"alcyxob/fitgen/internal/domain"
)

// Defaults used when a stored document is missing a field.
const (
	UnknownExerciseName = "Unknown Exercise"
	DefaultSetCount     = 1
	DefaultReps         = "10"
	DefaultRest         = "60s"

	FinisherBlockName = "Finisher"
	TimeBasedReps     = "Time-based"

	RestTypeFixed = "fixed"
	RestTypeNone  = "none"
)

// DisplayPlan is the client-facing form of a plan. It is derived on every read and
// never stored.
type DisplayPlan struct {
	ID                   string            `json:"id"`
	UserID               string            `json:"userId"`
	WorkoutType          string            `json:"workoutType,omitempty"`
	Warmup               []DisplayExercise `json:"warmup"`
	Exercises            []DisplayExercise `json:"exercises"`
	Cooldown             []DisplayExercise `json:"cooldown"`
	WarmupDurationMin    int               `json:"warmupDurationMin,omitempty"`
	CooldownDurationMin  int               `json:"cooldownDurationMin,omitempty"`
	EstimatedDurationMin int               `json:"estimatedDurationMin"`
	Difficulty           string            `json:"difficulty,omitempty"`
	EquipmentNeeded      []string          `json:"equipmentNeeded"`
	CaloriesEstimate     int               `json:"caloriesEstimate,omitempty"`
	Notes                string            `json:"notes,omitempty"`
	CreatedAt            *time.Time        `json:"createdAt,omitempty"`
	Deduped              bool              `json:"deduped"`
}

// DisplayExercise is one exercise flattened out of its block. The exercise-level
// Tempo, Intensity, RPE, WeightGuidance and RestType are taken from the first set.
type DisplayExercise struct {
	Name           string       `json:"name"`
	Slug           string       `json:"slug,omitempty"`
	Category       string       `json:"category,omitempty"`
	Equipment      []string     `json:"equipment,omitempty"`
	TargetMuscles  []string     `json:"targetMuscles,omitempty"`
	BlockName      string       `json:"blockName,omitempty"`
	BlockIndex     int          `json:"blockIndex"`
	ExerciseIndex  int          `json:"exerciseIndex"`
	Sets           int          `json:"sets"`
	Reps           string       `json:"reps"`
	Duration       string       `json:"duration,omitempty"`
	Rest           string       `json:"rest"`
	RestType       string       `json:"restType"`
	Tempo          string       `json:"tempo,omitempty"`
	Intensity      string       `json:"intensity,omitempty"`
	RPE            int          `json:"rpe,omitempty"`
	WeightGuidance string       `json:"weightGuidance,omitempty"`
	Notes          string       `json:"notes,omitempty"`
	SetDetails     []DisplaySet `json:"setDetails,omitempty"`
}

type DisplaySet struct {
	Reps           string `json:"reps"`
	Duration       string `json:"duration,omitempty"`
	Rest           string `json:"rest"`
	Tempo          string `json:"tempo,omitempty"`
	Intensity      string `json:"intensity,omitempty"`
	RPE            int    `json:"rpe,omitempty"`
	WeightGuidance string `json:"weightGuidance,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// FormatRest renders seconds as "45s", "2m" or "8m 30s". Negative input renders as "0s".
func FormatRest(sec int) string {
	sec = max(sec, 0)
	switch {
	case sec < 60:
		return fmt.Sprintf("%ds", sec)
	case sec%60 == 0:
		return fmt.Sprintf("%dm", sec/60)
	}
	return fmt.Sprintf("%dm %ds", sec/60, sec%60)
}

// ToDisplay flattens a freshly normalized plan.
func ToDisplay(p *domain.WorkoutPlan) DisplayPlan {
	return toDisplay(p, false)
}

// StoredToDisplay flattens a plan read back from storage. Documents written by older
// versions may lack blocks, names or sets; missing values get the package defaults.
func StoredToDisplay(p *domain.WorkoutPlan) DisplayPlan {
	return toDisplay(p, true)
}

func toDisplay(p *domain.WorkoutPlan, legacy bool) DisplayPlan {
	out := DisplayPlan{
		UserID:               p.UserID,
		WorkoutType:          p.Request.WorkoutType,
		Warmup:               []DisplayExercise{},
		Exercises:            []DisplayExercise{},
		Cooldown:             []DisplayExercise{},
		EstimatedDurationMin: p.Meta.EstimatedDurationMin,
		Difficulty:           p.Meta.Difficulty,
		EquipmentNeeded:      p.Meta.EquipmentNeeded,
		CaloriesEstimate:     p.Meta.CaloriesEstimate,
		Notes:                p.Notes,
	}
	if !p.ID.IsZero() {
		out.ID = p.ID.Hex()
	}
	if !p.CreatedAt.IsZero() {
		t := p.CreatedAt
		out.CreatedAt = &t
	}
	if out.EquipmentNeeded == nil {
		out.EquipmentNeeded = []string{}
	}

	blocks := p.Blocks
	if len(blocks) == 0 && len(p.LegacyExercises) > 0 {
		blocks = []domain.Block{{Name: domain.MainBlockName, Exercises: p.LegacyExercises}}
	}
	for bi, b := range blocks {
		for ei, ex := range b.Exercises {
			d := displayExercise(ex, legacy)
			d.BlockName, d.BlockIndex, d.ExerciseIndex = b.Name, bi, ei
			out.Exercises = append(out.Exercises, d)
		}
	}
	for ei, f := range p.Finisher {
		out.Exercises = append(out.Exercises, finisherExercise(f, len(blocks), ei))
	}

	if p.WarmUp != nil {
		out.Warmup = sectionDisplay(p.WarmUp, legacy)
		out.WarmupDurationMin = p.WarmUp.DurationMin
	}
	if p.CoolDown != nil {
		out.Cooldown = sectionDisplay(p.CoolDown, legacy)
		out.CooldownDurationMin = p.CoolDown.DurationMin
	}
	return out
}

func sectionDisplay(s *domain.Section, legacy bool) []DisplayExercise {
	out := make([]DisplayExercise, 0, len(s.Exercises))
	for i, ex := range s.Exercises {
		d := displayExercise(ex, legacy)
		d.ExerciseIndex = i
		out = append(out, d)
	}
	return out
}

func displayExercise(ex domain.Exercise, legacy bool) DisplayExercise {
	d := DisplayExercise{
		Name:          ex.Name,
		Slug:          ex.Slug,
		Category:      ex.Category,
		Equipment:     ex.Equipment,
		TargetMuscles: ex.TargetMuscles,
		Sets:          len(ex.Sets),
		RestType:      RestTypeNone,
	}
	if d.Name == "" && legacy {
		d.Name = UnknownExerciseName
	}

	if len(ex.Sets) == 0 {
		d.Sets = ex.SetCount
		if legacy {
			d.Sets = max(ex.SetCount, DefaultSetCount)
			d.Reps, d.Rest, d.RestType = DefaultReps, DefaultRest, RestTypeFixed
		} else {
			d.Rest = FormatRest(0)
		}
		return d
	}

	first := ex.Sets[0]
	d.Tempo = first.Tempo
	d.Intensity = first.Intensity
	d.RPE = first.RPE
	d.WeightGuidance = first.WeightGuidance
	d.Rest = FormatRest(first.RestSec)
	switch {
	case first.RestSec > 0:
		d.RestType = RestTypeFixed
	case legacy:
		d.Rest, d.RestType = DefaultRest, RestTypeFixed
	}

	reps := make([]string, 0, len(ex.Sets))
	durations := make([]string, 0, len(ex.Sets))
	for _, s := range ex.Sets {
		ds := DisplaySet{
			Rest:           FormatRest(s.RestSec),
			Tempo:          s.Tempo,
			Intensity:      s.Intensity,
			RPE:            s.RPE,
			WeightGuidance: s.WeightGuidance,
			Notes:          s.Notes,
		}
		if legacy && s.RestSec <= 0 {
			ds.Rest = DefaultRest
		}
		switch {
		case s.TimeBased():
			ds.Reps, ds.Duration = TimeBasedReps, FormatRest(s.TimeSec)
			durations = append(durations, ds.Duration)
		case s.Reps > 0:
			ds.Reps = strconv.Itoa(s.Reps)
			reps = append(reps, ds.Reps)
		case legacy:
			ds.Reps = DefaultReps
			reps = append(reps, ds.Reps)
		}
		d.SetDetails = append(d.SetDetails, ds)
	}

	if first.TimeBased() {
		d.Reps = TimeBasedReps
		d.Duration = collapse(durations)
	} else {
		d.Reps = collapse(reps)
	}
	return d
}

// collapse renders "10" when every set agrees and "12/10/8" otherwise.
func collapse(values []string) string {
	if len(values) == 0 {
		return ""
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return strings.Join(values, "/")
		}
	}
	return values[0]
}

func finisherExercise(f domain.FinisherItem, blockIndex, exerciseIndex int) DisplayExercise {
	d := DisplayExercise{
		Name:          f.Name,
		BlockName:     FinisherBlockName,
		BlockIndex:    blockIndex,
		ExerciseIndex: exerciseIndex,
		Sets:          max(f.Rounds, 1),
		Reps:          TimeBasedReps,
		Duration:      FormatRest(f.WorkSec),
		Rest:          FormatRest(f.RestSec),
		RestType:      RestTypeNone,
		Notes:         f.Notes,
	}
	if d.Name == "" {
		d.Name = UnknownExerciseName
	}
	if f.RestSec > 0 {
		d.RestType = RestTypeFixed
	}
	return d
}
