// internal/domain/request.go
package domain

import "strings"

// Experience is the requester's training tier.
type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceAdvanced     Experience = "advanced"
)

// Valid reports whether e is one of the three known tiers.
func (e Experience) Valid() bool {
	switch e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return true
	}
	return false
}

// PreWorkoutRequest is what a user asks for. It is never stored on its own,
// only embedded in the WorkoutPlan it produced.
type PreWorkoutRequest struct {
	UserID            string     `bson:"userId" json:"userId"`
	WorkoutType       string     `bson:"workoutType" json:"workout_type"`
	Experience        Experience `bson:"experience" json:"experience"`
	Goals             []string   `bson:"goals" json:"goals"`
	TimeAvailableMin  int        `bson:"timeAvailableMin" json:"time_available_min"`
	EquipmentOverride []string   `bson:"equipmentOverride" json:"equipment_override"`
	Constraints       []string   `bson:"constraints,omitempty" json:"constraints,omitempty"`
}

// PrimaryGoal returns the first goal, or "" when none were given.
func (r PreWorkoutRequest) PrimaryGoal() string {
	if len(r.Goals) == 0 {
		return ""
	}
	return r.Goals[0]
}

// NormalizeWorkoutType lowercases a free-form workout type and joins words with underscores,
// so "Upper Body" and "upper-body" both become "upper_body".
func NormalizeWorkoutType(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return strings.Join(strings.Fields(s), "_")
}
