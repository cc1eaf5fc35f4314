package api

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"alcyxob/fitgen/internal/domain"
)

// Caps applied after validation.
const (
	MaxListItems   = 30
	MaxConstraints = 20
)

var registerValidatorOnce sync.Once

// registerValidator reports validation failures under JSON field names.
func registerValidator() {
	registerValidatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// GenerateWorkoutRequest is the body of POST /workouts/generate.
type GenerateWorkoutRequest struct {
	UserID            string            `json:"userId"`
	WorkoutType       string            `json:"workout_type" binding:"omitempty,max=60"`
	Experience        domain.Experience `json:"experience" binding:"required,oneof=beginner intermediate advanced"`
	Goals             []string          `json:"goals" binding:"omitempty,max=30,dive,max=60"`
	TimeAvailableMin  *int              `json:"time_available_min" binding:"required,min=10,max=180"`
	EquipmentOverride []string          `json:"equipment_override" binding:"omitempty,max=30,dive,max=60"`
	Constraints       []string          `json:"constraints" binding:"omitempty,max=20,dive,max=200"`
}

// ToDomain builds the canonical request for callerID.
func (r GenerateWorkoutRequest) ToDomain(callerID string) domain.PreWorkoutRequest {
	workoutType := domain.NormalizeWorkoutType(r.WorkoutType)
	if workoutType == "" {
		workoutType = "general_fitness"
	}
	return domain.PreWorkoutRequest{
		UserID:            callerID,
		WorkoutType:       workoutType,
		Experience:        r.Experience,
		Goals:             sanitizeList(r.Goals),
		TimeAvailableMin:  *r.TimeAvailableMin,
		EquipmentOverride: sanitizeList(r.EquipmentOverride),
		Constraints:       sanitizeConstraints(r.Constraints),
	}
}

// sanitizeList trims and lowercases items, drops empties and repeats, and caps the list.
// Item length is enforced by the binding rules.
func sanitizeList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if len(out) == MaxListItems {
			break
		}
	}
	return out
}

// sanitizeConstraints keeps the user's wording; constraints are not part of the fingerprint.
func sanitizeConstraints(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == MaxConstraints {
			break
		}
	}
	return out
}

// CompleteWorkoutRequest is the body of POST /workouts/:id/complete.
type CompleteWorkoutRequest struct {
	Feedback string `json:"feedback" binding:"max=1000"`
	Rating   *int   `json:"rating" binding:"omitempty,min=1,max=5"`
}

// ProfileRequest is the body of POST /profile and PATCH /profile/:id.
type ProfileRequest struct {
	Experience           domain.Experience `json:"experience" binding:"omitempty,oneof=beginner intermediate advanced"`
	Goals                []string          `json:"goals" binding:"omitempty,max=30,dive,max=60"`
	Equipment            []string          `json:"equipment" binding:"omitempty,max=30,dive,max=60"`
	Constraints          []string          `json:"constraints" binding:"omitempty,max=20,dive,max=200"`
	PreferredDurationMin int               `json:"preferredDurationMin" binding:"omitempty,min=10,max=180"`
}
