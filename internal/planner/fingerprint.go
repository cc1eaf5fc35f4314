// Package planner holds the pure steps of the plan pipeline: fingerprinting a request,
// composing the model prompt, normalizing model output and shaping plans for display.
// Nothing in this package performs I/O.
package planner

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"

	"alcyxob/fitgen/internal/domain"
)

// canonicalRequest is the projection of a request that identifies it for dedup.
// Field order is fixed by the struct, so the JSON encoding is stable.
type canonicalRequest struct {
	UserID            string   `json:"userId"`
	WorkoutType       string   `json:"workout_type"`
	Experience        string   `json:"experience"`
	TimeAvailableMin  int      `json:"time_available_min"`
	Goals             []string `json:"goals"`
	EquipmentOverride []string `json:"equipment_override"`
}

// Fingerprint returns the hex SHA-256 of the request's canonical projection.
// Goal and equipment order does not matter; any other field change does.
func Fingerprint(req domain.PreWorkoutRequest) string {
	c := canonicalRequest{
		UserID:            req.UserID,
		WorkoutType:       req.WorkoutType,
		Experience:        string(req.Experience),
		TimeAvailableMin:  req.TimeAvailableMin,
		Goals:             sortedCopy(req.Goals),
		EquipmentOverride: sortedCopy(req.EquipmentOverride),
	}
	// A struct of strings, ints and string slices always encodes.
	b, _ := json.Marshal(c)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	slices.Sort(out)
	return out
}
