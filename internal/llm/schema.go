package llm

import "slices"

// nullableInt is a strict-mode friendly "integer or null".
var nullableInt = map[string]any{"type": []string{"integer", "null"}}

func object(properties map[string]any) map[string]any {
	required := make([]string, 0, len(properties))
	for k := range properties {
		required = append(required, k)
	}
	slices.Sort(required)
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func arrayOf(items any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

var (
	str     = map[string]any{"type": "string"}
	integer = map[string]any{"type": "integer"}
	strList = arrayOf(str)
)

// PlanSchema is the structured-output schema every generated plan must match.
// Strict mode requires every property to be listed as required, so optional values are nullable.
var PlanSchema = func() *JSONSchema {
	set := object(map[string]any{
		"reps":      nullableInt,
		"time_sec":  nullableInt,
		"rest_sec":  integer,
		"tempo":     str,
		"intensity": str,
		"notes":     str,
	})
	exercise := object(map[string]any{
		"slug":           str,
		"name":           str,
		"category":       str,
		"equipment":      strList,
		"target_muscles": strList,
		"sets":           arrayOf(set),
	})
	return &JSONSchema{
		Name:        "workout_plan",
		Description: "A single workout session with warm-up, main blocks, optional finisher and cool-down.",
		Schema: object(map[string]any{
			"meta": object(map[string]any{
				"date":             str,
				"session_type":     str,
				"goal":             str,
				"experience":       str,
				"est_duration_min": integer,
				"equipment_used":   strList,
			}),
			"warmup": arrayOf(exercise),
			"blocks": arrayOf(object(map[string]any{
				"name":      str,
				"exercises": arrayOf(exercise),
			})),
			"finisher": arrayOf(object(map[string]any{
				"name":     str,
				"work_sec": integer,
				"rest_sec": integer,
				"rounds":   integer,
				"notes":    str,
			})),
			"cooldown": arrayOf(exercise),
			"notes":    str,
		}),
	}
}()
