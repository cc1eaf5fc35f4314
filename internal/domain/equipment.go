package domain

// EquipmentItem is one entry of the static equipment catalog.
type EquipmentItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"` // "none", "free_weights", "machines", "accessories", "cardio"
}

// EquipmentCatalog is served as-is by GET /equipment. IDs are the values clients send
// back in equipment_override.
var EquipmentCatalog = []EquipmentItem{
	{ID: "bodyweight", Name: "Bodyweight", Category: "none"},
	{ID: "dumbbells", Name: "Dumbbells", Category: "free_weights"},
	{ID: "barbell", Name: "Barbell", Category: "free_weights"},
	{ID: "kettlebell", Name: "Kettlebell", Category: "free_weights"},
	{ID: "ez_bar", Name: "EZ Curl Bar", Category: "free_weights"},
	{ID: "bench", Name: "Bench", Category: "accessories"},
	{ID: "pull_up_bar", Name: "Pull-up Bar", Category: "accessories"},
	{ID: "resistance_bands", Name: "Resistance Bands", Category: "accessories"},
	{ID: "medicine_ball", Name: "Medicine Ball", Category: "accessories"},
	{ID: "trx", Name: "Suspension Trainer", Category: "accessories"},
	{ID: "jump_rope", Name: "Jump Rope", Category: "cardio"},
	{ID: "cable_machine", Name: "Cable Machine", Category: "machines"},
	{ID: "leg_press", Name: "Leg Press", Category: "machines"},
	{ID: "smith_machine", Name: "Smith Machine", Category: "machines"},
	{ID: "rowing_machine", Name: "Rowing Machine", Category: "cardio"},
	{ID: "treadmill", Name: "Treadmill", Category: "cardio"},
	{ID: "stationary_bike", Name: "Stationary Bike", Category: "cardio"},
}
