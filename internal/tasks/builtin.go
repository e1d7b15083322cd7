package tasks

import "pacer/internal/config"

// builtin is the full catalog keyed by category and id, matching the
// toggle layout in the configuration.
var builtin = map[Category]map[string]Task{
	CategorySpeed: {
		"double_strokes": {
			ID:           "double_strokes",
			Title:        "Double strokes",
			Description:  "Double your pace for the next thirty seconds.",
			Category:     CategorySpeed,
			Weight:       3,
			MinIntensity: IntensityGentle,
		},
		"halved_strokes": {
			ID:           "halved_strokes",
			Title:        "Halved strokes",
			Description:  "Cut your pace in half until the next task.",
			Category:     CategorySpeed,
			Weight:       3,
			MinIntensity: IntensityGentle,
		},
		"teasing_strokes": {
			ID:           "teasing_strokes",
			Title:        "Teasing strokes",
			Description:  "Featherlight grip only. Barely touch.",
			Category:     CategorySpeed,
			Weight:       2,
			MinIntensity: IntensityGentle,
		},
		"random_speeds": {
			ID:           "random_speeds",
			Title:        "Random speeds",
			Description:  "Change your pace every five strokes, your choice.",
			Category:     CategorySpeed,
			Weight:       2,
			MinIntensity: IntensityModerate,
		},
	},
	CategoryStyle: {
		"dominant_hand": {
			ID:           "dominant_hand",
			Title:        "Dominant hand",
			Description:  "Back to your dominant hand.",
			Category:     CategoryStyle,
			Weight:       2,
			MinIntensity: IntensityGentle,
		},
		"non_dominant_hand": {
			ID:           "non_dominant_hand",
			Title:        "Other hand",
			Description:  "Switch to your other hand until told otherwise.",
			Category:     CategoryStyle,
			Weight:       2,
			MinIntensity: IntensityModerate,
		},
		"grip_switch": {
			ID:           "grip_switch",
			Title:        "Grip switch",
			Description:  "Flip your grip upside down.",
			Category:     CategoryStyle,
			Weight:       1,
			MinIntensity: IntensityModerate,
		},
	},
	CategoryIntensity: {
		"hold_the_edge": {
			ID:           "hold_the_edge",
			Title:        "Hold the edge",
			Description:  "Get close and stay there until the next task.",
			Category:     CategoryIntensity,
			Weight:       1,
			MinIntensity: IntensityIntense,
		},
		"breath_pace": {
			ID:           "breath_pace",
			Title:        "Breath pace",
			Description:  "One stroke per breath. Slow your breathing down.",
			Category:     CategoryIntensity,
			Weight:       1,
			MinIntensity: IntensityIntense,
		},
	},
	CategorySpecial: {
		"pick_your_poison": {
			ID:           "pick_your_poison",
			Title:        "Pick your poison",
			Description:  "Choose: double pace, or hands off for twenty seconds.",
			Category:     CategorySpecial,
			Weight:       1,
			MinIntensity: IntensityIntense,
		},
	},
}

// Catalog returns the tasks enabled in the configuration.
func Catalog(cfg config.TasksConfig) []Task {
	var out []Task
	for category, ids := range builtin {
		for id, task := range ids {
			if cfg.ActionEnabled(string(category), id) {
				out = append(out, task)
			}
		}
	}
	return out
}

// All returns every builtin task regardless of configuration.
func All() []Task {
	var out []Task
	for _, ids := range builtin {
		for _, task := range ids {
			out = append(out, task)
		}
	}
	return out
}
