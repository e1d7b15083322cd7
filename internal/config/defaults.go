package config

import "github.com/spf13/viper"

// SetDefaults registers default values for all configuration keys.
func SetDefaults() {
	viper.SetDefault("gateway.port", 18690)
	viper.SetDefault("gateway.host", "127.0.0.1")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.file", "")

	viper.SetDefault("storage.driver", "sqlite")

	viper.SetDefault("game.game_duration_min", 5.0)
	viper.SetDefault("game.game_duration_max", 15.0)
	viper.SetDefault("game.stroke_speed_min", 0.25)
	viper.SetDefault("game.stroke_speed_max", 4.0)
	viper.SetDefault("game.edges_min", 0)
	viper.SetDefault("game.edges_max", 3)
	viper.SetDefault("game.ruined_min", 0)
	viper.SetDefault("game.ruined_max", 0)
	viper.SetDefault("game.edge_cooldown_sec", 30.0)
	viper.SetDefault("game.finale_orgasm_prob", 50.0)
	viper.SetDefault("game.finale_denied_prob", 20.0)
	viper.SetDefault("game.finale_ruined_prob", 30.0)
	viper.SetDefault("game.task_frequency_sec", 15)
	viper.SetDefault("game.gender", "")
	viper.SetDefault("game.intensity", "moderate")

	viper.SetDefault("media.tags", []string{})
	viper.SetDefault("media.types.gifs", true)
	viper.SetDefault("media.types.pictures", true)
	viper.SetDefault("media.types.videos", true)
	viper.SetDefault("media.slide_duration_sec", 10)
	viper.SetDefault("media.provider_url", "")
	viper.SetDefault("media.batch_size", 20)
	viper.SetDefault("media.prefetch_threshold", 3)

	viper.SetDefault("tasks.enabled", map[string]map[string]bool{
		"speed": {
			"double_strokes":  true,
			"halved_strokes":  true,
			"teasing_strokes": true,
			"random_speeds":   true,
		},
		"style": {
			"dominant_hand":     true,
			"non_dominant_hand": false,
			"grip_switch":       false,
		},
		"intensity": {
			"hold_the_edge": false,
			"breath_pace":   false,
		},
		"special": {
			"pick_your_poison": false,
		},
	})
}
