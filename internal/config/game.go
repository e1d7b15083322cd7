package config

// GameConfig is the per-session pacing configuration. It is read once at
// session start; edits apply to the next session.
type GameConfig struct {
	// Session length bounds in minutes.
	GameDurationMin float64 `mapstructure:"game_duration_min" yaml:"game_duration_min"`
	GameDurationMax float64 `mapstructure:"game_duration_max" yaml:"game_duration_max"`

	// Cadence bounds in beats per second.
	StrokeSpeedMin float64 `mapstructure:"stroke_speed_min" yaml:"stroke_speed_min"`
	StrokeSpeedMax float64 `mapstructure:"stroke_speed_max" yaml:"stroke_speed_max"`

	// Scheduled event counts.
	EdgesMin        int     `mapstructure:"edges_min" yaml:"edges_min"`
	EdgesMax        int     `mapstructure:"edges_max" yaml:"edges_max"`
	RuinedMin       int     `mapstructure:"ruined_min" yaml:"ruined_min"`
	RuinedMax       int     `mapstructure:"ruined_max" yaml:"ruined_max"`
	EdgeCooldownSec float64 `mapstructure:"edge_cooldown_sec" yaml:"edge_cooldown_sec"`

	// Finale outcome weights. They need not sum to 100; any remainder
	// falls to the ruined band.
	FinaleOrgasmProb float64 `mapstructure:"finale_orgasm_prob" yaml:"finale_orgasm_prob"`
	FinaleDeniedProb float64 `mapstructure:"finale_denied_prob" yaml:"finale_denied_prob"`
	FinaleRuinedProb float64 `mapstructure:"finale_ruined_prob" yaml:"finale_ruined_prob"`

	// Seconds between task scheduler selections.
	TaskFrequencySec int `mapstructure:"task_frequency_sec" yaml:"task_frequency_sec"`

	// Selection filters applied when picking tasks.
	Gender    string `mapstructure:"gender" yaml:"gender"`
	Intensity string `mapstructure:"intensity" yaml:"intensity"`
}

// Normalize clamps invalid values instead of rejecting them: inverted
// min/max pairs are swapped, negatives raised to zero.
func (g *GameConfig) Normalize() {
	if g.GameDurationMin < 0 {
		g.GameDurationMin = 0
	}
	if g.GameDurationMax < g.GameDurationMin {
		g.GameDurationMin, g.GameDurationMax = g.GameDurationMax, g.GameDurationMin
	}

	if g.StrokeSpeedMin < 0 {
		g.StrokeSpeedMin = 0
	}
	if g.StrokeSpeedMax < g.StrokeSpeedMin {
		g.StrokeSpeedMin, g.StrokeSpeedMax = g.StrokeSpeedMax, g.StrokeSpeedMin
	}

	if g.EdgesMin < 0 {
		g.EdgesMin = 0
	}
	if g.EdgesMax < g.EdgesMin {
		g.EdgesMin, g.EdgesMax = g.EdgesMax, g.EdgesMin
	}

	if g.RuinedMin < 0 {
		g.RuinedMin = 0
	}
	if g.RuinedMax < g.RuinedMin {
		g.RuinedMin, g.RuinedMax = g.RuinedMax, g.RuinedMin
	}

	if g.EdgeCooldownSec < 0 {
		g.EdgeCooldownSec = 0
	}
	if g.FinaleOrgasmProb < 0 {
		g.FinaleOrgasmProb = 0
	}
	if g.FinaleDeniedProb < 0 {
		g.FinaleDeniedProb = 0
	}
	if g.FinaleRuinedProb < 0 {
		g.FinaleRuinedProb = 0
	}
	if g.TaskFrequencySec <= 0 {
		g.TaskFrequencySec = 15
	}
}
