package config

import "testing"

func TestGameConfigNormalize(t *testing.T) {
	t.Run("swaps inverted bounds", func(t *testing.T) {
		g := GameConfig{
			GameDurationMin: 15, GameDurationMax: 5,
			StrokeSpeedMin: 4, StrokeSpeedMax: 0.25,
			EdgesMin: 3, EdgesMax: 1,
			RuinedMin: 2, RuinedMax: 0,
		}
		g.Normalize()

		if g.GameDurationMin != 5 || g.GameDurationMax != 15 {
			t.Errorf("duration = %v..%v, want 5..15", g.GameDurationMin, g.GameDurationMax)
		}
		if g.StrokeSpeedMin != 0.25 || g.StrokeSpeedMax != 4 {
			t.Errorf("speed = %v..%v, want 0.25..4", g.StrokeSpeedMin, g.StrokeSpeedMax)
		}
		if g.EdgesMin != 1 || g.EdgesMax != 3 {
			t.Errorf("edges = %d..%d, want 1..3", g.EdgesMin, g.EdgesMax)
		}
		if g.RuinedMin != 0 || g.RuinedMax != 2 {
			t.Errorf("ruins = %d..%d, want 0..2", g.RuinedMin, g.RuinedMax)
		}
	})

	t.Run("raises negatives to zero", func(t *testing.T) {
		g := GameConfig{
			GameDurationMin:  -1,
			StrokeSpeedMin:   -2,
			EdgesMin:         -3,
			RuinedMin:        -1,
			EdgeCooldownSec:  -10,
			FinaleOrgasmProb: -5,
			FinaleDeniedProb: -5,
			FinaleRuinedProb: -5,
		}
		g.Normalize()

		if g.GameDurationMin != 0 || g.StrokeSpeedMin != 0 || g.EdgesMin != 0 || g.RuinedMin != 0 {
			t.Errorf("negative bounds survived: %+v", g)
		}
		if g.EdgeCooldownSec != 0 {
			t.Errorf("edge_cooldown_sec = %v, want 0", g.EdgeCooldownSec)
		}
		if g.FinaleOrgasmProb != 0 || g.FinaleDeniedProb != 0 || g.FinaleRuinedProb != 0 {
			t.Errorf("negative probabilities survived: %+v", g)
		}
	})

	t.Run("task frequency fallback", func(t *testing.T) {
		g := GameConfig{TaskFrequencySec: 0}
		g.Normalize()
		if g.TaskFrequencySec != 15 {
			t.Errorf("task_frequency_sec = %d, want 15", g.TaskFrequencySec)
		}

		g = GameConfig{TaskFrequencySec: 20}
		g.Normalize()
		if g.TaskFrequencySec != 20 {
			t.Errorf("task_frequency_sec = %d, want 20 unchanged", g.TaskFrequencySec)
		}
	})
}
