package engine

import (
	"math/rand"
	"sort"
	"testing"

	"pacer/internal/config"
)

func testGameConfig() config.GameConfig {
	return config.GameConfig{
		GameDurationMin:  5,
		GameDurationMax:  15,
		StrokeSpeedMin:   0.25,
		StrokeSpeedMax:   4,
		EdgesMin:         1,
		EdgesMax:         3,
		RuinedMin:        0,
		RuinedMax:        1,
		EdgeCooldownSec:  30,
		FinaleOrgasmProb: 50,
		FinaleDeniedProb: 20,
		FinaleRuinedProb: 30,
		TaskFrequencySec: 15,
	}
}

func TestNewPlan(t *testing.T) {
	cfg := testGameConfig()

	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		p := NewPlan(cfg, rng)

		if p.DurationSeconds < 300 || p.DurationSeconds >= 900 {
			t.Errorf("seed %d: duration %v outside [300, 900)", seed, p.DurationSeconds)
		}
		if p.WarmUpEnd != 0.10*p.DurationSeconds {
			t.Errorf("seed %d: warm-up end %v, want %v", seed, p.WarmUpEnd, 0.10*p.DurationSeconds)
		}
		if p.MiddleEnd != 0.90*p.DurationSeconds {
			t.Errorf("seed %d: middle end %v, want %v", seed, p.MiddleEnd, 0.90*p.DurationSeconds)
		}

		edges, ruins := 0, 0
		for _, ev := range p.Events {
			switch ev.Type {
			case EventEdge:
				edges++
			case EventRuin:
				ruins++
			}
			if ev.At < p.WarmUpEnd || ev.At >= p.MiddleEnd {
				t.Errorf("seed %d: event at %v outside [%v, %v)", seed, ev.At, p.WarmUpEnd, p.MiddleEnd)
			}
		}
		if edges < cfg.EdgesMin || edges > cfg.EdgesMax {
			t.Errorf("seed %d: %d edges outside [%d, %d]", seed, edges, cfg.EdgesMin, cfg.EdgesMax)
		}
		if ruins < cfg.RuinedMin || ruins > cfg.RuinedMax {
			t.Errorf("seed %d: %d ruins outside [%d, %d]", seed, ruins, cfg.RuinedMin, cfg.RuinedMax)
		}

		if !sort.SliceIsSorted(p.Events, func(i, j int) bool {
			return p.Events[i].At < p.Events[j].At
		}) {
			t.Errorf("seed %d: events not sorted by time", seed)
		}
	}
}

func TestNewPlan_ClampsDegenerateDuration(t *testing.T) {
	cfg := testGameConfig()
	cfg.GameDurationMin = 0
	cfg.GameDurationMax = 0

	p := NewPlan(cfg, rand.New(rand.NewSource(1)))
	if p.DurationSeconds != 1 {
		t.Errorf("duration = %v, want 1", p.DurationSeconds)
	}
}

func TestPickFinale(t *testing.T) {
	t.Run("all weight on orgasm", func(t *testing.T) {
		cfg := testGameConfig()
		cfg.FinaleOrgasmProb = 100
		cfg.FinaleDeniedProb = 0
		cfg.FinaleRuinedProb = 0

		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 200; i++ {
			if got := pickFinale(cfg, rng); got != FinaleOrgasm {
				t.Fatalf("draw %d: finale %q, want %q", i, got, FinaleOrgasm)
			}
		}
	})

	t.Run("all weight on denied", func(t *testing.T) {
		cfg := testGameConfig()
		cfg.FinaleOrgasmProb = 0
		cfg.FinaleDeniedProb = 100
		cfg.FinaleRuinedProb = 0

		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 200; i++ {
			if got := pickFinale(cfg, rng); got != FinaleDenied {
				t.Fatalf("draw %d: finale %q, want %q", i, got, FinaleDenied)
			}
		}
	})

	t.Run("remainder falls to ruined", func(t *testing.T) {
		cfg := testGameConfig()
		cfg.FinaleOrgasmProb = 0
		cfg.FinaleDeniedProb = 0
		cfg.FinaleRuinedProb = 0

		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 200; i++ {
			if got := pickFinale(cfg, rng); got != FinaleRuined {
				t.Fatalf("draw %d: finale %q, want %q", i, got, FinaleRuined)
			}
		}
	})

	t.Run("rough distribution", func(t *testing.T) {
		cfg := testGameConfig()
		rng := rand.New(rand.NewSource(42))

		counts := map[FinaleType]int{}
		const n = 10000
		for i := 0; i < n; i++ {
			counts[pickFinale(cfg, rng)]++
		}

		if got := float64(counts[FinaleOrgasm]) / n; got < 0.45 || got > 0.55 {
			t.Errorf("orgasm fraction %v, want about 0.50", got)
		}
		if got := float64(counts[FinaleDenied]) / n; got < 0.15 || got > 0.25 {
			t.Errorf("denied fraction %v, want about 0.20", got)
		}
		if got := float64(counts[FinaleRuined]) / n; got < 0.25 || got > 0.35 {
			t.Errorf("ruined fraction %v, want about 0.30", got)
		}
	})
}

func TestPlanEventCursor(t *testing.T) {
	p := &Plan{
		Events: []PlannedEvent{
			{Type: EventEdge, At: 10},
			{Type: EventRuin, At: 20},
		},
	}

	ev, ok := p.PeekEvent()
	if !ok || ev.At != 10 {
		t.Fatalf("PeekEvent = %+v, %v; want first event", ev, ok)
	}

	// Peek does not advance
	ev, _ = p.PeekEvent()
	if ev.At != 10 {
		t.Fatalf("second PeekEvent moved the cursor")
	}

	p.AdvanceEvent()
	ev, ok = p.PeekEvent()
	if !ok || ev.At != 20 {
		t.Fatalf("after advance PeekEvent = %+v, %v; want second event", ev, ok)
	}

	p.AdvanceEvent()
	if _, ok := p.PeekEvent(); ok {
		t.Fatal("PeekEvent past the end returned ok")
	}
	if got := p.EventsFired(); got != 2 {
		t.Errorf("EventsFired = %d, want 2", got)
	}

	// Advancing past the end is a no-op
	p.AdvanceEvent()
	if got := p.EventsFired(); got != 2 {
		t.Errorf("EventsFired after extra advance = %d, want 2", got)
	}
}

func TestPlanLatches(t *testing.T) {
	p := &Plan{}

	if !p.MarkFinale() {
		t.Error("first MarkFinale = false, want true")
	}
	if p.MarkFinale() {
		t.Error("second MarkFinale = true, want false")
	}
	if !p.FinaleTriggered() {
		t.Error("FinaleTriggered = false after latch")
	}

	if !p.MarkComplete() {
		t.Error("first MarkComplete = false, want true")
	}
	if p.MarkComplete() {
		t.Error("second MarkComplete = true, want false")
	}
	if !p.Complete() {
		t.Error("Complete = false after latch")
	}
}
