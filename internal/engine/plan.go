package engine

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"pacer/internal/config"
)

// FinaleType is the scripted outcome that concludes the main session phase.
type FinaleType string

// Finale outcomes.
const (
	FinaleOrgasm FinaleType = "orgasm"
	FinaleDenied FinaleType = "denied"
	FinaleRuined FinaleType = "ruined"
)

// EventType identifies a scheduled mid-session event.
type EventType string

// Scheduled event types.
const (
	EventEdge EventType = "edge"
	EventRuin EventType = "ruin"
)

// PlannedEvent is one scheduled event with its target session time.
type PlannedEvent struct {
	Type EventType `json:"type"`
	At   float64   `json:"at_seconds"`
}

// Plan is the pre-computed schedule for one session. Apart from the event
// cursor and the two one-shot latches it is immutable after creation.
type Plan struct {
	DurationSeconds float64        `json:"duration_seconds"`
	WarmUpEnd       float64        `json:"warm_up_end"`
	MiddleEnd       float64        `json:"middle_end"`
	TaperDuration   float64        `json:"taper_duration"`
	Events          []PlannedEvent `json:"events"`

	finale FinaleType

	mu              sync.Mutex
	nextEvent       int
	finaleTriggered bool
	sessionComplete bool
}

// NewPlan synthesizes a session plan from the game configuration and the
// given random source. Invalid bounds are clamped, never rejected.
func NewPlan(game config.GameConfig, rng *rand.Rand) *Plan {
	game.Normalize()

	duration := randFloat(rng, game.GameDurationMin, game.GameDurationMax) * 60
	if duration < 1 {
		duration = 1
	}

	p := &Plan{
		DurationSeconds: duration,
		WarmUpEnd:       0.10 * duration,
		MiddleEnd:       0.90 * duration,
		TaperDuration:   math.Floor(duration / 3),
	}

	numEdges := randInt(rng, game.EdgesMin, game.EdgesMax)
	numRuins := randInt(rng, game.RuinedMin, game.RuinedMax)

	for i := 0; i < numEdges; i++ {
		p.Events = append(p.Events, PlannedEvent{
			Type: EventEdge,
			At:   randFloat(rng, p.WarmUpEnd, p.MiddleEnd),
		})
	}
	for i := 0; i < numRuins; i++ {
		p.Events = append(p.Events, PlannedEvent{
			Type: EventRuin,
			At:   randFloat(rng, p.WarmUpEnd, p.MiddleEnd),
		})
	}
	sort.Slice(p.Events, func(i, j int) bool {
		return p.Events[i].At < p.Events[j].At
	})

	p.finale = pickFinale(game, rng)
	return p
}

// pickFinale draws once against cumulative probability bands in order
// orgasm, denied, ruined. Weights summing under 100 leave the remainder
// in the ruined band.
func pickFinale(game config.GameConfig, rng *rand.Rand) FinaleType {
	r := rng.Float64() * 100
	switch {
	case r <= game.FinaleOrgasmProb:
		return FinaleOrgasm
	case r <= game.FinaleOrgasmProb+game.FinaleDeniedProb:
		return FinaleDenied
	default:
		return FinaleRuined
	}
}

// Finale returns the chosen finale outcome. It is fixed at plan creation
// and never re-rolled.
func (p *Plan) Finale() FinaleType {
	return p.finale
}

// PeekEvent returns the next unfired event without advancing the cursor.
func (p *Plan) PeekEvent() (PlannedEvent, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.nextEvent >= len(p.Events) {
		return PlannedEvent{}, false
	}
	return p.Events[p.nextEvent], true
}

// AdvanceEvent moves the event cursor forward one step. The cursor is
// monotonic; it never rewinds.
func (p *Plan) AdvanceEvent() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.nextEvent < len(p.Events) {
		p.nextEvent++
	}
}

// EventsFired returns how many scheduled events the driver has fired.
func (p *Plan) EventsFired() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nextEvent
}

// MarkFinale flips the finale latch. It returns true exactly once.
func (p *Plan) MarkFinale() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finaleTriggered {
		return false
	}
	p.finaleTriggered = true
	return true
}

// FinaleTriggered reports whether the finale has fired.
func (p *Plan) FinaleTriggered() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.finaleTriggered
}

// MarkComplete flips the session-complete latch. It returns true exactly once.
func (p *Plan) MarkComplete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sessionComplete {
		return false
	}
	p.sessionComplete = true
	return true
}

// Complete reports whether the session has run past its taper.
func (p *Plan) Complete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessionComplete
}

// TotalSeconds returns the active duration plus the taper window.
func (p *Plan) TotalSeconds() float64 {
	return p.DurationSeconds + p.TaperDuration
}
