package engine

import (
	"math/rand"
	"sync"

	"pacer/internal/audio"
	"pacer/internal/config"
)

// Phase is the instructional state shown alongside the cadence.
type Phase string

// Cadence phases.
const (
	PhaseIdle         Phase = "idle"
	PhaseActive       Phase = "active"
	PhaseEdgeBuildup  Phase = "edge_buildup"
	PhaseEdgeRide     Phase = "edge_ride"
	PhaseEdgeCooldown Phase = "edge_cooldown"
	PhaseRuinBuildup  Phase = "ruin_buildup"
	PhaseRuined       Phase = "ruined"
	PhaseRuinCooldown Phase = "ruin_cooldown"
	PhaseOrgasm       Phase = "orgasm"
)

// InFlow reports whether the phase belongs to an edge or ruin sequence.
func (p Phase) InFlow() bool {
	switch p {
	case PhaseEdgeBuildup, PhaseEdgeRide, PhaseEdgeCooldown,
		PhaseRuinBuildup, PhaseRuined, PhaseRuinCooldown:
		return true
	}
	return false
}

// beatHistorySize bounds the retained beat timestamps.
const beatHistorySize = 60

// Cadence holds the live pacing state: the current speed and phase, the
// beat accumulator, counters, and any active edge or ruin flow. All
// methods are safe for concurrent use; the session loop writes while
// gateway handlers read snapshots.
type Cadence struct {
	mu   sync.Mutex
	cfg  config.GameConfig
	sink audio.Sink
	rng  *rand.Rand

	speed        float64
	tier         audio.Tier
	phase        Phase
	notification string

	beatAccumMs float64
	beatTimes   []float64

	totalBeats int
	edges      int
	ruins      int
	orgasms    int

	flow *flow
}

// NewCadence returns an idle cadence at speed zero.
func NewCadence(cfg config.GameConfig, sink audio.Sink, rng *rand.Rand) *Cadence {
	cfg.Normalize()
	if sink == nil {
		sink = audio.NopSink{}
	}
	return &Cadence{
		cfg:   cfg,
		sink:  sink,
		rng:   rng,
		tier:  audio.TierForSpeed(0),
		phase: PhaseIdle,
	}
}

// SetSpeed updates the cadence speed. Zero and below means stop; any
// other value is clamped into the configured speed range. The audio
// sink hears about every change, and crossing into a new intensity
// tier emits an ambient cue.
func (c *Cadence) SetSpeed(speed float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setSpeedLocked(speed)
}

func (c *Cadence) setSpeedLocked(speed float64) {
	if speed <= 0 {
		c.speed = 0
	} else {
		c.speed = clampFloat(speed, c.cfg.StrokeSpeedMin, c.cfg.StrokeSpeedMax)
	}
	tier := audio.TierForSpeed(c.speed)
	c.sink.SetIntensity(c.speed, tier)
	if tier != c.tier {
		c.tier = tier
		c.sink.PlayAmbientCue(string(tier))
	}
}

// Speed returns the current beats-per-second speed.
func (c *Cadence) Speed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

// SetPhase updates the instructional phase.
func (c *Cadence) SetPhase(p Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = p
}

// Phase returns the current instructional phase.
func (c *Cadence) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// SetNotification replaces the banner text. Empty clears it.
func (c *Cadence) SetNotification(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notification = text
}

// Notification returns the current banner text.
func (c *Cadence) Notification() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notification
}

// TickBeat advances the beat accumulator by deltaMs of unpaused time and
// emits a beat when a full interval has elapsed. At speed s the interval
// is 1000/s milliseconds. elapsed is the session clock reading used to
// timestamp the beat.
func (c *Cadence) TickBeat(deltaMs, elapsed float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.speed <= 0 {
		c.beatAccumMs = 0
		return
	}
	c.beatAccumMs += deltaMs
	interval := 1000 / c.speed
	for c.beatAccumMs >= interval {
		c.beatAccumMs -= interval
		c.totalBeats++
		c.beatTimes = append(c.beatTimes, elapsed)
		if len(c.beatTimes) > beatHistorySize {
			c.beatTimes = c.beatTimes[len(c.beatTimes)-beatHistorySize:]
		}
		c.sink.PlayTick()
	}
}

// RandomSpeed draws a new speed biased toward the middle of the
// configured range: the low end is raised by half and the high end
// trimmed, so event recoveries land somewhere sustainable.
func (c *Cadence) RandomSpeed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.randomSpeedLocked()
}

func (c *Cadence) randomSpeedLocked() float64 {
	slow := clampFloat(c.cfg.StrokeSpeedMin*1.5, c.cfg.StrokeSpeedMin, c.cfg.StrokeSpeedMax)
	fast := clampFloat(c.cfg.StrokeSpeedMax/1.4, slow, c.cfg.StrokeSpeedMax)
	return randFloat(c.rng, slow, fast)
}

// Counters returns the running totals for beats, edges, ruins and
// orgasms.
func (c *Cadence) Counters() (beats, edges, ruins, orgasms int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalBeats, c.edges, c.ruins, c.orgasms
}

// MeasuredRate estimates beats per second from the recent beat history.
// It needs at least two beats inside the window to say anything.
func (c *Cadence) MeasuredRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.beatTimes)
	if n < 2 {
		return 0
	}
	span := c.beatTimes[n-1] - c.beatTimes[0]
	if span <= 0 {
		return 0
	}
	return float64(n-1) / span
}

// Reset returns the cadence to idle and zeroes all counters and history.
func (c *Cadence) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speed = 0
	c.tier = audio.TierForSpeed(0)
	c.phase = PhaseIdle
	c.notification = ""
	c.beatAccumMs = 0
	c.beatTimes = nil
	c.totalBeats = 0
	c.edges = 0
	c.ruins = 0
	c.orgasms = 0
	c.flow = nil
	c.sink.SetIntensity(0, audio.TierForSpeed(0))
}

// CadenceState is a point-in-time copy of the cadence for clients.
type CadenceState struct {
	Speed        float64 `json:"speed"`
	Phase        Phase   `json:"phase"`
	Notification string  `json:"notification,omitempty"`
	TotalBeats   int     `json:"total_beats"`
	Edges        int     `json:"edges"`
	Ruins        int     `json:"ruins"`
	Orgasms      int     `json:"orgasms"`
	MeasuredRate float64 `json:"measured_rate"`
}

// State returns a consistent snapshot of the cadence.
func (c *Cadence) State() CadenceState {
	c.mu.Lock()
	defer c.mu.Unlock()

	rate := 0.0
	if n := len(c.beatTimes); n >= 2 {
		if span := c.beatTimes[n-1] - c.beatTimes[0]; span > 0 {
			rate = float64(n-1) / span
		}
	}
	return CadenceState{
		Speed:        c.speed,
		Phase:        c.phase,
		Notification: c.notification,
		TotalBeats:   c.totalBeats,
		Edges:        c.edges,
		Ruins:        c.ruins,
		Orgasms:      c.orgasms,
		MeasuredRate: rate,
	}
}
