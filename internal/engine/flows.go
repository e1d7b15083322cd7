package engine

import "errors"

// ErrFlowActive is returned when an edge or ruin is triggered while a
// previous flow is still running.
var ErrFlowActive = errors.New("engine: flow already active")

// flowStep is one stage of an edge or ruin sequence. enter applies the
// stage's speed, phase and notification; hold is how long the stage
// lasts in unpaused seconds. Holds are drawn once, when the flow is
// triggered, so a flow's shape is fixed the moment it starts.
type flowStep struct {
	enter func(c *Cadence)
	hold  float64
}

// flow is a precomputed step table advanced by the session loop. There
// are no timers behind it; stopping the session drops the table and
// nothing can fire afterwards.
type flow struct {
	steps   []flowStep
	index   int
	stepEnd float64
}

// TriggerEdge starts the edge sequence: ramp to max speed, back off to a
// slow ride, stop for the cooldown, then recover at a fresh random
// speed. at is the session clock reading at trigger time.
func (c *Cadence) TriggerEdge(at float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.flow != nil {
		return ErrFlowActive
	}

	buildup := randFloat(c.rng, 8, 15)
	ride := randFloat(c.rng, 5, 25)
	cooldown := c.cfg.EdgeCooldownSec

	c.startFlowLocked(at, []flowStep{
		{
			hold: buildup,
			enter: func(c *Cadence) {
				c.setSpeedLocked(c.cfg.StrokeSpeedMax)
				c.phase = PhaseEdgeBuildup
				c.announceLocked("Get to the edge!")
			},
		},
		{
			hold: ride,
			enter: func(c *Cadence) {
				c.setSpeedLocked(c.cfg.StrokeSpeedMax * 0.3)
				c.phase = PhaseEdgeRide
				c.announceLocked("Hold it right there.")
			},
		},
		{
			hold: cooldown,
			enter: func(c *Cadence) {
				c.setSpeedLocked(0)
				c.phase = PhaseEdgeCooldown
				c.edges++
				c.announceLocked("Hands off. Cool down.")
			},
		},
		{
			hold: 3,
			enter: func(c *Cadence) {
				c.setSpeedLocked(c.randomSpeedLocked())
				c.phase = PhaseActive
			},
		},
	})
	return nil
}

// TriggerRuin starts the ruin sequence: ramp to max, full stop at the
// point of no return, then a short recovery before resuming.
func (c *Cadence) TriggerRuin(at float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.flow != nil {
		return ErrFlowActive
	}

	buildup := randFloat(c.rng, 6, 12)
	ruined := randFloat(c.rng, 5, 15)

	c.startFlowLocked(at, []flowStep{
		{
			hold: buildup,
			enter: func(c *Cadence) {
				c.setSpeedLocked(c.cfg.StrokeSpeedMax)
				c.phase = PhaseRuinBuildup
				c.announceLocked("Don't stop until I say so.")
			},
		},
		{
			hold: ruined,
			enter: func(c *Cadence) {
				c.setSpeedLocked(0)
				c.phase = PhaseRuined
				c.ruins++
				c.announceLocked("Let go. Ruin it.")
			},
		},
		{
			hold: 3,
			enter: func(c *Cadence) {
				c.setSpeedLocked(c.randomSpeedLocked())
				c.phase = PhaseRuinCooldown
			},
		},
	})
	return nil
}

func (c *Cadence) startFlowLocked(at float64, steps []flowStep) {
	c.flow = &flow{steps: steps}
	steps[0].enter(c)
	c.flow.stepEnd = at + steps[0].hold
}

// announceLocked sets the banner and speaks it, ducking ambience for the
// duration of the line.
func (c *Cadence) announceLocked(text string) {
	c.notification = text
	c.sink.Duck()
	c.sink.PlayVoiceLine(text)
	c.sink.Unduck()
}

// StepFlows advances the active flow against the session clock. The loop
// form lets a single call cross several short stages after a stall. When
// the table runs out the cadence returns to the active phase and the
// banner clears.
func (c *Cadence) StepFlows(elapsed float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.flow
	if f == nil {
		return
	}
	for elapsed >= f.stepEnd {
		f.index++
		if f.index >= len(f.steps) {
			c.flow = nil
			c.phase = PhaseActive
			c.notification = ""
			return
		}
		f.steps[f.index].enter(c)
		f.stepEnd += f.steps[f.index].hold
	}
}

// FlowActive reports whether an edge or ruin sequence is in progress.
func (c *Cadence) FlowActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flow != nil
}

// AddOrgasm bumps the orgasm counter. The driver calls it once when an
// orgasm finale fires.
func (c *Cadence) AddOrgasm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orgasms++
}
