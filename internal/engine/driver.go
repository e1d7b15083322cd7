package engine

import (
	"pacer/internal/config"
)

// timedNote is a one-shot action deferred to a later session second.
// Notes are plain entries drained by Tick, not timers, so discarding
// the driver discards them with it.
type timedNote struct {
	at  float64
	run func()
}

// Driver maps whole session seconds onto cadence mutations. Tick is
// called once per elapsed second, in order; each call lands in exactly
// one branch so phases cannot double-fire.
type Driver struct {
	plan  *Plan
	cad   *Cadence
	cfg   config.GameConfig
	notes []timedNote
}

// NewDriver wires a driver over a plan and cadence.
func NewDriver(plan *Plan, cad *Cadence, cfg config.GameConfig) *Driver {
	cfg.Normalize()
	return &Driver{plan: plan, cad: cad, cfg: cfg}
}

// Tick advances the session to second t. Branch order matters: warm-up,
// scheduled events, finale ramp, finale trigger, completion, taper.
func (d *Driver) Tick(t float64) {
	d.runNotes(t)

	p := d.plan
	switch {
	case t < p.WarmUpEnd:
		d.warmUp(t)
	case d.eventDue(t):
		d.fireEvent(t)
	case t < p.DurationSeconds:
		if t >= p.MiddleEnd {
			d.finaleRamp(t)
		}
	case !p.FinaleTriggered():
		d.fireFinale(t)
	case t >= p.TotalSeconds():
		d.complete()
	default:
		d.taper(t)
	}
}

func (d *Driver) runNotes(t float64) {
	kept := d.notes[:0]
	for _, n := range d.notes {
		if t >= n.at {
			n.run()
		} else {
			kept = append(kept, n)
		}
	}
	d.notes = kept
}

// warmUp eases the speed from the configured minimum toward the middle
// of the range over the first tenth of the session.
func (d *Driver) warmUp(t float64) {
	if d.cad.Phase() != PhaseActive || d.cad.FlowActive() {
		return
	}
	progress := clampFloat(t/d.plan.WarmUpEnd, 0, 1)
	target := d.cfg.StrokeSpeedMin + 0.5*(d.cfg.StrokeSpeedMax-d.cfg.StrokeSpeedMin)*progress
	d.cad.SetSpeed(target)
}

// eventDue reports whether a scheduled event should fire now. Events
// only fire inside the main phase; one still pending when the finale
// ramp begins is dropped.
func (d *Driver) eventDue(t float64) bool {
	if t >= d.plan.MiddleEnd {
		return false
	}
	ev, ok := d.plan.PeekEvent()
	return ok && t >= ev.At
}

// fireEvent triggers the next due event. When a previous flow is still
// running the cursor stays put and the event is retried next second.
func (d *Driver) fireEvent(t float64) {
	if d.cad.FlowActive() {
		return
	}
	ev, ok := d.plan.PeekEvent()
	if !ok {
		return
	}
	var err error
	switch ev.Type {
	case EventRuin:
		err = d.cad.TriggerRuin(t)
	default:
		err = d.cad.TriggerEdge(t)
	}
	if err == nil {
		d.plan.AdvanceEvent()
	}
}

// finaleRamp pushes the speed toward the maximum over the last tenth of
// the main phase. Each second closes a proportional share of the gap,
// so the ramp converges regardless of where an event left the speed.
func (d *Driver) finaleRamp(t float64) {
	if d.cad.Phase() != PhaseActive || d.cad.FlowActive() {
		return
	}
	remaining := d.plan.DurationSeconds - t
	cur := d.cad.Speed()
	if remaining <= 1 {
		d.cad.SetSpeed(d.cfg.StrokeSpeedMax)
		return
	}
	d.cad.SetSpeed(cur + (d.cfg.StrokeSpeedMax-cur)/remaining)
}

// fireFinale applies the planned finale exactly once. A ruined finale
// latches only after its flow actually starts, so one that collides
// with a running flow is retried on later ticks instead of lost.
func (d *Driver) fireFinale(t float64) {
	if d.plan.Finale() == FinaleRuined {
		if err := d.cad.TriggerRuin(t); err != nil {
			return
		}
		d.plan.MarkFinale()
		d.notes = append(d.notes, timedNote{
			at: t + 15,
			run: func() {
				d.cad.SetNotification("That's all you get.")
			},
		})
		return
	}
	if !d.plan.MarkFinale() {
		return
	}
	switch d.plan.Finale() {
	case FinaleOrgasm:
		d.cad.SetSpeed(d.cfg.StrokeSpeedMax)
		d.cad.SetPhase(PhaseOrgasm)
		d.cad.SetNotification("Finish. You've earned it.")
		d.cad.AddOrgasm()
	case FinaleDenied:
		d.cad.SetSpeed(0)
		d.cad.SetNotification("Denied. Hands off.")
	}
}

// taper runs the wind-down after the finale: fifteen quiet seconds,
// then settle at the middle of the speed range. An orgasm finale glides
// down from max instead of snapping.
func (d *Driver) taper(t float64) {
	since := t - d.plan.DurationSeconds
	if since < 15 {
		return
	}
	if d.cad.FlowActive() {
		return
	}
	mid := (d.cfg.StrokeSpeedMin + d.cfg.StrokeSpeedMax) / 2
	if d.plan.Finale() == FinaleOrgasm {
		remaining := d.plan.TotalSeconds() - t
		cur := d.cad.Speed()
		if remaining <= 1 || cur <= mid {
			d.cad.SetSpeed(mid)
		} else {
			d.cad.SetSpeed(cur + (mid-cur)/remaining)
		}
		return
	}
	d.cad.SetPhase(PhaseActive)
	d.cad.SetSpeed(mid)
}

// complete latches the end of the session. The cadence settles at the
// middle of the range and keeps going; stopping is the user's call.
func (d *Driver) complete() {
	if !d.plan.MarkComplete() {
		return
	}
	mid := (d.cfg.StrokeSpeedMin + d.cfg.StrokeSpeedMax) / 2
	d.cad.SetSpeed(mid)
	d.cad.SetPhase(PhaseActive)
	d.cad.SetNotification("Session complete.")
}
