package engine

import (
	"math/rand"
	"testing"
)

// testPlan builds a fixed 100s plan with a 33s taper so tick boundaries
// are easy to reason about: warm-up ends at 10, the middle at 90.
func testPlan(finale FinaleType, events ...PlannedEvent) *Plan {
	return &Plan{
		DurationSeconds: 100,
		WarmUpEnd:       10,
		MiddleEnd:       90,
		TaperDuration:   33,
		Events:          events,
		finale:          finale,
	}
}

func newTestDriver(p *Plan) (*Driver, *Cadence) {
	cfg := testGameConfig()
	cad := NewCadence(cfg, nil, rand.New(rand.NewSource(3)))
	return NewDriver(p, cad, cfg), cad
}

func TestDriverWarmUp(t *testing.T) {
	d, cad := newTestDriver(testPlan(FinaleDenied))
	cad.SetPhase(PhaseActive)
	cad.SetSpeed(0.25)

	prev := cad.Speed()
	for sec := 1; sec <= 9; sec++ {
		d.Tick(float64(sec))
		got := cad.Speed()
		if got < prev {
			t.Fatalf("speed dropped during warm-up at t=%d: %v -> %v", sec, prev, got)
		}
		prev = got
	}

	// At t=9 the target is min + half the range scaled by 9/10.
	want := 0.25 + 0.5*(4-0.25)*0.9
	if got := cad.Speed(); got != want {
		t.Errorf("warm-up speed at t=9 = %v, want %v", got, want)
	}
}

func TestDriverWarmUp_SkippedWhileIdle(t *testing.T) {
	d, cad := newTestDriver(testPlan(FinaleDenied))
	// phase stays idle

	d.Tick(5)
	if got := cad.Speed(); got != 0 {
		t.Errorf("speed = %v, want 0 while idle", got)
	}
}

func TestDriverFiresEvent(t *testing.T) {
	p := testPlan(FinaleDenied, PlannedEvent{Type: EventEdge, At: 20})
	d, cad := newTestDriver(p)
	cad.SetPhase(PhaseActive)

	d.Tick(19)
	if got := p.EventsFired(); got != 0 {
		t.Fatalf("EventsFired before due time = %d, want 0", got)
	}

	d.Tick(20)
	if got := p.EventsFired(); got != 1 {
		t.Errorf("EventsFired = %d, want 1", got)
	}
	if got := cad.Phase(); got != PhaseEdgeBuildup {
		t.Errorf("Phase = %v, want %v", got, PhaseEdgeBuildup)
	}
}

func TestDriverEventRetryWhileBusy(t *testing.T) {
	p := testPlan(FinaleDenied,
		PlannedEvent{Type: EventEdge, At: 20},
		PlannedEvent{Type: EventRuin, At: 21},
	)
	d, cad := newTestDriver(p)
	cad.SetPhase(PhaseActive)

	d.Tick(20)
	if got := p.EventsFired(); got != 1 {
		t.Fatalf("EventsFired = %d, want 1", got)
	}

	// The ruin is due but the edge flow is still running: cursor stays.
	d.Tick(21)
	if got := p.EventsFired(); got != 1 {
		t.Errorf("EventsFired during busy flow = %d, want 1", got)
	}

	// Finish the edge flow, then the pending ruin fires on the next tick.
	cad.StepFlows(1000)
	d.Tick(22)
	if got := p.EventsFired(); got != 2 {
		t.Errorf("EventsFired after flow ended = %d, want 2", got)
	}
	if got := cad.Phase(); got != PhaseRuinBuildup {
		t.Errorf("Phase = %v, want %v", got, PhaseRuinBuildup)
	}
}

func TestDriverFinaleRamp(t *testing.T) {
	d, cad := newTestDriver(testPlan(FinaleDenied))
	cad.SetPhase(PhaseActive)
	cad.SetSpeed(1)

	d.Tick(90)
	want := 1 + (4-1.0)/10
	if got := cad.Speed(); got != want {
		t.Errorf("speed after first ramp tick = %v, want %v", got, want)
	}

	prev := cad.Speed()
	for sec := 91; sec <= 99; sec++ {
		d.Tick(float64(sec))
		got := cad.Speed()
		if got < prev {
			t.Fatalf("ramp not monotonic at t=%d: %v -> %v", sec, prev, got)
		}
		prev = got
	}
	if got := cad.Speed(); got != 4 {
		t.Errorf("speed at t=99 = %v, want max 4", got)
	}
}

func TestDriverDeniedFinale(t *testing.T) {
	d, cad := newTestDriver(testPlan(FinaleDenied))
	cad.SetPhase(PhaseActive)
	cad.SetSpeed(3)

	d.Tick(100)
	if got := cad.Speed(); got != 0 {
		t.Errorf("speed after denial = %v, want 0", got)
	}
	if got := cad.Notification(); got != "Denied. Hands off." {
		t.Errorf("notification = %q", got)
	}
	if !d.plan.FinaleTriggered() {
		t.Error("finale not latched")
	}

	// Fifteen quiet seconds, then the taper settles at the range middle.
	d.Tick(110)
	if got := cad.Speed(); got != 0 {
		t.Errorf("speed during quiet window = %v, want 0", got)
	}

	d.Tick(116)
	mid := (0.25 + 4) / 2
	if got := cad.Speed(); got != mid {
		t.Errorf("taper speed = %v, want %v", got, mid)
	}
	if got := cad.Phase(); got != PhaseActive {
		t.Errorf("taper phase = %v, want %v", got, PhaseActive)
	}
}

func TestDriverOrgasmFinale(t *testing.T) {
	d, cad := newTestDriver(testPlan(FinaleOrgasm))
	cad.SetPhase(PhaseActive)
	cad.SetSpeed(3)

	d.Tick(100)
	if got := cad.Speed(); got != 4 {
		t.Errorf("speed at finale = %v, want max 4", got)
	}
	if got := cad.Phase(); got != PhaseOrgasm {
		t.Errorf("phase = %v, want %v", got, PhaseOrgasm)
	}
	if _, _, _, orgasms := cad.Counters(); orgasms != 1 {
		t.Errorf("orgasms = %d, want 1", orgasms)
	}

	// A second pass through the finale branch must not double-count.
	d.fireFinale(100)
	if _, _, _, orgasms := cad.Counters(); orgasms != 1 {
		t.Errorf("orgasms after repeat = %d, want 1", orgasms)
	}

	// Glide down toward the middle instead of snapping.
	mid := (0.25 + 4) / 2
	prev := cad.Speed()
	for sec := 116; sec <= 132; sec++ {
		d.Tick(float64(sec))
		got := cad.Speed()
		if got > prev {
			t.Fatalf("glide rose at t=%d: %v -> %v", sec, prev, got)
		}
		prev = got
	}
	if got := cad.Speed(); got != mid {
		t.Errorf("speed at taper end = %v, want %v", got, mid)
	}
}

func TestDriverRuinedFinale(t *testing.T) {
	d, cad := newTestDriver(testPlan(FinaleRuined))
	cad.SetPhase(PhaseActive)

	d.Tick(100)
	if got := cad.Phase(); got != PhaseRuinBuildup {
		t.Errorf("phase = %v, want %v", got, PhaseRuinBuildup)
	}

	for sec := 101; sec <= 114; sec++ {
		cad.StepFlows(float64(sec))
		d.Tick(float64(sec))
	}

	// The deferred line lands fifteen seconds after the trigger.
	d.Tick(115)
	if got := cad.Notification(); got != "That's all you get." {
		t.Errorf("notification at t=115 = %q", got)
	}

	cad.StepFlows(1000)
	if _, _, ruins, _ := cad.Counters(); ruins != 1 {
		t.Errorf("ruins = %d, want 1", ruins)
	}
}

func TestDriverRuinedFinaleWaitsForRunningFlow(t *testing.T) {
	d, cad := newTestDriver(testPlan(FinaleRuined))
	cad.SetPhase(PhaseActive)

	// An edge triggered just before the end is still running when the
	// finale comes due. The finale must not be consumed by the refusal.
	if err := cad.TriggerEdge(99); err != nil {
		t.Fatalf("TriggerEdge: %v", err)
	}
	d.Tick(100)
	if d.plan.FinaleTriggered() {
		t.Fatal("finale latched while a flow was still running")
	}

	// Once the edge flow ends the finale fires on the next tick.
	cad.StepFlows(1000)
	d.Tick(101)
	if !d.plan.FinaleTriggered() {
		t.Fatal("finale did not fire after the flow ended")
	}
	if got := cad.Phase(); got != PhaseRuinBuildup {
		t.Errorf("phase = %v, want %v", got, PhaseRuinBuildup)
	}
}

func TestDriverComplete(t *testing.T) {
	d, cad := newTestDriver(testPlan(FinaleDenied))
	cad.SetPhase(PhaseActive)
	d.Tick(100) // finale

	// Completion settles at the middle of the range and keeps the
	// cadence active; only an explicit stop stills it.
	d.Tick(133)
	mid := (0.25 + 4) / 2
	if got := cad.Speed(); got != mid {
		t.Errorf("speed after completion = %v, want %v", got, mid)
	}
	if got := cad.Phase(); got != PhaseActive {
		t.Errorf("phase = %v, want %v", got, PhaseActive)
	}
	if got := cad.Notification(); got != "Session complete." {
		t.Errorf("notification = %q", got)
	}
	if !d.plan.Complete() {
		t.Error("plan not marked complete")
	}

	// Latch: a later tick changes nothing.
	cad.SetNotification("x")
	d.Tick(134)
	if got := cad.Notification(); got != "x" {
		t.Errorf("notification after extra tick = %q, want unchanged", got)
	}
	if got := cad.Speed(); got != mid {
		t.Errorf("speed after extra tick = %v, want %v", got, mid)
	}
}

func TestDriverEventIgnoredPastMainPhase(t *testing.T) {
	p := testPlan(FinaleDenied, PlannedEvent{Type: EventEdge, At: 99.5})
	d, cad := newTestDriver(p)
	cad.SetPhase(PhaseActive)

	// Jumping straight past the main phase: the leftover event never
	// fires, the finale does.
	d.Tick(100)
	if got := p.EventsFired(); got != 0 {
		t.Errorf("EventsFired = %d, want 0", got)
	}
	if !p.FinaleTriggered() {
		t.Error("finale not triggered")
	}
}

func TestDriverOverdueEventYieldsToFinaleRamp(t *testing.T) {
	p := testPlan(FinaleDenied, PlannedEvent{Type: EventEdge, At: 85})
	d, cad := newTestDriver(p)
	cad.SetPhase(PhaseActive)
	cad.SetSpeed(1)

	// The event was due at 85 but the first tick we see is already in
	// the ramp window. It is dropped, not fired late.
	d.Tick(91)
	if got := p.EventsFired(); got != 0 {
		t.Errorf("EventsFired = %d, want 0", got)
	}
	if got := cad.Phase(); got != PhaseActive {
		t.Errorf("phase = %v, want %v", got, PhaseActive)
	}
	if got := cad.Speed(); got <= 1 {
		t.Errorf("speed = %v, want ramp above 1", got)
	}
}
