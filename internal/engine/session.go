package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"pacer/internal/audio"
	"pacer/internal/config"
	"pacer/pkg/logger"
)

// tickInterval is the real-time resolution of the session loop. The
// driver still advances in whole session seconds; the finer loop keeps
// beats and slide timing smooth.
const tickInterval = 100 * time.Millisecond

// Session status values.
const (
	StatusRunning   = "running"
	StatusPaused    = "paused"
	StatusCompleted = "completed"
	StatusStopped   = "stopped"
)

// SlideAdvancer is notified when the media slide interval elapses.
type SlideAdvancer interface {
	Advance()
}

// SessionState is a point-in-time snapshot published to clients. The
// planned finale is withheld until it has fired.
type SessionState struct {
	ID             string       `json:"id"`
	StartedAt      time.Time    `json:"started_at"`
	Status         string       `json:"status"`
	ElapsedSeconds float64      `json:"elapsed_seconds"`
	TotalSeconds   float64      `json:"total_seconds"`
	Cadence        CadenceState `json:"cadence"`
	EventsFired    int          `json:"events_fired"`
	EventsTotal    int          `json:"events_total"`
	Finale         FinaleType   `json:"finale,omitempty"`
}

// Session runs one planned game from start through taper. A single
// goroutine owns the loop; Pause, Resume and Stop are safe from any
// goroutine.
type Session struct {
	ID        string
	StartedAt time.Time

	plan   *Plan
	cad    *Cadence
	clock  *Clock
	driver *Driver
	cfg    config.GameConfig

	slideDur time.Duration
	slides   SlideAdvancer
	onTick   func(SessionState)

	mu     sync.Mutex
	status string

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// SessionOption customizes a session before it starts.
type SessionOption func(*Session)

// WithSlideAdvancer attaches a media queue advanced every interval of
// unpaused time.
func WithSlideAdvancer(a SlideAdvancer, interval time.Duration) SessionOption {
	return func(s *Session) {
		s.slides = a
		s.slideDur = interval
	}
}

// WithTickFunc registers a callback invoked with a fresh snapshot after
// every loop tick. It runs on the session goroutine; keep it quick.
func WithTickFunc(fn func(SessionState)) SessionOption {
	return func(s *Session) { s.onTick = fn }
}

// NewSession plans and assembles a session. It does not start the loop.
func NewSession(cfg config.GameConfig, sink audio.Sink, rng *rand.Rand, opts ...SessionOption) *Session {
	cfg.Normalize()
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	plan := NewPlan(cfg, rng)
	cad := NewCadence(cfg, sink, rng)

	s := &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		plan:      plan,
		cad:       cad,
		clock:     NewClock(),
		driver:    NewDriver(plan, cad, cfg),
		cfg:       cfg,
		status:    StatusRunning,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan exposes the session's schedule.
func (s *Session) Plan() *Plan { return s.plan }

// Cadence exposes the live pacing state.
func (s *Session) Cadence() *Cadence { return s.cad }

// Start launches the session loop.
func (s *Session) Start() {
	s.cad.SetPhase(PhaseActive)
	s.cad.SetSpeed(s.cfg.StrokeSpeedMin)
	logger.Info().
		Str("session_id", s.ID).
		Float64("duration_sec", s.plan.DurationSeconds).
		Int("events", len(s.plan.Events)).
		Msg("session started")
	go s.run()
}

func (s *Session) run() {
	defer close(s.done)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	lastDriven := 0
	announced := false
	var slideAccum time.Duration

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			delta := s.clock.Advance(tickInterval)
			if delta == 0 {
				continue
			}
			t := s.clock.Seconds()

			for sec := lastDriven + 1; float64(sec) <= t; sec++ {
				s.driver.Tick(float64(sec))
				lastDriven = sec
			}
			s.cad.StepFlows(t)
			s.cad.TickBeat(float64(delta.Milliseconds()), t)

			if s.slides != nil && s.slideDur > 0 {
				slideAccum += delta
				if slideAccum >= s.slideDur {
					slideAccum -= s.slideDur
					s.slides.Advance()
				}
			}

			if s.onTick != nil {
				s.onTick(s.State())
			}

			// Completion is a status change, not an exit. The loop
			// keeps the cadence alive until Stop is called.
			if !announced && s.plan.Complete() {
				announced = true
				s.setStatus(StatusCompleted)
				logger.Info().Str("session_id", s.ID).Msg("session completed")
			}
		}
	}
}

// Pause freezes the session clock. Every timed behavior, flows
// included, halts with it.
func (s *Session) Pause() {
	s.clock.Pause()
	s.setStatus(StatusPaused)
}

// Resume unfreezes the session clock.
func (s *Session) Resume() {
	s.clock.Resume()
	s.setStatus(StatusRunning)
}

// Stop ends the loop. Completion alone never does; the session ticks
// on until the user stops it. Safe to call more than once. It blocks
// until the loop goroutine has exited.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
	s.mu.Lock()
	if s.status != StatusCompleted {
		s.status = StatusStopped
	}
	s.mu.Unlock()
}

// TriggerEdge starts an edge sequence now, outside the planned
// schedule. Returns ErrFlowActive while another flow is running.
func (s *Session) TriggerEdge() error {
	return s.cad.TriggerEdge(s.clock.Seconds())
}

// TriggerRuin starts a ruin sequence now, outside the planned schedule.
// Returns ErrFlowActive while another flow is running.
func (s *Session) TriggerRuin() error {
	return s.cad.TriggerRuin(s.clock.Seconds())
}

// Done is closed when the loop goroutine exits.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) setStatus(status string) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// Status returns the lifecycle state.
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// State assembles a snapshot for clients. The finale field stays empty
// until the finale has actually fired.
func (s *Session) State() SessionState {
	st := SessionState{
		ID:             s.ID,
		StartedAt:      s.StartedAt,
		Status:         s.Status(),
		ElapsedSeconds: s.clock.Seconds(),
		TotalSeconds:   s.plan.TotalSeconds(),
		Cadence:        s.cad.State(),
		EventsFired:    s.plan.EventsFired(),
		EventsTotal:    len(s.plan.Events),
	}
	if s.plan.FinaleTriggered() {
		st.Finale = s.plan.Finale()
	}
	return st
}
