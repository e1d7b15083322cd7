package engine

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"pacer/internal/audio"
	"pacer/internal/config"
	"pacer/internal/media"
	"pacer/internal/storage"
	"pacer/internal/tasks"
	"pacer/pkg/logger"
)

// Manager errors.
var (
	ErrSessionActive = errors.New("engine: a session is already active")
	ErrNoSession     = errors.New("engine: no active session")
)

// lastSessionKey is the kv pointer to the most recent session.
const lastSessionKey = "session.last"

// Manager owns at most one live session and the task scheduler and
// media queue that run alongside it. Storage is optional; without it
// sessions simply are not persisted.
type Manager struct {
	mu sync.Mutex

	db   *storage.DB
	sink audio.Sink

	session *Session
	sched   *tasks.Scheduler
	queue   *media.Queue

	onState func(SessionState)
	onTask  func(tasks.HistoryEntry)
}

// NewManager builds a manager. db may be nil.
func NewManager(db *storage.DB, sink audio.Sink) *Manager {
	if sink == nil {
		sink = audio.NopSink{}
	}
	return &Manager{db: db, sink: sink}
}

// SetStateFunc registers a callback for session snapshots. Set it
// before starting a session.
func (m *Manager) SetStateFunc(fn func(SessionState)) {
	m.mu.Lock()
	m.onState = fn
	m.mu.Unlock()
}

// SetTaskFunc registers a callback for issued tasks.
func (m *Manager) SetTaskFunc(fn func(tasks.HistoryEntry)) {
	m.mu.Lock()
	m.onTask = fn
	m.mu.Unlock()
}

// StartSession plans and launches a session from the given
// configuration. Only one session may be live at a time.
func (m *Manager) StartSession(ctx context.Context, cfg *config.Config) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		switch m.session.Status() {
		case StatusRunning, StatusPaused:
			return nil, ErrSessionActive
		}
	}

	// The queue, session and scheduler each run on their own goroutine,
	// so each gets its own generator seeded from a common root.
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var provider media.Provider
	if cfg.Media.ProviderURL != "" {
		provider = media.NewHTTPProvider(cfg.Media.ProviderURL)
	}

	var opts []SessionOption
	if m.onState != nil {
		opts = append(opts, WithTickFunc(m.onState))
	}

	var queue *media.Queue
	if provider != nil {
		queue = media.NewQueue(cfg.Media, provider, spawnRand(rng))
		if err := queue.Prime(ctx); err != nil {
			logger.Warn().Err(err).Msg("media prime failed")
		}
		slide := time.Duration(cfg.Media.SlideDurationSec) * time.Second
		if slide <= 0 {
			slide = 10 * time.Second
		}
		opts = append(opts, WithSlideAdvancer(queue, slide))
	}

	session := NewSession(cfg.Game, m.sink, rng, opts...)

	var schedOpts []tasks.SchedulerOption
	if m.db != nil {
		schedOpts = append(schedOpts, tasks.WithRecorder(m.db, session.ID))
	}
	if m.onTask != nil {
		schedOpts = append(schedOpts, tasks.WithIssueFunc(m.onTask))
	}
	sched := tasks.NewScheduler(
		tasks.Catalog(cfg.Tasks),
		cfg.Game.Gender,
		tasks.Intensity(cfg.Game.Intensity),
		m.sink,
		spawnRand(rng),
		schedOpts...,
	)

	if m.db != nil {
		gameJSON, _ := json.Marshal(cfg.Game)
		err := m.db.CreateSession(&storage.SessionRecord{
			ID:              session.ID,
			StartedAt:       session.StartedAt,
			Status:          StatusRunning,
			DurationSeconds: session.Plan().DurationSeconds,
			GameConfig:      gameJSON,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := sched.Start(cfg.Game.TaskFrequencySec); err != nil {
		return nil, err
	}

	m.session = session
	m.sched = sched
	m.queue = queue
	session.Start()

	go m.finalize(session, sched)
	return session, nil
}

// finalize waits for the session loop to end and writes the final
// record. Runs for stopped and completed sessions alike.
func (m *Manager) finalize(session *Session, sched *tasks.Scheduler) {
	<-session.Done()
	sched.Stop()

	if m.db == nil {
		return
	}

	st := session.State()
	rec := &storage.SessionRecord{
		ID:             session.ID,
		Status:         session.Status(),
		ElapsedSeconds: st.ElapsedSeconds,
		Finale:         string(st.Finale),
		TotalBeats:     st.Cadence.TotalBeats,
		Edges:          st.Cadence.Edges,
		Ruins:          st.Cadence.Ruins,
		Orgasms:        st.Cadence.Orgasms,
	}
	if err := m.db.FinishSession(rec); err != nil {
		logger.Error().Err(err).Str("session_id", session.ID).Msg("persist session")
	}
	if err := m.db.KVSet(lastSessionKey, session.ID, 0); err != nil {
		logger.Warn().Err(err).Msg("record last session")
	}
}

// Session returns the live session.
func (m *Manager) Session() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, ErrNoSession
	}
	return m.session, nil
}

// Scheduler returns the live session's task scheduler.
func (m *Manager) Scheduler() (*tasks.Scheduler, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sched == nil {
		return nil, ErrNoSession
	}
	return m.sched, nil
}

// Queue returns the live session's media queue, which may be nil when
// no provider is configured.
func (m *Manager) Queue() *media.Queue {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue
}

// Pause freezes the live session and its task scheduler together.
func (m *Manager) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ErrNoSession
	}
	m.session.Pause()
	m.sched.Pause()
	return nil
}

// Resume unfreezes the live session.
func (m *Manager) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ErrNoSession
	}
	m.session.Resume()
	m.sched.Resume()
	return nil
}

// StopSession ends the live session early. The final record is written
// by the finalize goroutine watching the session.
func (m *Manager) StopSession() error {
	m.mu.Lock()
	session := m.session
	m.mu.Unlock()

	if session == nil {
		return ErrNoSession
	}
	session.Stop()
	return nil
}

// LastSessionID returns the most recently finished session's ID.
func (m *Manager) LastSessionID() (string, error) {
	if m.db == nil {
		return "", storage.ErrNotFound
	}
	return m.db.KVGet(lastSessionKey)
}
