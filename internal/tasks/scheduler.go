package tasks

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"pacer/internal/audio"
	"pacer/internal/storage"
	"pacer/pkg/logger"
)

// Recorder persists issued tasks. *storage.DB satisfies it; tests
// substitute their own.
type Recorder interface {
	CreateTask(*storage.TaskRecord) error
	ResolveTask(id, outcome string) error
}

// Scheduler issues tasks on a fixed interval for the lifetime of one
// session. Only one task is outstanding at a time: while the current
// task is pending, interval ticks pass without issuing another.
type Scheduler struct {
	mu sync.Mutex

	catalog   []Task
	rng       *rand.Rand
	gender    string
	intensity Intensity

	sessionID string
	recorder  Recorder
	sink      audio.Sink
	onIssue   func(HistoryEntry)

	cron    *cron.Cron
	entry   cron.EntryID
	paused  bool
	current *HistoryEntry
	history []HistoryEntry
}

// SchedulerOption customizes a scheduler before it starts.
type SchedulerOption func(*Scheduler)

// WithRecorder persists issued tasks to storage under the session ID.
func WithRecorder(r Recorder, sessionID string) SchedulerOption {
	return func(s *Scheduler) {
		s.recorder = r
		s.sessionID = sessionID
	}
}

// WithIssueFunc registers a callback for each issued task.
func WithIssueFunc(fn func(HistoryEntry)) SchedulerOption {
	return func(s *Scheduler) { s.onIssue = fn }
}

// NewScheduler builds a scheduler over the given catalog and filters.
func NewScheduler(catalog []Task, gender string, intensity Intensity, sink audio.Sink, rng *rand.Rand, opts ...SchedulerOption) *Scheduler {
	if sink == nil {
		sink = audio.NopSink{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Scheduler{
		catalog:   catalog,
		rng:       rng,
		gender:    gender,
		intensity: intensity,
		sink:      sink,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins issuing tasks every intervalSec seconds.
func (s *Scheduler) Start(intervalSec int) error {
	if intervalSec <= 0 {
		intervalSec = 15
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return fmt.Errorf("tasks: scheduler already started")
	}

	s.cron = cron.New()
	entry, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", intervalSec), s.tick)
	if err != nil {
		s.cron = nil
		return fmt.Errorf("tasks: schedule interval: %w", err)
	}
	s.entry = entry
	s.cron.Start()
	logger.Info().Int("interval_sec", intervalSec).Msg("task scheduler started")
	return nil
}

func (s *Scheduler) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused || s.current != nil {
		return
	}

	candidates := s.eligibleLocked()
	task, ok := Pick(s.rng, candidates)
	if !ok {
		return
	}

	entry := HistoryEntry{
		ID:       uuid.NewString(),
		Task:     task,
		Outcome:  OutcomePending,
		IssuedAt: time.Now(),
	}
	s.current = &entry
	s.history = append(s.history, entry)

	if s.recorder != nil {
		err := s.recorder.CreateTask(&storage.TaskRecord{
			ID:        entry.ID,
			SessionID: s.sessionID,
			TaskID:    task.ID,
			Title:     task.Title,
			Category:  string(task.Category),
			Outcome:   string(OutcomePending),
			IssuedAt:  entry.IssuedAt,
		})
		if err != nil {
			logger.Warn().Err(err).Str("task", task.ID).Msg("record task")
		}
	}

	s.sink.Duck()
	s.sink.PlayVoiceLine(task.Description)
	s.sink.Unduck()
	logger.Info().Str("task", task.ID).Str("category", string(task.Category)).Msg("task issued")

	if s.onIssue != nil {
		// Copy; the callback must not see later mutations.
		cb := s.onIssue
		e := entry
		go cb(e)
	}
}

func (s *Scheduler) eligibleLocked() []Task {
	var out []Task
	for _, t := range s.catalog {
		if t.AppliesTo(s.gender, s.intensity) {
			out = append(out, t)
		}
	}
	return out
}

// Current returns the outstanding task, if any.
func (s *Scheduler) Current() (HistoryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return HistoryEntry{}, false
	}
	return *s.current, true
}

// Complete resolves the outstanding task as done.
func (s *Scheduler) Complete() error {
	return s.resolve(OutcomeCompleted)
}

// Skip resolves the outstanding task as skipped.
func (s *Scheduler) Skip() error {
	return s.resolve(OutcomeSkipped)
}

func (s *Scheduler) resolve(outcome Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return fmt.Errorf("tasks: no task outstanding")
	}

	now := time.Now()
	s.current.Outcome = outcome
	s.current.ResolvedAt = &now
	if n := len(s.history); n > 0 {
		s.history[n-1] = *s.current
	}

	if s.recorder != nil {
		if err := s.recorder.ResolveTask(s.current.ID, string(outcome)); err != nil {
			logger.Warn().Err(err).Str("entry", s.current.ID).Msg("resolve task")
		}
	}

	logger.Info().Str("task", s.current.Task.ID).Str("outcome", string(outcome)).Msg("task resolved")
	s.current = nil
	return nil
}

// Pause suspends issuing without dropping the outstanding task.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

// Resume reenables issuing.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
}

// Stop halts the interval and expires any outstanding task. Safe to
// call before Start and more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil

	if s.current != nil {
		now := time.Now()
		s.current.Outcome = OutcomeExpired
		s.current.ResolvedAt = &now
		if n := len(s.history); n > 0 {
			s.history[n-1] = *s.current
		}
		if s.recorder != nil {
			if err := s.recorder.ResolveTask(s.current.ID, string(OutcomeExpired)); err != nil {
				logger.Warn().Err(err).Str("entry", s.current.ID).Msg("expire task")
			}
		}
		s.current = nil
	}
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

// History returns a copy of every issued task, oldest first.
func (s *Scheduler) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}
