package audio

import (
	"sync"

	"pacer/pkg/logger"
)

// LogSink writes cues to the structured log. The headless run command
// uses it so a session remains observable without a connected client.
// Intensity changes are logged only on tier transitions to keep the
// output readable at high tick rates.
type LogSink struct {
	mu       sync.Mutex
	lastTier Tier
	Ticks    bool
}

// NewLogSink returns a LogSink. Beat ticks are suppressed unless ticks
// is set; at 4 beats per second they drown everything else out.
func NewLogSink(ticks bool) *LogSink {
	return &LogSink{Ticks: ticks}
}

func (s *LogSink) SetIntensity(speed float64, tier Tier) {
	s.mu.Lock()
	changed := tier != s.lastTier
	s.lastTier = tier
	s.mu.Unlock()
	if changed {
		logger.Info().Float64("speed", speed).Str("tier", string(tier)).Msg("audio intensity")
	}
}

func (s *LogSink) PlayTick() {
	if s.Ticks {
		logger.Debug().Msg("beat")
	}
}

func (s *LogSink) PlayVoiceLine(line string) {
	logger.Info().Str("line", line).Msg("voice line")
}

func (s *LogSink) PlayAmbientCue(cue string) {
	logger.Info().Str("cue", cue).Msg("ambient cue")
}

func (s *LogSink) Duck() {
	logger.Debug().Msg("audio duck")
}

func (s *LogSink) Unduck() {
	logger.Debug().Msg("audio unduck")
}
