package tasks

import (
	"math/rand"
	"time"
)

// Category groups tasks by what they affect.
type Category string

// Task categories.
const (
	CategorySpeed     Category = "speed"
	CategoryStyle     Category = "style"
	CategoryIntensity Category = "intensity"
	CategorySpecial   Category = "special"
)

// Intensity is the minimum session intensity a task requires.
type Intensity string

// Intensity levels, mildest first.
const (
	IntensityGentle   Intensity = "gentle"
	IntensityModerate Intensity = "moderate"
	IntensityIntense  Intensity = "intense"
	IntensityExtreme  Intensity = "extreme"
)

// Rank orders intensities so tasks can be filtered by a ceiling.
// Unknown values rank as moderate.
func (i Intensity) Rank() int {
	switch i {
	case IntensityGentle:
		return 0
	case IntensityModerate:
		return 1
	case IntensityIntense:
		return 2
	case IntensityExtreme:
		return 3
	}
	return 1
}

// Task is one selectable instruction.
type Task struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     Category  `json:"category"`
	Weight       float64   `json:"weight"`
	MinIntensity Intensity `json:"min_intensity"`

	// Genders restricts applicability. Empty means everyone.
	Genders []string `json:"genders,omitempty"`
}

// AppliesTo reports whether the task fits the given gender and
// intensity ceiling.
func (t Task) AppliesTo(gender string, max Intensity) bool {
	if t.MinIntensity.Rank() > max.Rank() {
		return false
	}
	if len(t.Genders) == 0 {
		return true
	}
	for _, g := range t.Genders {
		if g == gender {
			return true
		}
	}
	return false
}

// Pick draws one task from the candidates proportionally to weight.
// A single uniform draw walks the cumulative weights; when the draw
// lands exactly on a boundary the later candidate wins. Returns false
// when nothing is eligible.
func Pick(rng *rand.Rand, candidates []Task) (Task, bool) {
	if len(candidates) == 0 {
		return Task{}, false
	}

	total := 0.0
	for _, t := range candidates {
		if t.Weight > 0 {
			total += t.Weight
		}
	}
	if total <= 0 {
		return candidates[len(candidates)-1], true
	}

	r := rng.Float64() * total
	for _, t := range candidates {
		if t.Weight <= 0 {
			continue
		}
		r -= t.Weight
		if r < 0 {
			return t, true
		}
	}
	return candidates[len(candidates)-1], true
}

// Outcome records how an issued task ended.
type Outcome string

// Task outcomes.
const (
	OutcomePending   Outcome = "pending"
	OutcomeCompleted Outcome = "completed"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeExpired   Outcome = "expired"
)

// HistoryEntry is one issued task and its outcome.
type HistoryEntry struct {
	ID         string     `json:"id"`
	Task       Task       `json:"task"`
	Outcome    Outcome    `json:"outcome"`
	IssuedAt   time.Time  `json:"issued_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}
