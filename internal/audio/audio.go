package audio

// Tier buckets the current cadence speed into a coarse intensity level
// used to pick ambience and voice line variants.
type Tier string

// Intensity tiers, slowest to fastest.
const (
	TierLight    Tier = "light"
	TierModerate Tier = "moderate"
	TierIntense  Tier = "intense"
	TierHeavy    Tier = "heavy"
)

// TierForSpeed maps a beats-per-second speed onto a tier.
func TierForSpeed(speed float64) Tier {
	switch {
	case speed < 1:
		return TierLight
	case speed < 2.5:
		return TierModerate
	case speed < 4:
		return TierIntense
	default:
		return TierHeavy
	}
}

// Sink receives audio cues from the engine. Implementations decide what
// actually plays; the engine only reports what happened.
type Sink interface {
	// SetIntensity is called whenever the cadence speed changes.
	SetIntensity(speed float64, tier Tier)

	// PlayTick fires once per cadence beat.
	PlayTick()

	// PlayVoiceLine carries a spoken instruction cue.
	PlayVoiceLine(line string)

	// PlayAmbientCue names a background loop transition.
	PlayAmbientCue(cue string)

	// Duck lowers ambient volume while a voice line plays.
	Duck()

	// Unduck restores ambient volume.
	Unduck()
}

// NopSink discards every cue. Useful in tests and planning-only paths.
type NopSink struct{}

func (NopSink) SetIntensity(float64, Tier) {}
func (NopSink) PlayTick()                  {}
func (NopSink) PlayVoiceLine(string)       {}
func (NopSink) PlayAmbientCue(string)      {}
func (NopSink) Duck()                      {}
func (NopSink) Unduck()                    {}
