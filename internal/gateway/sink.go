package gateway

import (
	"encoding/json"

	"pacer/internal/audio"
	"pacer/internal/gateway/websocket"
)

// HubSink forwards audio cues to WebSocket clients, which do the actual
// playback. An optional inner sink hears every cue too, so the daemon
// can log cues while clients play them.
type HubSink struct {
	hub   *websocket.Hub
	inner audio.Sink
}

// NewHubSink wraps a hub as an audio sink. inner may be nil.
func NewHubSink(hub *websocket.Hub, inner audio.Sink) *HubSink {
	if inner == nil {
		inner = audio.NopSink{}
	}
	return &HubSink{hub: hub, inner: inner}
}

type audioCue struct {
	Event string  `json:"event"`
	Speed float64 `json:"speed,omitempty"`
	Tier  string  `json:"tier,omitempty"`
	Text  string  `json:"text,omitempty"`
	Cue   string  `json:"cue,omitempty"`
}

func (s *HubSink) publish(cue audioCue) {
	data, err := json.Marshal(websocket.WSMessage{
		Type: websocket.TypeAudio,
		Data: mustMarshal(cue),
	})
	if err != nil {
		return
	}
	s.hub.BroadcastAll(data)
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("{}")
	}
	return data
}

func (s *HubSink) SetIntensity(speed float64, tier audio.Tier) {
	s.inner.SetIntensity(speed, tier)
	s.publish(audioCue{Event: "intensity", Speed: speed, Tier: string(tier)})
}

// PlayTick is not broadcast. Clients derive beats from the cadence
// speed in state snapshots.
func (s *HubSink) PlayTick() {
	s.inner.PlayTick()
}

func (s *HubSink) PlayVoiceLine(line string) {
	s.inner.PlayVoiceLine(line)
	s.publish(audioCue{Event: "voice", Text: line})
}

func (s *HubSink) PlayAmbientCue(cue string) {
	s.inner.PlayAmbientCue(cue)
	s.publish(audioCue{Event: "ambient", Cue: cue})
}

func (s *HubSink) Duck() {
	s.inner.Duck()
	s.publish(audioCue{Event: "duck"})
}

func (s *HubSink) Unduck() {
	s.inner.Unduck()
	s.publish(audioCue{Event: "unduck"})
}
