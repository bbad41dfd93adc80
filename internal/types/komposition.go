package types

import (
	"encoding/json"
	"fmt"
)

// MediaType classifies a Source's underlying content.
type MediaType int

const (
	MediaVideo MediaType = iota
	MediaAudio
	MediaImage
)

func (m MediaType) String() string {
	switch m {
	case MediaAudio:
		return "audio"
	case MediaImage:
		return "image"
	default:
		return "video"
	}
}

// MarshalJSON renders a MediaType as its lowercase name, the form
// komposition documents are authored in.
func (m MediaType) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON parses a MediaType from its lowercase name.
func (m *MediaType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "video":
		*m = MediaVideo
	case "audio":
		*m = MediaAudio
	case "image":
		*m = MediaImage
	default:
		return fmt.Errorf("unknown media_type %q", s)
	}

	return nil
}

// Source is one referenceable input to a Komposition.
type Source struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"` // "file://<basename>", resolved against a source root
	MediaType MediaType `json:"media_type"`
}

// SourceTimingKind distinguishes a Segment's timing mode.
type SourceTimingKind int

const (
	// TimingOriginal slices a real duration out of a source (video/audio).
	TimingOriginal SourceTimingKind = iota
	// TimingStatic gives a fixed duration for an image source, which has
	// no intrinsic duration of its own.
	TimingStatic
)

func (k SourceTimingKind) String() string {
	if k == TimingStatic {
		return "static"
	}

	return "original"
}

// MarshalJSON renders a SourceTimingKind as its lowercase name.
func (k SourceTimingKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON parses a SourceTimingKind from its lowercase name.
func (k *SourceTimingKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "original":
		*k = TimingOriginal
	case "static":
		*k = TimingStatic
	default:
		return fmt.Errorf("unknown source_timing kind %q", s)
	}

	return nil
}

// SourceTiming describes which sub-range of a source a Segment draws from.
type SourceTiming struct {
	Kind             SourceTimingKind `json:"kind"`
	OriginalStart    float64          `json:"original_start,omitempty"`    // seconds; TimingOriginal only
	OriginalDuration float64          `json:"original_duration,omitempty"` // seconds; TimingOriginal only
	StaticDuration   float64          `json:"static_duration,omitempty"`   // seconds; TimingStatic only
}

// Segment is one beat-indexed slot in a Komposition's timeline.
type Segment struct {
	SegmentID    string       `json:"segment_id"`
	SourceRef    string       `json:"source_ref"`
	StartBeat    int          `json:"start_beat"`
	EndBeat      int          `json:"end_beat"`
	SourceTiming SourceTiming `json:"source_timing"`
}

// TimeSlotSeconds returns the segment's wall-clock duration on the global
// timeline given the komposition's tempo.
func (s Segment) TimeSlotSeconds(bpm float64) float64 {
	return float64(s.EndBeat-s.StartBeat) * 60 / bpm
}

// BeatPattern optionally constrains the total beat range a Komposition's
// segments must cover.
type BeatPattern struct {
	FromBeat  int     `json:"from_beat"`
	ToBeat    int     `json:"to_beat"`
	MasterBPM float64 `json:"master_bpm"`
}

// Config carries the target render parameters for a Komposition.
type Config struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	FrameRate float64 `json:"frame_rate"`
	Container string  `json:"container"`
}

// Komposition is the declarative, beat-synchronized, multi-source document
// that the Composition Planner consumes.
type Komposition struct {
	BPM             float64         `json:"bpm"`
	BeatsPerMeasure int             `json:"beats_per_measure"`
	Config          Config          `json:"config"`
	Segments        []Segment       `json:"segments"`
	Sources         []Source        `json:"sources"`
	EffectsTree     *EffectDocument `json:"effects_tree,omitempty"` // optional
	BeatPattern     *BeatPattern    `json:"beat_pattern,omitempty"`
}

// SourceByID returns the Source with the given id, or false if absent.
func (k Komposition) SourceByID(id string) (Source, bool) {
	for _, s := range k.Sources {
		if s.ID == id {
			return s, true
		}
	}

	return Source{}, false
}
