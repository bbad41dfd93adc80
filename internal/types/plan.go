package types

// PlanStep is one concrete, executable operation invocation within a
// BuildPlan. InputFileID and each file-handle-typed entry in Params may be
// the literal sentinel "CHAIN" or a "RESULT_k" reference, resolved by the
// Executor at execute_batch time (see internal/executor).
type PlanStep struct {
	Operation       string            `json:"operation"`
	InputFileID     string            `json:"input_file_id"`
	OutputExtension string            `json:"output_extension"`
	Params          map[string]string `json:"params"`
	Provenance      string            `json:"provenance"` // which segment or effect produced this step
}

// BuildPlan is the ordered, executable sequence of operation invocations
// the Composition Planner derives from a Komposition.
type BuildPlan struct {
	Steps       []PlanStep          `json:"steps"`
	FinalStep   int                 `json:"final_step"` // index into Steps of the terminal concat+audio step, or -1
	Manifest    AudioTimingManifest `json:"manifest"`
	SegmentPlan []SegmentPlan       `json:"segment_plan"`
}

// SegmentPlan records the planning decision made for one segment, returned
// by preview_timing and retained in a BuildPlan for provenance.
type SegmentPlan struct {
	SegmentID       string   `json:"segment_id"`
	TimeSlotSeconds float64  `json:"time_slot_seconds"`
	Strategy        Strategy `json:"strategy"`
	ProjectedStart  float64  `json:"projected_start"`
	ProjectedEnd    float64  `json:"projected_end"`
}

// SpeechOverlay is one extracted-speech insertion recorded in an
// AudioTimingManifest.
type SpeechOverlay struct {
	SegmentID string  `json:"segment_id"`
	InsertAt  float64 `json:"insert_at"`
	Duration  float64 `json:"duration"`
	Volume    float64 `json:"volume"`
	FadeIn    float64 `json:"fade_in"`
	FadeOut   float64 `json:"fade_out"`
}

// BackgroundTrack describes the mandatory background audio mixed under all
// speech overlays.
type BackgroundTrack struct {
	Volume      float64 `json:"volume"`
	FadeIn      float64 `json:"fade_in"`
	FadeOut     float64 `json:"fade_out"`
	StartOffset float64 `json:"start_offset"`
}

// AudioTimingManifest records where extracted speech is reinserted on the
// global timeline relative to the background track.
type AudioTimingManifest struct {
	Overlays   []SpeechOverlay `json:"overlays"`
	Background BackgroundTrack `json:"background"`
}
