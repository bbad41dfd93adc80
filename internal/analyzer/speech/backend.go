// Package speech implements the Speech Analyzer (spec.md section 4.E):
// pluggable voice-activity detection backends tried in order, merged into
// SpeechSegments with natural pauses, cut-point annotations, and an
// SNR-derived quality bucket.
package speech

import (
	"context"

	"github.com/farcloser/komposer/internal/types"
)

// Backend detects voice activity over a block of 16 kHz mono PCM samples.
// Implementations keep no state between Detect calls: Analyzer reuses one
// EnergyBackend for every call and builds a SilenceDetectBackend per call.
type Backend interface {
	Detect(ctx context.Context, samples []int16, sampleRate int) ([]types.VoiceActivitySegment, error)
	Name() string
}
