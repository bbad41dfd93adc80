package speech

import (
	"context"

	"github.com/farcloser/komposer/internal/integration/ffmpeg"
	"github.com/farcloser/komposer/internal/types"
)

// SilenceDetectBackend is the fallback VAD backend: it shells out to
// ffmpeg's silencedetect filter against the original media file and
// inverts the reported silence intervals into voice-activity segments.
// Unlike EnergyBackend it does not consume the extracted PCM samples
// directly — silencedetect does its own decoding — so Path and Duration
// are fixed at construction and Detect's samples/sampleRate are unused.
type SilenceDetectBackend struct {
	Path        string
	Duration    float64
	NoiseDb     float64 // default -30
	MinDuration float64 // default 0.3s
}

// NewSilenceDetectBackend constructs a SilenceDetectBackend for one media
// file with its default thresholds.
func NewSilenceDetectBackend(path string, duration float64) *SilenceDetectBackend {
	return &SilenceDetectBackend{Path: path, Duration: duration, NoiseDb: -30, MinDuration: 0.3}
}

func (b *SilenceDetectBackend) Name() string { return "ffmpeg-silencedetect" }

func (b *SilenceDetectBackend) Detect(ctx context.Context, _ []int16, _ int) ([]types.VoiceActivitySegment, error) {
	silences, err := ffmpeg.DetectSilence(ctx, b.Path, b.noiseDb(), b.minDuration())
	if err != nil {
		return nil, err
	}

	return invertSilences(silences, b.Duration), nil
}

func (b *SilenceDetectBackend) noiseDb() float64 {
	if b.NoiseDb == 0 {
		return -30
	}

	return b.NoiseDb
}

func (b *SilenceDetectBackend) minDuration() float64 {
	if b.MinDuration <= 0 {
		return 0.3
	}

	return b.MinDuration
}

// invertSilences turns the silence runs silencedetect reported into the
// voiced spans between them. SNRDb is left at zero: silencedetect reports
// no energy figures, only interval boundaries, so the fallback backend
// cannot estimate signal quality the way EnergyBackend does.
func invertSilences(silences []ffmpeg.SilenceInterval, duration float64) []types.VoiceActivitySegment {
	var segments []types.VoiceActivitySegment

	cursor := 0.0

	for _, s := range silences {
		if s.Start > cursor {
			segments = append(segments, types.VoiceActivitySegment{StartSec: cursor, EndSec: s.Start})
		}

		if s.End > cursor {
			cursor = s.End
		}
	}

	if cursor < duration {
		segments = append(segments, types.VoiceActivitySegment{StartSec: cursor, EndSec: duration})
	}

	return segments
}
