package speech

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/farcloser/komposer/internal/cache"
	"github.com/farcloser/komposer/internal/fault"
	"github.com/farcloser/komposer/internal/integration/ffmpeg"
	"github.com/farcloser/komposer/internal/probe"
	"github.com/farcloser/komposer/internal/types"
)

// Analyzer detects speech segments in media files, trying its configured
// Backends in order and falling back to the next on error, caching
// results per spec.md section 3's content-addressed TTL scheme — the
// same shape as internal/analyzer/content.Analyzer.
type Analyzer struct {
	probes  *probe.Cache
	store   *cache.Store[[]types.SpeechSegment]
	opts    mergeOptions
	primary Backend
}

// New constructs an Analyzer with EnergyBackend as its primary VAD
// backend; Analyze falls back to a SilenceDetectBackend built fresh per
// call, since that backend is bound to a single file's path and duration.
func New(probes *probe.Cache, metadataRoot string) *Analyzer {
	return &Analyzer{
		probes:  probes,
		store:   cache.NewStore[[]types.SpeechSegment](metadataRoot, "speech", 5*time.Minute),
		opts:    defaultMergeOptions(),
		primary: NewEnergyBackend(),
	}
}

// Analyze extracts path's audio stream to 16 kHz mono PCM, runs it
// through the primary backend, and falls back to silencedetect if PCM
// extraction or the primary backend returns an error.
func (a *Analyzer) Analyze(ctx context.Context, path string) ([]types.SpeechSegment, error) {
	if segments, ok := a.store.Get(path); ok {
		return segments, nil
	}

	info, err := a.probes.Probe(ctx, path)
	if err != nil {
		return nil, err
	}

	if !info.HasAudio || info.Duration <= 0 {
		return nil, fmt.Errorf("%w: %s has no usable audio stream to analyze", fault.ErrValidation, path)
	}

	raw, backendName, err := a.detectVoiceActivity(ctx, path, info)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", fault.ErrAnalysisBackend, path, err)
	}

	slog.Debug("speech.Analyze", "path", path, "backend", backendName, "raw_segments", len(raw))

	segments := buildSegments(raw, a.opts)

	if err := a.store.Put(path, segments); err != nil {
		return nil, fmt.Errorf("%w: caching speech segments: %w", fault.ErrReadFailure, err)
	}

	return segments, nil
}

// detectVoiceActivity tries the primary backend against extracted PCM
// samples, then the silencedetect fallback against the original file,
// returning whichever backend first succeeds with a non-error result.
func (a *Analyzer) detectVoiceActivity(ctx context.Context, path string, info types.MediaInfo) ([]types.VoiceActivitySegment, string, error) {
	samples, sampleRate, err := extractPCM(ctx, path)
	if err == nil {
		segs, detErr := a.primary.Detect(ctx, samples, sampleRate)
		if detErr == nil {
			return segs, a.primary.Name(), nil
		}
	}

	fallback := NewSilenceDetectBackend(path, info.Duration)

	segs, err := fallback.Detect(ctx, nil, 0)
	if err != nil {
		return nil, "", err
	}

	return segs, fallback.Name(), nil
}

// extractPCM decodes path's first audio stream to 16-bit mono PCM at
// 16 kHz and returns it as native-endian samples.
func extractPCM(ctx context.Context, path string) ([]int16, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	defer f.Close()

	var out bytes.Buffer

	if _, err := ffmpeg.ExtractStream(ctx, f, &out, 0, ffmpeg.Depth16); err != nil {
		return nil, 0, err
	}

	raw := out.Bytes()
	samples := make([]int16, len(raw)/2)

	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2])) //nolint:gosec // PCM sample reinterpretation
	}

	return samples, 16000, nil
}

// Insights summarizes segments into the aggregate figures and
// suggestions spec.md section 4.E's get_video_insights surfaces.
func Insights(segments []types.SpeechSegment, totalDuration float64) types.SpeechInsights {
	insights := types.SpeechInsights{QualityHistogram: make(map[types.SpeechQuality]int)}

	var totalSpeech float64

	for _, seg := range segments {
		totalSpeech += seg.Duration()
		insights.QualityHistogram[seg.Quality]++
	}

	insights.TotalSpeechSec = totalSpeech

	if totalDuration > 0 {
		insights.Density = clamp01(totalSpeech / totalDuration)
	}

	if len(segments) > 0 {
		insights.AvgSegmentSec = totalSpeech / float64(len(segments))
	}

	if insights.QualityHistogram[types.QualityPoor] > len(segments)/2 && len(segments) > 0 {
		insights.Suggestions = append(insights.Suggestions, "most detected speech is low quality; consider a cleaner source recording")
	}

	if insights.Density < 0.1 {
		insights.Suggestions = append(insights.Suggestions, "very little speech detected relative to duration")
	}

	return insights
}
