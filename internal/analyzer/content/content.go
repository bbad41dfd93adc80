// Package content implements the Content Analyzer (spec.md section 4.D):
// scene-boundary detection over a video's sampled frames and a per-scene
// "content_score" combining several cheap, pure-Go signals. There is no
// suitable third-party face/edge-detection library anywhere in the
// retrieved pack, so frame scoring is deliberately standard-library
// (image, image/jpeg) — see DESIGN.md.
package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/farcloser/komposer/internal/cache"
	"github.com/farcloser/komposer/internal/fault"
	"github.com/farcloser/komposer/internal/integration/ffmpeg"
	"github.com/farcloser/komposer/internal/probe"
	"github.com/farcloser/komposer/internal/types"
)

// Options configures scene-boundary detection and scoring.
type Options struct {
	SampleInterval   float64 // seconds between sampled frames, default 1.0
	ChangeThreshold  float64 // 0..1 histogram-difference threshold for a boundary
	MinRunFrames     int     // consecutive above-threshold samples required, default 2
	IdealSceneLength float64 // seconds; scenes near this length score higher, default 4.0
}

// DefaultOptions returns the analyzer's default thresholds.
func DefaultOptions() Options {
	return Options{
		SampleInterval:   1.0,
		ChangeThreshold:  0.35,
		MinRunFrames:     2,
		IdealSceneLength: 4.0,
	}
}

// Analyzer detects scenes in video files, caching results per spec.md
// section 3's content-addressed TTL scheme.
type Analyzer struct {
	probes   *probe.Cache
	store    *cache.Store[[]types.SceneRecord]
	workRoot string
	opts     Options
}

// New constructs an Analyzer. workRoot is a scratch directory for the frames
// sampled during detection; Analyze writes no screenshots (the
// get_scene_screenshots tool extracts those into the screenshots root).
func New(probes *probe.Cache, metadataRoot, workRoot string, opts Options) *Analyzer {
	return &Analyzer{
		probes:   probes,
		store:    cache.NewStore[[]types.SceneRecord](metadataRoot, "scenes", 5*time.Minute),
		workRoot: workRoot,
		opts:     opts,
	}
}

// Analyze samples path's video stream at a fixed interval, detects scene
// boundaries from frame-to-frame luminance-histogram change, and scores
// each resulting scene. force bypasses a cached result, re-running
// detection and overwriting the cache entry (the analyze_video_content
// tool's force=true path).
func (a *Analyzer) Analyze(ctx context.Context, path string, force bool) ([]types.SceneRecord, error) {
	if !force {
		if scenes, ok := a.store.Get(path); ok {
			return scenes, nil
		}
	}

	info, err := a.probes.Probe(ctx, path)
	if err != nil {
		return nil, err
	}

	if !info.HasVideo || info.Duration <= 0 {
		return nil, fmt.Errorf("%w: %s has no usable video stream to analyze", fault.ErrValidation, path)
	}

	samples, err := a.sampleFrames(ctx, path, info.Duration)
	if err != nil {
		return nil, err
	}

	boundaries := detectBoundaries(samples, a.opts.ChangeThreshold, a.opts.MinRunFrames)
	scenes := buildScenes(samples, boundaries, info.Duration, a.opts.IdealSceneLength)

	if err := a.store.Put(path, scenes); err != nil {
		return nil, fmt.Errorf("%w: caching scene records: %w", fault.ErrReadFailure, err)
	}

	return scenes, nil
}

// frameSample is one sampled frame's timestamp and extracted signals.
type frameSample struct {
	timeSec    float64
	luminance  [lumaBuckets]float64 // normalized histogram
	meanLuma   float64
	edgeDensity float64
	skinRatio  float64
}

func (a *Analyzer) sampleFrames(ctx context.Context, path string, duration float64) ([]frameSample, error) {
	interval := a.opts.SampleInterval
	if interval <= 0 {
		interval = DefaultOptions().SampleInterval
	}

	tmpDir, err := os.MkdirTemp(a.workRoot, "scenes-*")
	if err != nil {
		return nil, fmt.Errorf("%w: creating frame scratch dir: %w", fault.ErrReadFailure, err)
	}

	defer os.RemoveAll(tmpDir)

	var samples []frameSample

	for t := 0.0; t < duration; t += interval {
		framePath := filepath.Join(tmpDir, fmt.Sprintf("frame-%06d.jpg", len(samples)))

		if _, err := ffmpeg.ExtractFrame(ctx, path, t, framePath); err != nil {
			continue // an unreadable frame at this offset is skipped, not fatal
		}

		f, err := os.Open(framePath)
		if err != nil {
			continue
		}

		sig, err := scoreFrame(f)

		f.Close()

		if err != nil {
			continue
		}

		samples = append(samples, frameSample{timeSec: t, luminance: sig.histogram, meanLuma: sig.meanLuma, edgeDensity: sig.edgeDensity, skinRatio: sig.skinRatio})
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no frames could be sampled from %s", fault.ErrProbe, path)
	}

	return samples, nil
}
