package speech

import (
	"context"
	"math"
	"sort"

	"github.com/farcloser/komposer/internal/types"
)

// EnergyBackend is the primary VAD backend: pure Go frame-RMS detection
// against an adaptive noise floor, no external model or process.
type EnergyBackend struct {
	FrameMs        int     // default 20
	MarginDb       float64 // voiced if frame RMS exceeds the noise floor by this much, default 12
	NoiseFloorPctl float64 // percentile of frame RMS used as the noise floor estimate, default 0.10
}

// NewEnergyBackend constructs an EnergyBackend with its default thresholds.
func NewEnergyBackend() *EnergyBackend {
	return &EnergyBackend{FrameMs: 20, MarginDb: 12, NoiseFloorPctl: 0.10}
}

func (b *EnergyBackend) Name() string { return "goenergy" }

// Detect frames samples, estimates a noise floor from the quietest
// fraction of frames, and marks every frame exceeding it by MarginDb as
// voiced, merging consecutive voiced frames into VoiceActivitySegments.
func (b *EnergyBackend) Detect(_ context.Context, samples []int16, sampleRate int) ([]types.VoiceActivitySegment, error) {
	frameMs := b.FrameMs
	if frameMs <= 0 {
		frameMs = 20
	}

	frameLen := sampleRate * frameMs / 1000
	if frameLen <= 0 {
		frameLen = 1
	}

	rmsDb := frameRMSDb(samples, frameLen)
	if len(rmsDb) == 0 {
		return nil, nil
	}

	noiseFloor := percentile(rmsDb, b.noiseFloorPctl())
	threshold := noiseFloor + b.margin()

	frameSec := float64(frameLen) / float64(sampleRate)

	var (
		segments []types.VoiceActivitySegment
		inVoice  bool
		start    int
		snrSum   float64
		snrCount int
	)

	flush := func(end int) {
		if !inVoice {
			return
		}

		avgSNR := 0.0
		if snrCount > 0 {
			avgSNR = snrSum / float64(snrCount)
		}

		segments = append(segments, types.VoiceActivitySegment{
			StartSec: float64(start) * frameSec,
			EndSec:   float64(end) * frameSec,
			SNRDb:    avgSNR,
		})
	}

	for i, db := range rmsDb {
		voiced := db >= threshold

		switch {
		case voiced && !inVoice:
			inVoice = true
			start = i
			snrSum = db - noiseFloor
			snrCount = 1
		case voiced && inVoice:
			snrSum += db - noiseFloor
			snrCount++
		case !voiced && inVoice:
			flush(i)

			inVoice = false
		}
	}

	if inVoice {
		flush(len(rmsDb))
	}

	return segments, nil
}

func (b *EnergyBackend) margin() float64 {
	if b.MarginDb <= 0 {
		return 12
	}

	return b.MarginDb
}

func (b *EnergyBackend) noiseFloorPctl() float64 {
	if b.NoiseFloorPctl <= 0 || b.NoiseFloorPctl >= 1 {
		return 0.10
	}

	return b.NoiseFloorPctl
}

// frameRMSDb computes each frame's RMS level in dBFS (16-bit full scale).
func frameRMSDb(samples []int16, frameLen int) []float64 {
	n := len(samples) / frameLen
	if n == 0 {
		return nil
	}

	out := make([]float64, n)

	for f := 0; f < n; f++ {
		var sumSq float64

		for _, s := range samples[f*frameLen : (f+1)*frameLen] {
			v := float64(s) / 32768

			sumSq += v * v
		}

		rms := math.Sqrt(sumSq / float64(frameLen))

		db := -120.0
		if rms > 0 {
			db = 20 * math.Log10(rms)
		}

		out[f] = db
	}

	return out
}

// percentile returns the value at fraction p (0..1) of sorted vals, via a
// copy to avoid mutating the caller's slice.
func percentile(vals []float64, p float64) float64 {
	sorted := append([]float64{}, vals...)
	sort.Float64s(sorted)

	idx := int(p * float64(len(sorted)-1))
	if idx < 0 {
		idx = 0
	}

	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	return sorted[idx]
}
