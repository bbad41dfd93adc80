package content

import (
	"strconv"

	"github.com/farcloser/komposer/internal/types"
)

// detectBoundaries finds scene-cut timestamps from samples' frame-to-frame
// histogram change, using the same threshold/run-with-hysteresis shape as
// internal/audit/silence: a "high change" run opens once the metric
// crosses above threshold and stays open while it remains there, emitted
// as a boundary (at the run's midpoint) once it closes, provided the run
// lasted at least minRunFrames samples. This absorbs single-frame noise
// (a flash, a fast pan) that would otherwise register as spurious cuts.
func detectBoundaries(samples []frameSample, threshold float64, minRunFrames int) []float64 {
	if minRunFrames < 1 {
		minRunFrames = 1
	}

	var boundaries []float64

	inRun := false
	runStart := 0

	for i := 1; i < len(samples); i++ {
		change := histogramDistance(samples[i].luminance, samples[i-1].luminance)
		above := change >= threshold

		switch {
		case above && !inRun:
			inRun = true
			runStart = i
		case !above && inRun:
			inRun = false

			if i-runStart >= minRunFrames {
				mid := (runStart + i - 1) / 2
				boundaries = append(boundaries, samples[mid].timeSec)
			}
		}
	}

	if inRun && len(samples)-runStart >= minRunFrames {
		mid := (runStart + len(samples) - 1) / 2
		boundaries = append(boundaries, samples[mid].timeSec)
	}

	return boundaries
}

// buildScenes partitions [0, duration) at boundaries and scores each
// resulting scene from the samples that fall within it.
func buildScenes(samples []frameSample, boundaries []float64, duration, idealLength float64) []types.SceneRecord {
	edges := append([]float64{0}, boundaries...)
	edges = append(edges, duration)

	scenes := make([]types.SceneRecord, 0, len(edges)-1)

	for i := 0; i < len(edges)-1; i++ {
		start, end := edges[i], edges[i+1]
		if end <= start {
			continue
		}

		inScene := samplesBetween(samples, start, end)
		if len(inScene) == 0 {
			continue
		}

		score, characteristics := scoreScene(inScene, end-start, idealLength)

		scenes = append(scenes, types.SceneRecord{
			SceneID:         sceneID(i),
			Start:           start,
			End:             end,
			ContentScore:    score,
			Characteristics: characteristics,
		})
	}

	return scenes
}

func samplesBetween(samples []frameSample, start, end float64) []frameSample {
	var out []frameSample

	for _, s := range samples {
		if s.timeSec >= start && s.timeSec < end {
			out = append(out, s)
		}
	}

	return out
}

func sceneID(index int) string {
	return "scene_" + strconv.Itoa(index)
}
