package content

import "math"

// scoreScene combines several cheap per-frame signals into a single 0..1
// content_score plus a list of human-readable characteristics: mean edge
// density (detail), luminance variance across the scene (visual activity),
// skin-tone ratio (a coarse stand-in for "faces/eyes" presence), and a
// preference for scenes near idealLength.
func scoreScene(samples []frameSample, lengthSec, idealLength float64) (float64, []string) {
	var (
		edgeSum float64
		skinSum float64
		lumaSum float64
	)

	for _, s := range samples {
		edgeSum += s.edgeDensity
		skinSum += s.skinRatio
		lumaSum += s.meanLuma
	}

	n := float64(len(samples))
	avgEdge := edgeSum / n
	avgSkin := skinSum / n
	avgLuma := lumaSum / n

	var lumaVarianceSum float64

	for _, s := range samples {
		d := s.meanLuma - avgLuma
		lumaVarianceSum += d * d
	}

	lumaStdDev := math.Sqrt(lumaVarianceSum / n)
	activity := clamp01(lumaStdDev / 64) // normalize against a generous dynamic range

	durationScore := durationPreference(lengthSec, idealLength)

	// Equal-weighted combination; no single signal dominates since each is
	// individually weak evidence.
	score := clamp01((clamp01(avgEdge) + clamp01(avgSkin*2) + activity + durationScore) / 4)

	var characteristics []string

	if avgSkin > 0.08 {
		characteristics = append(characteristics, "likely_faces")
	}

	if avgEdge > 0.15 {
		characteristics = append(characteristics, "high_detail")
	}

	if activity > 0.5 {
		characteristics = append(characteristics, "high_motion")
	}

	if durationScore > 0.8 {
		characteristics = append(characteristics, "ideal_length")
	}

	return score, characteristics
}

// durationPreference scores 1.0 at idealLength, decaying symmetrically as
// lengthSec diverges from it.
func durationPreference(lengthSec, idealLength float64) float64 {
	if idealLength <= 0 {
		return 0.5
	}

	ratio := lengthSec / idealLength
	if ratio > 1 {
		ratio = 1 / ratio
	}

	return clamp01(ratio)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}
