package content

import "testing"

func sample(t float64, luma [lumaBuckets]float64) frameSample {
	return frameSample{timeSec: t, luminance: luma}
}

func uniform(bucket int) [lumaBuckets]float64 {
	var h [lumaBuckets]float64
	h[bucket] = 1

	return h
}

func TestHistogramDistanceIdenticalIsZero(t *testing.T) {
	a := uniform(3)
	if d := histogramDistance(a, a); d != 0 {
		t.Fatalf("expected 0 distance for identical histograms, got %v", d)
	}
}

func TestHistogramDistanceDisjointIsMax(t *testing.T) {
	a := uniform(0)
	b := uniform(lumaBuckets - 1)

	if d := histogramDistance(a, b); d < 1.9 {
		t.Fatalf("expected near-maximal distance for disjoint histograms, got %v", d)
	}
}

func TestDetectBoundariesIgnoresSingleFrameSpike(t *testing.T) {
	// A single anomalous frame produces exactly two high-change edges (into
	// it, then back out), a run of length 2 — below a minRunFrames of 3.
	samples := []frameSample{
		sample(0, uniform(2)),
		sample(1, uniform(2)),
		sample(2, uniform(14)),
		sample(3, uniform(2)),
		sample(4, uniform(2)),
	}

	boundaries := detectBoundaries(samples, 0.5, 3)
	if len(boundaries) != 0 {
		t.Fatalf("expected a single-frame spike to be absorbed, got %v", boundaries)
	}
}

func TestDetectBoundariesEmitsSustainedChange(t *testing.T) {
	// An alternating run keeps every consecutive pair's distance above
	// threshold for several steps, as a fade/pan would.
	samples := []frameSample{
		sample(0, uniform(2)),
		sample(1, uniform(5)),
		sample(2, uniform(2)),
		sample(3, uniform(5)),
		sample(4, uniform(2)),
	}

	boundaries := detectBoundaries(samples, 0.5, 2)
	if len(boundaries) != 1 {
		t.Fatalf("expected one boundary for a sustained change, got %v", boundaries)
	}
}

func TestBuildScenesPartitionsAtBoundaries(t *testing.T) {
	samples := []frameSample{
		sample(0, uniform(2)),
		sample(1, uniform(2)),
		sample(2, uniform(2)),
		sample(3, uniform(2)),
		sample(4, uniform(2)),
	}

	scenes := buildScenes(samples, []float64{2}, 5, 4.0)

	if len(scenes) != 2 {
		t.Fatalf("expected 2 scenes from 1 boundary, got %d", len(scenes))
	}

	if scenes[0].Start != 0 || scenes[0].End != 2 {
		t.Fatalf("expected first scene [0,2), got [%v,%v)", scenes[0].Start, scenes[0].End)
	}

	if scenes[1].Start != 2 || scenes[1].End != 5 {
		t.Fatalf("expected second scene [2,5), got [%v,%v)", scenes[1].Start, scenes[1].End)
	}
}

func TestDurationPreferencePeaksAtIdeal(t *testing.T) {
	if got := durationPreference(4, 4); got != 1 {
		t.Fatalf("expected score 1 at ideal length, got %v", got)
	}

	if got := durationPreference(1, 4); got >= 1 {
		t.Fatalf("expected a penalty for a scene far from ideal length, got %v", got)
	}
}

func TestScoreSceneFlagsHighDetail(t *testing.T) {
	samples := []frameSample{
		{timeSec: 0, edgeDensity: 0.5, meanLuma: 100},
		{timeSec: 1, edgeDensity: 0.5, meanLuma: 100},
	}

	_, characteristics := scoreScene(samples, 2, 4)

	found := false

	for _, c := range characteristics {
		if c == "high_detail" {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected high_detail characteristic, got %v", characteristics)
	}
}
