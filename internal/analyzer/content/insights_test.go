package content

import (
	"testing"

	"github.com/farcloser/komposer/internal/types"
)

func scene(id string, score float64) types.SceneRecord {
	return types.SceneRecord{SceneID: id, Start: 0, End: 4, ContentScore: score}
}

func TestInsightsRanksHighlightsByScoreDescending(t *testing.T) {
	scenes := []types.SceneRecord{scene("scene_0", 0.2), scene("scene_1", 0.9), scene("scene_2", 0.5)}

	insights := Insights(scenes, 2)

	if len(insights.Highlights) != 2 {
		t.Fatalf("expected 2 highlights, got %d", len(insights.Highlights))
	}

	if insights.Highlights[0].SceneID != "scene_1" || insights.Highlights[1].SceneID != "scene_2" {
		t.Fatalf("expected highlights ordered by descending score, got %v", insights.Highlights)
	}
}

func TestInsightsClampsTopNToSceneCount(t *testing.T) {
	scenes := []types.SceneRecord{scene("scene_0", 0.5)}

	insights := Insights(scenes, 5)

	if len(insights.Highlights) != 1 {
		t.Fatalf("expected topN clamped to 1 available scene, got %d", len(insights.Highlights))
	}
}

func TestInsightsFlagsLowAverageScore(t *testing.T) {
	scenes := []types.SceneRecord{scene("scene_0", 0.1), scene("scene_1", 0.15)}

	insights := Insights(scenes, 2)

	if len(insights.Suggestions) == 0 {
		t.Fatal("expected a suggestion for a low-scoring scene set")
	}
}

func TestInsightsHandlesNoScenes(t *testing.T) {
	insights := Insights(nil, 5)

	if len(insights.Highlights) != 0 {
		t.Fatalf("expected no highlights for no scenes, got %v", insights.Highlights)
	}

	if len(insights.Suggestions) == 0 {
		t.Fatal("expected a suggestion when no scenes were detected")
	}
}
