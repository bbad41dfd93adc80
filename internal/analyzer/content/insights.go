package content

import (
	"sort"

	"github.com/farcloser/komposer/internal/types"
)

// Insights picks the topN highest-scoring scenes as highlights and derives
// a short list of suggestions from the full scene set, the
// get_video_insights tool's payload.
func Insights(scenes []types.SceneRecord, topN int) types.ContentInsights {
	ranked := append([]types.SceneRecord{}, scenes...)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].ContentScore > ranked[j].ContentScore })

	if topN <= 0 {
		topN = 5
	}

	if topN > len(ranked) {
		topN = len(ranked)
	}

	insights := types.ContentInsights{Highlights: ranked[:topN]}

	if len(scenes) == 0 {
		insights.Suggestions = append(insights.Suggestions, "no scenes detected; check that the source has a usable video stream")

		return insights
	}

	var avgScore float64
	for _, s := range scenes {
		avgScore += s.ContentScore
	}

	avgScore /= float64(len(scenes))

	if avgScore < 0.3 {
		insights.Suggestions = append(insights.Suggestions, "overall content score is low; source may be static or low-detail footage")
	}

	if len(scenes) == 1 {
		insights.Suggestions = append(insights.Suggestions, "no scene cuts detected; consider a lower change_threshold if cuts were expected")
	}

	return insights
}
