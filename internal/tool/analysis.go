package tool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/farcloser/komposer/internal/analyzer/content"
	"github.com/farcloser/komposer/internal/integration/ffmpeg"
	"github.com/farcloser/komposer/internal/output"
	"github.com/farcloser/komposer/internal/types"
)

// highlightCount bounds how many top-scoring scenes analyze_video_content
// and get_video_insights surface as highlights.
const highlightCount = 5

// AnalyzeVideoContent implements analyze_video_content: scene detection
// plus the derived insights summary.
func (s *Service) AnalyzeVideoContent(ctx context.Context, id string, force bool) map[string]any {
	path, err := s.reg.Resolve(id)
	if err != nil {
		return output.FailureErr(err)
	}

	scenes, err := s.contentAnalyzer.Analyze(ctx, path, force)
	if err != nil {
		return output.FailureErr(err)
	}

	insights := content.Insights(scenes, highlightCount)

	return output.Success(map[string]any{
		"scenes":   output.SceneRecordsToMap(scenes),
		"insights": output.ContentInsightsToMap(insights),
	})
}

// GetVideoInsights implements get_video_insights: the highlight/suggestion
// summary alone, re-running scene detection through the cache.
func (s *Service) GetVideoInsights(ctx context.Context, id string) map[string]any {
	path, err := s.reg.Resolve(id)
	if err != nil {
		return output.FailureErr(err)
	}

	scenes, err := s.contentAnalyzer.Analyze(ctx, path, false)
	if err != nil {
		return output.FailureErr(err)
	}

	insights := content.Insights(scenes, highlightCount)

	return output.Success(map[string]any{
		"highlights":  output.SceneRecordsToMap(insights.Highlights),
		"suggestions": insights.Suggestions,
	})
}

// GetSceneScreenshots implements get_scene_screenshots: extracts one
// representative JPEG frame per detected scene into the screenshots root,
// keyed by scene id so a second call reuses the existing file instead of
// re-extracting.
func (s *Service) GetSceneScreenshots(ctx context.Context, id string) map[string]any {
	path, err := s.reg.Resolve(id)
	if err != nil {
		return output.FailureErr(err)
	}

	scenes, err := s.contentAnalyzer.Analyze(ctx, path, false)
	if err != nil {
		return output.FailureErr(err)
	}

	screenshots := make([]any, 0, len(scenes))

	for _, sc := range scenes {
		url, err := s.screenshotFor(ctx, path, sc)
		if err != nil {
			return output.FailureErr(err)
		}

		screenshots = append(screenshots, map[string]any{
			"scene_id":       sc.SceneID,
			"start":          sc.Start,
			"end":            sc.End,
			"screenshot_url": url,
		})
	}

	return output.Success(map[string]any{"screenshots": screenshots})
}

// screenshotFor extracts (or reuses) the JPEG frame at sc's midpoint,
// writing it under the screenshots root as "<basename>.<scene_id>.jpg".
func (s *Service) screenshotFor(ctx context.Context, sourcePath string, sc types.SceneRecord) (string, error) {
	name := fmt.Sprintf("%s.%s.jpg", filepath.Base(sourcePath), sc.SceneID)
	outPath := filepath.Join(s.screenshotsRoot, name)

	if _, err := os.Stat(outPath); err == nil {
		return outPath, nil
	}

	mid := (sc.Start + sc.End) / 2

	if _, err := ffmpeg.ExtractFrame(ctx, sourcePath, mid, outPath); err != nil {
		return "", err
	}

	return outPath, nil
}

// DetectSpeechSegments implements detect_speech_segments: voice-activity
// detection merged into reportable segments plus their total duration.
func (s *Service) DetectSpeechSegments(ctx context.Context, id string) map[string]any {
	path, err := s.reg.Resolve(id)
	if err != nil {
		return output.FailureErr(err)
	}

	segments, err := s.speechAnalyzer.Analyze(ctx, path)
	if err != nil {
		return output.FailureErr(err)
	}

	var total float64
	for _, seg := range segments {
		total += seg.Duration()
	}

	return output.Success(map[string]any{
		"speech_segments":       output.SpeechSegmentsToMap(segments),
		"total_speech_duration": total,
	})
}
