// Package output shapes komposer's internal result types into the plain
// map[string]any structures the tool-call surface (internal/tool) and
// cmd/kompose-report serialize as JSON.
package output

import (
	"errors"

	"github.com/farcloser/komposer/internal/fault"
	"github.com/farcloser/komposer/internal/types"
)

// Success wraps payload in the {"success": true, ...} envelope every
// tool-call response uses.
func Success(payload map[string]any) map[string]any {
	out := map[string]any{"success": true}
	for k, v := range payload {
		out[k] = v
	}

	return out
}

// Failure wraps an error message in the {"success": false, ...} envelope.
func Failure(message string) map[string]any {
	return map[string]any{"success": false, "message": message}
}

// errorKinds pairs each fault sentinel with the discriminator string
// spec.md section 7 names for it, checked in declaration order so a
// wrapped error matching more than one sentinel (as ExecuteBatch's step
// errors do: they wrap fault.ErrToolFailure around the step's own error)
// resolves to the first.
var errorKinds = []struct {
	sentinel error
	kind     string
}{
	{fault.ErrValidation, "validation_error"},
	{fault.ErrSandbox, "sandbox_error"},
	{fault.ErrNotFound, "not_found"},
	{fault.ErrVanished, "vanished"},
	{fault.ErrProbe, "probe_error"},
	{fault.ErrToolFailure, "tool_failure"},
	{fault.ErrTimeout, "timeout"},
	{fault.ErrMissingRequirements, "missing_requirements"},
	{fault.ErrAnalysisBackend, "analysis_backend_failure"},
	{fault.ErrPlanningInfeasible, "planning_infeasibility"},
	{fault.ErrInvalidJSON, "invalid_json"},
	{fault.ErrReadFailure, "read_failure"},
}

// FailureErr wraps err in the {"success": false, ...} envelope, adding an
// error_kind discriminator (spec.md section 7) when err matches one of the
// fault sentinels.
func FailureErr(err error) map[string]any {
	out := Failure(err.Error())

	for _, ek := range errorKinds {
		if errors.Is(err, ek.sentinel) {
			out["error_kind"] = ek.kind

			break
		}
	}

	return out
}

// BuildPlanToMap converts a BuildPlan into its canonical map structure.
func BuildPlanToMap(plan types.BuildPlan) map[string]any {
	steps := make([]any, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		steps = append(steps, PlanStepToMap(step))
	}

	segments := make([]any, 0, len(plan.SegmentPlan))
	for _, seg := range plan.SegmentPlan {
		segments = append(segments, SegmentPlanToMap(seg))
	}

	return map[string]any{
		"steps":        steps,
		"final_step":   plan.FinalStep,
		"manifest":     AudioTimingManifestToMap(plan.Manifest),
		"segment_plan": segments,
	}
}

// PlanStepToMap converts a single PlanStep into a map.
func PlanStepToMap(step types.PlanStep) map[string]any {
	return map[string]any{
		"operation":        step.Operation,
		"input_file_id":    step.InputFileID,
		"output_extension": step.OutputExtension,
		"params":           step.Params,
		"provenance":       step.Provenance,
	}
}

// SegmentPlanToMap converts a SegmentPlan into a map.
func SegmentPlanToMap(seg types.SegmentPlan) map[string]any {
	return map[string]any{
		"segment_id":        seg.SegmentID,
		"time_slot_seconds": seg.TimeSlotSeconds,
		"strategy":          seg.Strategy.String(),
		"projected_start":   seg.ProjectedStart,
		"projected_end":     seg.ProjectedEnd,
	}
}

// AudioTimingManifestToMap converts an AudioTimingManifest into a map.
func AudioTimingManifestToMap(manifest types.AudioTimingManifest) map[string]any {
	overlays := make([]any, 0, len(manifest.Overlays))
	for _, o := range manifest.Overlays {
		overlays = append(overlays, map[string]any{
			"segment_id": o.SegmentID,
			"insert_at":  o.InsertAt,
			"duration":   o.Duration,
			"volume":     o.Volume,
			"fade_in":    o.FadeIn,
			"fade_out":   o.FadeOut,
		})
	}

	return map[string]any{
		"overlays": overlays,
		"background": map[string]any{
			"volume":       manifest.Background.Volume,
			"fade_in":      manifest.Background.FadeIn,
			"fade_out":     manifest.Background.FadeOut,
			"start_offset": manifest.Background.StartOffset,
		},
	}
}

// MediaInfoToMap converts a MediaInfo into a map.
func MediaInfoToMap(info types.MediaInfo) map[string]any {
	streams := make([]any, 0, len(info.Streams))
	for _, s := range info.Streams {
		streams = append(streams, map[string]any{
			"index":           s.Index,
			"codec_type":      s.CodecType,
			"codec_name":      s.CodecName,
			"width":           s.Width,
			"height":          s.Height,
			"frame_rate":      s.FrameRate,
			"sample_rate":     s.SampleRate,
			"channels":        s.Channels,
			"bits_per_sample": s.BitsPerSample,
		})
	}

	return map[string]any{
		"format":    info.Format,
		"duration":  info.Duration,
		"streams":   streams,
		"has_audio": info.HasAudio,
		"has_video": info.HasVideo,
	}
}

// FileHandleToMap converts a FileHandle into a map.
func FileHandleToMap(h types.FileHandle) map[string]any {
	return map[string]any{
		"id":        h.ID,
		"class":     h.Class.String(),
		"path":      h.Path,
		"extension": h.Extension,
		"size":      h.Size,
	}
}

// FileHandlesToMap converts a slice of FileHandles into a map slice.
func FileHandlesToMap(handles []types.FileHandle) []any {
	out := make([]any, 0, len(handles))
	for _, h := range handles {
		out = append(out, FileHandleToMap(h))
	}

	return out
}

// ContentInsightsToMap converts ContentInsights into a map.
func ContentInsightsToMap(insights types.ContentInsights) map[string]any {
	highlights := make([]any, 0, len(insights.Highlights))
	for _, h := range insights.Highlights {
		highlights = append(highlights, SceneRecordToMap(h))
	}

	return map[string]any{
		"highlights":  highlights,
		"suggestions": insights.Suggestions,
	}
}

// SceneRecordToMap converts a SceneRecord into a map.
func SceneRecordToMap(s types.SceneRecord) map[string]any {
	return map[string]any{
		"scene_id":        s.SceneID,
		"start":           s.Start,
		"end":             s.End,
		"duration":        s.Duration(),
		"content_score":   s.ContentScore,
		"characteristics": s.Characteristics,
		"screenshot_path": s.ScreenshotPath,
	}
}

// SceneRecordsToMap converts a slice of SceneRecords into a map slice.
func SceneRecordsToMap(scenes []types.SceneRecord) []any {
	out := make([]any, 0, len(scenes))
	for _, sc := range scenes {
		out = append(out, SceneRecordToMap(sc))
	}

	return out
}

// SpeechInsightsToMap converts SpeechInsights into a map.
func SpeechInsightsToMap(insights types.SpeechInsights) map[string]any {
	histogram := make(map[string]int, len(insights.QualityHistogram))
	for quality, count := range insights.QualityHistogram {
		histogram[quality.String()] = count
	}

	return map[string]any{
		"total_speech_sec": insights.TotalSpeechSec,
		"density":          insights.Density,
		"avg_segment_sec":  insights.AvgSegmentSec,
		"quality_histogram": histogram,
		"suggestions":       insights.Suggestions,
	}
}

// SpeechSegmentsToMap converts a slice of SpeechSegments into a map slice.
func SpeechSegmentsToMap(segments []types.SpeechSegment) []any {
	out := make([]any, 0, len(segments))

	for _, s := range segments {
		cuts := make([]any, 0, len(s.OptimalCutPoints))
		for _, c := range s.OptimalCutPoints {
			cuts = append(cuts, map[string]any{
				"time_sec": c.TimeSec,
				"kind":     c.Kind.String(),
				"priority": int(c.Priority),
			})
		}

		out = append(out, map[string]any{
			"start_sec":          s.StartSec,
			"end_sec":            s.EndSec,
			"duration":           s.Duration(),
			"confidence":         s.Confidence,
			"quality":            s.Quality.String(),
			"natural_pauses":     s.NaturalPauses,
			"optimal_cut_points": cuts,
		})
	}

	return out
}
