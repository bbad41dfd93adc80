package tool

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/farcloser/komposer/internal/output"
	"github.com/farcloser/komposer/internal/types"
)

// envelope is one line of the NDJSON tool-call protocol (spec.md section
// 6's binding surface): a tool name plus its JSON-shaped arguments.
type envelope struct {
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments"`
}

// Serve reads newline-delimited envelope JSON from r and writes one
// newline-delimited {"success": ..., ...} result per line to w, until r is
// exhausted or ctx is canceled. A line that fails to parse, or names an
// unknown tool, yields a failure result rather than stopping the loop —
// one malformed call must not take down the whole session.
func (s *Service) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	enc := json.NewEncoder(w)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var env envelope
		if err := json.Unmarshal(line, &env); err != nil {
			if err := enc.Encode(output.Failure(fmt.Sprintf("malformed tool-call envelope: %v", err))); err != nil {
				return err
			}

			continue
		}

		result := s.Dispatch(ctx, env.Tool, env.Arguments)

		if err := enc.Encode(result); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// Dispatch runs one tool call by name against raw JSON arguments, the
// entry point both Serve and cmd/komposer's per-tool subcommands use.
func (s *Service) Dispatch(ctx context.Context, tool string, arguments json.RawMessage) map[string]any {
	slog.Debug("tool.Dispatch", "tool", tool)

	switch tool {
	case "list_files":
		return s.ListFiles()

	case "list_generated_files":
		return s.ListGeneratedFiles()

	case "get_file_info":
		var args struct {
			ID string `json:"id"`
		}
		if err := decodeArgs(arguments, &args); err != nil {
			return output.FailureErr(err)
		}

		return s.GetFileInfo(ctx, args.ID)

	case "get_available_operations":
		return s.GetAvailableOperations()

	case "process_file":
		var args struct {
			InputFileID     string `json:"input_file_id"`
			Operation       string `json:"operation"`
			OutputExtension string `json:"output_extension"`
			Params          string `json:"params"`
		}
		if err := decodeArgs(arguments, &args); err != nil {
			return output.FailureErr(err)
		}

		return s.ProcessFile(ctx, args.InputFileID, args.Operation, args.OutputExtension, args.Params)

	case "batch_process":
		var args struct {
			Operations []BatchOperation `json:"operations"`
		}
		if err := decodeArgs(arguments, &args); err != nil {
			return output.FailureErr(err)
		}

		return s.BatchProcess(ctx, args.Operations)

	case "analyze_video_content":
		var args struct {
			ID    string `json:"id"`
			Force bool   `json:"force"`
		}
		if err := decodeArgs(arguments, &args); err != nil {
			return output.FailureErr(err)
		}

		return s.AnalyzeVideoContent(ctx, args.ID, args.Force)

	case "get_video_insights":
		var args struct {
			ID string `json:"id"`
		}
		if err := decodeArgs(arguments, &args); err != nil {
			return output.FailureErr(err)
		}

		return s.GetVideoInsights(ctx, args.ID)

	case "get_scene_screenshots":
		var args struct {
			ID string `json:"id"`
		}
		if err := decodeArgs(arguments, &args); err != nil {
			return output.FailureErr(err)
		}

		return s.GetSceneScreenshots(ctx, args.ID)

	case "detect_speech_segments":
		var args struct {
			ID string `json:"id"`
		}
		if err := decodeArgs(arguments, &args); err != nil {
			return output.FailureErr(err)
		}

		return s.DetectSpeechSegments(ctx, args.ID)

	case "process_komposition_file":
		var args struct {
			Path string `json:"path"`
		}
		if err := decodeArgs(arguments, &args); err != nil {
			return output.FailureErr(err)
		}

		return s.ProcessKompositionFile(ctx, args.Path)

	case "process_composition_plan":
		var args struct {
			Plan types.BuildPlan `json:"plan"`
		}
		if err := decodeArgs(arguments, &args); err != nil {
			return output.FailureErr(err)
		}

		return s.ProcessCompositionPlan(ctx, args.Plan)

	case "process_transition_effects_komposition":
		var args struct {
			Path string `json:"path"`
		}
		if err := decodeArgs(arguments, &args); err != nil {
			return output.FailureErr(err)
		}

		return s.ProcessTransitionEffectsKomposition(ctx, args.Path)

	case "cleanup_temp_files":
		return s.CleanupTempFiles()

	default:
		return output.Failure(fmt.Sprintf("unknown tool %q", tool))
	}
}

func decodeArgs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}

	return json.Unmarshal(raw, dst)
}
