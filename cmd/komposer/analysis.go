package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func analyzeVideoContentCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze-content",
		Usage:     "Detect scenes and score content for a video file",
		ArgsUsage: "<file_id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Bypass the cached result and re-run detection",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errExpectOneArg, cmd.NArg())
			}

			id := cmd.Args().First()

			return emit(cmd, id, buildService(cmd).AnalyzeVideoContent(ctx, id, cmd.Bool("force")))
		},
	}
}

func getVideoInsightsCommand() *cli.Command {
	return &cli.Command{
		Name:      "insights",
		Usage:     "Summarize a video's highlight scenes and suggestions",
		ArgsUsage: "<file_id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errExpectOneArg, cmd.NArg())
			}

			id := cmd.Args().First()

			return emit(cmd, id, buildService(cmd).GetVideoInsights(ctx, id))
		},
	}
}

func getSceneScreenshotsCommand() *cli.Command {
	return &cli.Command{
		Name:      "screenshots",
		Usage:     "Extract one representative frame per detected scene",
		ArgsUsage: "<file_id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errExpectOneArg, cmd.NArg())
			}

			id := cmd.Args().First()

			return emit(cmd, id, buildService(cmd).GetSceneScreenshots(ctx, id))
		},
	}
}

func detectSpeechSegmentsCommand() *cli.Command {
	return &cli.Command{
		Name:      "detect-speech",
		Usage:     "Detect speech segments and their total duration",
		ArgsUsage: "<file_id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errExpectOneArg, cmd.NArg())
			}

			id := cmd.Args().First()

			return emit(cmd, id, buildService(cmd).DetectSpeechSegments(ctx, id))
		},
	}
}
