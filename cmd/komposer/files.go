package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"
)

var errExpectOneArg = errors.New("expected exactly one argument: file id")

func listFilesCommand() *cli.Command {
	return &cli.Command{
		Name:  "list-files",
		Usage: "List registered source files (or, with --generated, generated/temp files)",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "generated",
				Usage: "List generated and temp files instead of source files",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			svc := buildService(cmd)

			if cmd.Bool("generated") {
				return emit(cmd, "list_generated_files", svc.ListGeneratedFiles())
			}

			return emit(cmd, "list_files", svc.ListFiles())
		},
	}
}

func getFileInfoCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     "Probe a registered file's media info",
		ArgsUsage: "<file_id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errExpectOneArg, cmd.NArg())
			}

			id := cmd.Args().First()

			return emit(cmd, id, buildService(cmd).GetFileInfo(ctx, id))
		},
	}
}

func cleanupTempFilesCommand() *cli.Command {
	return &cli.Command{
		Name:  "cleanup",
		Usage: "Remove expired temp files",
		Action: func(_ context.Context, cmd *cli.Command) error {
			return emit(cmd, "cleanup_temp_files", buildService(cmd).CleanupTempFiles())
		},
	}
}
