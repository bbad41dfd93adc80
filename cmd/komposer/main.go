package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/komposer/internal/version"
)

func main() {
	ctx := context.Background()

	appl := &cli.Command{
		Name:    version.Name(),
		Usage:   "Beat-synchronized media composition engine and tool surface",
		Version: version.Version() + " " + version.Commit(),
		Flags:   rootFlags(),
		Commands: []*cli.Command{
			listFilesCommand(),
			getFileInfoCommand(),
			cleanupTempFilesCommand(),
			getAvailableOperationsCommand(),
			processFileCommand(),
			batchProcessCommand(),
			analyzeVideoContentCommand(),
			getVideoInsightsCommand(),
			getSceneScreenshotsCommand(),
			detectSpeechSegmentsCommand(),
			processKompositionFileCommand(),
			processTransitionEffectsKompositionCommand(),
			processCompositionPlanCommand(),
			serveCommand(),
		},
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}
