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
		Name:    "kompose-report",
		Usage:   "Render and summarize komposer BuildPlans without executing them",
		Version: version.Version() + " " + version.Commit(),
		Commands: []*cli.Command{
			reportCommand(),
			digestCommand(),
		},
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}
