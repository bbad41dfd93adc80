package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"
)

// serveCommand runs the NDJSON tool-call loop over stdin/stdout, the
// transport cmd/komposer's other subcommands bypass by calling a Service
// method directly.
func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Read newline-delimited tool calls from stdin, write newline-delimited results to stdout",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return buildService(cmd).Serve(ctx, os.Stdin, os.Stdout)
		},
	}
}
