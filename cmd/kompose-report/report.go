//nolint:wrapcheck
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/farcloser/primordium/format"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/komposer/internal/output"
	"github.com/farcloser/komposer/internal/types"
)

var errReportArgs = errors.New("expected exactly one argument: path to a BuildPlan JSON file")

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Render a BuildPlan (or, with --manifest-only, just its AudioTimingManifest) as a readable report",
		ArgsUsage: "<plan.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json, markdown",
				Value:   "console",
			},
			&cli.BoolFlag{
				Name:  "manifest-only",
				Usage: "Render only the plan's AudioTimingManifest",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errReportArgs, cmd.NArg())
			}

			path := cmd.Args().First()

			plan, err := readPlan(path)
			if err != nil {
				return err
			}

			return renderPlan(cmd, path, plan)
		},
	}
}

func readPlan(path string) (types.BuildPlan, error) {
	data, err := os.ReadFile(path) //nolint:gosec // CLI tool opens a user-specified plan file
	if err != nil {
		return types.BuildPlan{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var plan types.BuildPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return types.BuildPlan{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	return plan, nil
}

func renderPlan(cmd *cli.Command, path string, plan types.BuildPlan) error {
	formatter, err := format.GetFormatter(cmd.String("format"))
	if err != nil {
		return err
	}

	var meta map[string]any
	if cmd.Bool("manifest-only") {
		meta = output.AudioTimingManifestToMap(plan.Manifest)
	} else {
		meta = output.BuildPlanToMap(plan)
	}

	data := &format.Data{
		Object: path,
		Meta:   meta,
	}

	return formatter.PrintAll([]*format.Data{data}, os.Stdout)
}
