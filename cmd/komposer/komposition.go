package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/komposer/internal/types"
)

func processKompositionFileCommand() *cli.Command {
	return &cli.Command{
		Name:      "compose",
		Usage:     "Plan and realize a komposition document end to end",
		ArgsUsage: "<path>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errExpectOneArg, cmd.NArg())
			}

			path := cmd.Args().First()

			return emit(cmd, path, buildService(cmd).ProcessKompositionFile(ctx, path))
		},
	}
}

func processTransitionEffectsKompositionCommand() *cli.Command {
	return &cli.Command{
		Name:      "compose-effects",
		Usage:     "Plan and realize a komposition document that carries an effects_tree",
		ArgsUsage: "<path>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errExpectOneArg, cmd.NArg())
			}

			path := cmd.Args().First()

			return emit(cmd, path, buildService(cmd).ProcessTransitionEffectsKomposition(ctx, path))
		},
	}
}

func processCompositionPlanCommand() *cli.Command {
	return &cli.Command{
		Name:      "compose-plan",
		Usage:     "Execute a caller-supplied BuildPlan directly",
		ArgsUsage: "<path>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errExpectOneArg, cmd.NArg())
			}

			path := cmd.Args().First()

			raw, err := readPlanInput(path)
			if err != nil {
				return err
			}

			var plan types.BuildPlan
			if err := json.Unmarshal(raw, &plan); err != nil {
				return fmt.Errorf("decoding composition plan: %w", err)
			}

			return emit(cmd, path, buildService(cmd).ProcessCompositionPlan(ctx, plan))
		},
	}
}
