package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/komposer/internal/tool"
)

var errProcessFileArgs = errors.New("expected exactly two arguments: input_file_id operation")

func getAvailableOperationsCommand() *cli.Command {
	return &cli.Command{
		Name:  "operations",
		Usage: "List the operation catalog",
		Action: func(_ context.Context, cmd *cli.Command) error {
			return emit(cmd, "get_available_operations", buildService(cmd).GetAvailableOperations())
		},
	}
}

func processFileCommand() *cli.Command {
	return &cli.Command{
		Name:      "process",
		Usage:     "Run a single catalog operation against a registered file",
		ArgsUsage: "<input_file_id> <operation>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "output-extension",
				Usage: "Output file extension (defaults to the operation's fixed extension when it has one)",
			},
			&cli.StringFlag{
				Name:  "params",
				Usage: "Whitespace-separated key=value operation parameters, e.g. \"start=2 duration=5\"",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 2 {
				return fmt.Errorf("%w: got %d", errProcessFileArgs, cmd.NArg())
			}

			inputFileID := cmd.Args().Get(0)
			operation := cmd.Args().Get(1)

			result := buildService(cmd).ProcessFile(ctx, inputFileID, operation, cmd.String("output-extension"), cmd.String("params"))

			return emit(cmd, inputFileID, result)
		},
	}
}

var errBatchPlanRequired = errors.New("a batch plan is required: pass --plan or pipe JSON on stdin")

func batchProcessCommand() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Run a sequence of catalog operations chained by CHAIN/RESULT_k references",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "plan",
				Usage: "Path to a JSON array of {input_file_id, operation, output_extension, params}; \"-\" or omitted reads stdin",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			raw, err := readPlanInput(cmd.String("plan"))
			if err != nil {
				return err
			}

			var ops []tool.BatchOperation
			if err := json.Unmarshal(raw, &ops); err != nil {
				return fmt.Errorf("%w: decoding batch operations: %w", errBatchPlanRequired, err)
			}

			return emit(cmd, "batch_process", buildService(cmd).BatchProcess(ctx, ops))
		},
	}
}

func readPlanInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}

		if len(data) == 0 {
			return nil, errBatchPlanRequired
		}

		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return data, nil
}
