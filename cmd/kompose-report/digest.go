//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/komposer/internal/types"
)

var errDigestArgs = errors.New("expected at least one argument: path to a BuildPlan JSON file")

func digestCommand() *cli.Command {
	return &cli.Command{
		Name:      "digest",
		Usage:     "Summarize operation and strategy distributions across one or more BuildPlan files",
		ArgsUsage: "<plan.json> [plan.json ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "strategy",
				Usage: "Show segments using a specific fit strategy: time_stretch, smart_cut, hybrid",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 1 {
				return fmt.Errorf("%w: got %d", errDigestArgs, cmd.NArg())
			}

			return runDigest(cmd.Args().Slice(), cmd.String("strategy"))
		},
	}
}

type planRecord struct {
	path  string
	plan  types.BuildPlan
	err   error
}

func runDigest(paths []string, strategyFilter string) error {
	records := make([]planRecord, 0, len(paths))

	for _, path := range paths {
		plan, err := readPlan(path)
		records = append(records, planRecord{path: path, plan: plan, err: err})
	}

	printDigest(records)

	if strategyFilter != "" {
		printStrategyDetail(records, strategyFilter)
	}

	return nil
}

func printDigest(records []planRecord) {
	failed := 0
	totalSteps := 0
	totalSegments := 0
	opCounts := map[string]int{}
	strategyCounts := map[string]int{}

	for _, rec := range records {
		if rec.err != nil {
			failed++

			continue
		}

		totalSteps += len(rec.plan.Steps)
		totalSegments += len(rec.plan.SegmentPlan)

		for _, step := range rec.plan.Steps {
			opCounts[step.Operation]++
		}

		for _, seg := range rec.plan.SegmentPlan {
			strategyCounts[seg.Strategy.String()]++
		}
	}

	fmt.Println("=== komposer Plan Digest ===")
	fmt.Println()
	fmt.Printf("Plans:    %d\n", len(records))
	fmt.Printf("Failed:   %d\n", failed)
	fmt.Printf("Steps:    %d (total across all plans)\n", totalSteps)
	fmt.Printf("Segments: %d (total across all plans)\n", totalSegments)
	fmt.Println()

	fmt.Println("--- Strategy Distribution ---")

	for _, kind := range []string{"time_stretch", "smart_cut", "hybrid"} {
		fmt.Printf("  %-14s %d\n", kind, strategyCounts[kind])
	}

	fmt.Println()

	fmt.Println("--- Operations By Frequency ---")

	type opCount struct {
		name  string
		count int
	}

	counts := make([]opCount, 0, len(opCounts))
	for name, count := range opCounts {
		counts = append(counts, opCount{name, count})
	}

	slices.SortFunc(counts, func(a, b opCount) int { return b.count - a.count })

	for _, c := range counts {
		fmt.Printf("  %-24s %d\n", c.name, c.count)
	}
}

func printStrategyDetail(records []planRecord, strategy string) {
	fmt.Println()
	fmt.Printf("=== segments using %q ===\n\n", strategy)

	found := 0

	for _, rec := range records {
		if rec.err != nil {
			continue
		}

		for _, seg := range rec.plan.SegmentPlan {
			if seg.Strategy.String() != strategy {
				continue
			}

			found++

			fmt.Printf("  %s: %s (slot %.2fs, projected %.2f-%.2fs)\n",
				rec.path, seg.SegmentID, seg.TimeSlotSeconds, seg.ProjectedStart, seg.ProjectedEnd)
		}
	}

	if found == 0 {
		fmt.Printf("No segments use strategy %q\n", strategy)
	}
}
