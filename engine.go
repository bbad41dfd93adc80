package komposer

import (
	"context"
	"time"

	"github.com/farcloser/komposer/internal/effects"
	"github.com/farcloser/komposer/internal/planner"
	"github.com/farcloser/komposer/internal/probe"
	"github.com/farcloser/komposer/internal/processor"
	"github.com/farcloser/komposer/internal/registry"
	"github.com/farcloser/komposer/internal/types"
)

// Plan derives a BuildPlan from a Komposition, selecting a per-segment
// time_stretch/smart_cut/hybrid strategy within opts.Epsilon tolerance of
// each segment's beat-derived slot duration.
func Plan(k Komposition, opts Options) (BuildPlan, error) {
	return planner.Plan(k, opts.Epsilon)
}

// PreviewTiming projects each segment's timeline placement without
// assembling a full executable BuildPlan.
func PreviewTiming(k Komposition, opts Options) ([]types.SegmentPlan, error) {
	return planner.PreviewTiming(k, opts.Epsilon)
}

// SourceResolver maps a Komposition source id to its registry-resolved
// path; callers supply one backed by their own Registry lookups.
type SourceResolver = processor.SourceResolver

// StepFailure reports which BuildPlan step failed during Process.
type StepFailure = processor.StepFailure

// Engine wires a Registry and probe Cache to the Composition Processor,
// the facade's entry point for realizing a BuildPlan end to end.
type Engine struct {
	proc *processor.Processor
}

// NewEngine constructs an Engine. opts.ProcessTimeout bounds each step.
func NewEngine(reg *registry.Registry, probes *probe.Cache, opts Options) *Engine {
	timeout := time.Duration(opts.ProcessTimeout * float64(time.Second))

	return &Engine{proc: processor.New(reg, probes, timeout)}
}

// Process realizes every step of plan in order, returning the handle
// produced by each step even when a later step fails.
func (e *Engine) Process(ctx context.Context, plan BuildPlan, resolveSource SourceResolver) ([]types.FileHandle, error) {
	return e.proc.Process(ctx, plan, resolveSource)
}

// EvaluateEffects turns doc into its dependency-ordered invocation
// sequence, converting every beat-denominated parameter to seconds
// against bpm exactly once.
func EvaluateEffects(doc *types.EffectDocument, bpm float64) ([]effects.Invocation, error) {
	return effects.Plan(doc, bpm)
}
