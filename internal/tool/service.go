// Package tool implements the Tool Binding (spec.md section 4.I): the
// thin layer that turns the abstract tool surface of spec.md section 6
// into calls against the Handle Registry, Probe Cache, Operation Catalog,
// Executor, Composition Planner/Processor, and the Content/Speech
// Analyzers, shaping every result as the {"success": bool, ...} envelope
// spec.md section 7 requires.
package tool

import (
	"github.com/farcloser/komposer/internal/analyzer/content"
	"github.com/farcloser/komposer/internal/analyzer/speech"
	"github.com/farcloser/komposer/internal/executor"
	"github.com/farcloser/komposer/internal/probe"
	"github.com/farcloser/komposer/internal/registry"

	"github.com/farcloser/komposer"
)

// Service holds every collaborator a tool-call handler may need. One
// Service is constructed per process and is safe for concurrent use
// (every field it wraps is itself concurrency-safe).
type Service struct {
	reg    *registry.Registry
	probes *probe.Cache
	exec   *executor.Executor
	engine *komposer.Engine

	contentAnalyzer *content.Analyzer
	speechAnalyzer  *speech.Analyzer

	sourceRoots     []string
	screenshotsRoot string
	opts            komposer.Options
}

// New constructs a Service wiring together an already-built Registry,
// Probe Cache, Executor, Engine, and Content/Speech Analyzers.
// sourceRoots resolves a Komposition source's "file://<basename>" url at
// process_komposition_file time.
func New(
	reg *registry.Registry,
	probes *probe.Cache,
	exec *executor.Executor,
	engine *komposer.Engine,
	contentAnalyzer *content.Analyzer,
	speechAnalyzer *speech.Analyzer,
	sourceRoots []string,
	screenshotsRoot string,
	opts komposer.Options,
) *Service {
	return &Service{
		reg:             reg,
		probes:          probes,
		exec:            exec,
		engine:          engine,
		contentAnalyzer: contentAnalyzer,
		speechAnalyzer:  speechAnalyzer,
		sourceRoots:     sourceRoots,
		screenshotsRoot: screenshotsRoot,
		opts:            opts,
	}
}
