package main

import (
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/komposer"
	"github.com/farcloser/komposer/internal/analyzer/content"
	"github.com/farcloser/komposer/internal/analyzer/speech"
	"github.com/farcloser/komposer/internal/executor"
	"github.com/farcloser/komposer/internal/probe"
	"github.com/farcloser/komposer/internal/registry"
	"github.com/farcloser/komposer/internal/tool"
	"github.com/farcloser/komposer/internal/types"
)

const defaultMaxFileSize = 500 << 20 // 500 MiB, spec.md section 6's stated default

// defaultAllowedExtensions mirrors the catalog's own extension allow-lists
// (internal/catalog) so a freshly registered source or generated file is
// never rejected by the registry before an operation ever sees it.
func defaultAllowedExtensions() map[types.HandleClass][]string {
	media := []string{"mp4", "mov", "mkv", "webm", "avi", "mp3", "wav", "aac", "flac", "ogg", "jpg", "jpeg", "png"}

	return map[types.HandleClass][]string{
		types.ClassSource:    media,
		types.ClassGenerated: media,
		types.ClassTemp:      media,
	}
}

func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "source-root",
			Sources: cli.EnvVars("SOURCE_ROOTS"),
			Usage:   "Allowed read-only source root (repeatable, or SOURCE_ROOTS comma-separated)",
			Value:   []string{"."},
		},
		&cli.StringFlag{
			Name:    "temp-root",
			Sources: cli.EnvVars("TEMP_ROOT"),
			Usage:   "Root for generated and temp outputs",
			Value:   "/tmp/komposer/temp",
		},
		&cli.StringFlag{
			Name:    "metadata-root",
			Sources: cli.EnvVars("METADATA_ROOT"),
			Usage:   "Root for probe/scene/speech JSON caches",
			Value:   "/tmp/komposer/metadata",
		},
		&cli.StringFlag{
			Name:    "screenshots-root",
			Sources: cli.EnvVars("SCREENSHOTS_ROOT"),
			Usage:   "Root for extracted keyframes",
			Value:   "/tmp/komposer/screenshots",
		},
		&cli.IntFlag{
			Name:    "max-file-size",
			Sources: cli.EnvVars("MAX_FILE_SIZE"),
			Usage:   "Maximum registrable file size, in bytes",
			Value:   defaultMaxFileSize,
		},
		&cli.IntFlag{
			Name:    "process-timeout",
			Sources: cli.EnvVars("PROCESS_TIMEOUT"),
			Usage:   "Per-operation subprocess deadline, in seconds",
			Value:   300,
		},
		&cli.IntFlag{
			Name:    "analysis-cache-ttl",
			Sources: cli.EnvVars("ANALYSIS_CACHE_TTL"),
			Usage:   "Probe cache TTL, in seconds",
			Value:   300,
		},
		&cli.StringFlag{
			Name:    "allowed-extensions",
			Sources: cli.EnvVars("ALLOWED_EXTENSIONS"),
			Usage:   "Override allowed extensions per class: \"source=mp4,wav;generated=mp4\"",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: console, json, markdown",
			Value:   "json",
		},
	}
}

// allowedExtensions splits a "class=ext,ext;class=ext" style override, or
// falls back to defaultAllowedExtensions when raw is empty. Kept simple: the
// tool surface's own extension checks (internal/catalog) are the load-bearing
// guard, this is just the registry's outer sandbox filter.
func allowedExtensions(raw string) map[types.HandleClass][]string {
	if strings.TrimSpace(raw) == "" {
		return defaultAllowedExtensions()
	}

	out := defaultAllowedExtensions()

	for _, clause := range strings.Split(raw, ";") {
		class, exts, ok := strings.Cut(clause, "=")
		if !ok {
			continue
		}

		var key types.HandleClass

		switch strings.TrimSpace(class) {
		case "source":
			key = types.ClassSource
		case "generated":
			key = types.ClassGenerated
		case "temp":
			key = types.ClassTemp
		default:
			continue
		}

		out[key] = strings.Split(exts, ",")
	}

	return out
}

// buildService wires the Handle Registry, Probe Cache, Executor, komposition
// Engine, and both analyzers from cmd's flags, mirroring engine.go's own
// wiring order.
func buildService(cmd *cli.Command) *tool.Service {
	sourceRoots := cmd.StringSlice("source-root")
	tempRoot := cmd.String("temp-root")
	metadataRoot := cmd.String("metadata-root")
	screenshotsRoot := cmd.String("screenshots-root")

	reg := registry.New(registry.Config{
		SourceRoots:       sourceRoots,
		TempRoot:          tempRoot,
		MaxFileSize:       cmd.Int("max-file-size"),
		AllowedExtensions: allowedExtensions(cmd.String("allowed-extensions")),
	})

	ttl := time.Duration(cmd.Int("analysis-cache-ttl")) * time.Second
	probes := probe.New(metadataRoot, ttl)
	exec := executor.New(reg, probes, time.Duration(cmd.Int("process-timeout"))*time.Second)

	opts := komposer.DefaultOptions()
	opts.ProcessTimeout = float64(cmd.Int("process-timeout"))

	engine := komposer.NewEngine(reg, probes, opts)
	contentAnalyzer := content.New(probes, metadataRoot, tempRoot, content.DefaultOptions())
	speechAnalyzer := speech.New(probes, metadataRoot)

	return tool.New(reg, probes, exec, engine, contentAnalyzer, speechAnalyzer, sourceRoots, screenshotsRoot, opts)
}
