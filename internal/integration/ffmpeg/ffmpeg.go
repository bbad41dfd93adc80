// Package ffmpeg wraps external ffmpeg invocations: the low-level
// subprocess supervision the Operation Executor (internal/executor) builds
// its catalog-driven invocations on top of, plus a handful of direct calls
// (PCM stream extraction, frame extraction, silence detection) used by the
// content and speech analyzers.
package ffmpeg

import "time"

const (
	name = "ffmpeg"
	// DefaultTimeout is used whenever a caller does not impose its own
	// context deadline; the Executor normally does, per-operation, from
	// configuration (spec.md section 6, PROCESS_TIMEOUT).
	DefaultTimeout = 300 * time.Second
)
