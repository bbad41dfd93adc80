// Package fault defines the sentinel errors shared across komposer's
// components. Call sites wrap these with fmt.Errorf("%w: ...") so callers
// can discriminate failure kinds with errors.Is while still getting a
// human-readable message.
package fault

import "errors"

var (
	// ErrValidation covers unknown operations/parameters, missing required
	// parameters, wrong parameter types, and forward RESULT_k references.
	ErrValidation = errors.New("validation error")

	// ErrSandbox covers path-escape, disallowed-extension, and
	// over-size-limit failures in the Handle Registry.
	ErrSandbox = errors.New("sandbox error")

	// ErrNotFound is returned when a handle does not resolve to a
	// registered path.
	ErrNotFound = errors.New("not found")

	// ErrVanished is returned when a handle's path no longer exists on
	// disk at resolution time.
	ErrVanished = errors.New("vanished")

	// ErrProbe covers ffprobe failures (corrupt/unsupported container).
	ErrProbe = errors.New("probe error")

	// ErrToolFailure covers a nonzero exit from the external media
	// toolchain.
	ErrToolFailure = errors.New("tool failure")

	// ErrTimeout covers a subprocess exceeding its deadline.
	ErrTimeout = errors.New("timeout")

	// ErrMissingRequirements covers an external binary (ffmpeg, ffprobe)
	// not being present on PATH.
	ErrMissingRequirements = errors.New("missing requirements")

	// ErrAnalysisBackend covers a content/speech analysis backend failing
	// after all configured fallbacks are exhausted.
	ErrAnalysisBackend = errors.New("analysis backend failure")

	// ErrPlanningInfeasible covers a segment for which no strategy
	// satisfies the invariants in spec.md section 3.
	ErrPlanningInfeasible = errors.New("planning infeasible")

	// ErrInvalidJSON covers malformed JSON from an external tool or cache
	// sidecar.
	ErrInvalidJSON = errors.New("invalid json")

	// ErrReadFailure covers I/O failures reading source media or caches.
	ErrReadFailure = errors.New("read failure")
)
