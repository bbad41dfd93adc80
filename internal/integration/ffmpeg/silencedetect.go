package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"

	"github.com/farcloser/komposer/internal/fault"
	"github.com/farcloser/komposer/internal/integration/binary"
)

// SilenceInterval is one [start, end) run the silencedetect filter
// identified as below its noise threshold.
type SilenceInterval struct {
	Start float64
	End   float64
}

var (
	silenceStartRe = regexp.MustCompile(`silence_start: ([0-9.]+)`)
	silenceEndRe   = regexp.MustCompile(`silence_end: ([0-9.]+)`)
)

// DetectSilence runs ffmpeg's silencedetect audio filter over inputPath and
// parses the [silencedetect] lines it writes to stderr. This is the Speech
// Analyzer's fallback VAD backend: speech is inferred as the complement of
// the reported silence intervals (internal/analyzer/speech).
func DetectSilence(ctx context.Context, inputPath string, noiseDb float64, minDuration float64) ([]SilenceInterval, error) {
	slog.Debug("ffmpeg.DetectSilence", "input", inputPath, "stage", "start")

	ffmpegPath, found := binary.Available(name)
	if !found {
		return nil, fmt.Errorf("%w: %s", fault.ErrMissingRequirements, name)
	}

	filter := fmt.Sprintf("silencedetect=noise=%.1fdB:d=%.3f", noiseDb, minDuration)

	//nolint:gosec // inputPath is caller-provided, resolved through the Handle Registry upstream
	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-i", inputPath,
		"-af", filter,
		"-f", "null",
		"-",
	)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	// silencedetect reports via stderr even on a clean (zero-exit) run; a
	// nonzero exit still means tool failure.
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", fault.ErrToolFailure, tailString(stderr.String(), stderrTailBytes), err)
	}

	return parseSilenceIntervals(stderr.String()), nil
}

func parseSilenceIntervals(stderr string) []SilenceInterval {
	starts := silenceStartRe.FindAllStringSubmatch(stderr, -1)
	ends := silenceEndRe.FindAllStringSubmatch(stderr, -1)

	n := len(starts)
	if len(ends) < n {
		n = len(ends)
	}

	intervals := make([]SilenceInterval, 0, n)

	for i := range n {
		start, err1 := strconv.ParseFloat(starts[i][1], 64)
		end, err2 := strconv.ParseFloat(ends[i][1], 64)

		if err1 != nil || err2 != nil {
			continue
		}

		intervals = append(intervals, SilenceInterval{Start: start, End: end})
	}

	return intervals
}
