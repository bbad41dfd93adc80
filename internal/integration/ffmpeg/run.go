package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"

	"github.com/farcloser/komposer/internal/fault"
	"github.com/farcloser/komposer/internal/integration/binary"
)

// stderrTailBytes bounds how much of a failed invocation's stderr is kept
// for error reporting.
const stderrTailBytes = 8 << 10

// Run spawns ffmpeg with argv (no shell interpretation), honoring ctx's
// deadline, and returns the tail of stderr for diagnostics regardless of
// success. On a nonzero exit it returns fault.ErrToolFailure with the
// stderr tail attached; on a deadline it returns fault.ErrTimeout and the
// caller is responsible for deleting any partially written output.
func Run(ctx context.Context, argv []string) (string, error) {
	return run(ctx, argv, nil, nil)
}

// RunWithStdio is Run, but wires stdin/stdout to the given reader/writer
// instead of letting argv name file paths — used for PCM extraction where
// the input/output is a pipe rather than a path.
func RunWithStdio(ctx context.Context, argv []string, stdin io.Reader, stdout io.Writer) (string, error) {
	return run(ctx, argv, stdin, stdout)
}

func run(ctx context.Context, argv []string, stdin io.Reader, stdout io.Writer) (string, error) {
	slog.Debug("ffmpeg.Run", "argv", argv, "stage", "start")

	ffmpegPath, found := binary.Available(name)
	if !found {
		return "", fmt.Errorf("%w: %s", fault.ErrMissingRequirements, name)
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, argv...)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if stdin != nil {
		cmd.Stdin = stdin
	}

	if stdout != nil {
		cmd.Stdout = stdout
	}

	err := cmd.Run()

	tail := tailString(stderr.String(), stderrTailBytes)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			slog.Debug("ffmpeg.Run", "argv", argv, "stage", "timeout")

			return tail, fmt.Errorf("%w: after deadline", fault.ErrTimeout)
		}

		slog.Debug("ffmpeg.Run", "argv", argv, "stage", "error")

		return tail, fmt.Errorf("%w: %s: %w", fault.ErrToolFailure, tail, err)
	}

	return tail, nil
}

func tailString(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[len(s)-n:]
}
