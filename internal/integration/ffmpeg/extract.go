package ffmpeg

import (
	"context"
	"io"
	"strconv"
)

// BitDepth is the PCM sample width requested from ExtractStream.
type BitDepth int

const (
	Depth16 BitDepth = 16
	Depth24 BitDepth = 24
	Depth32 BitDepth = 32
)

func (d BitDepth) spec() string {
	return "s" + strconv.Itoa(int(d)) + "le"
}

// ExtractStream decodes a specific audio stream from a container to raw
// PCM, at the requested bit depth, 16 kHz mono — the format the Speech
// Analyzer's VAD backends consume.
func ExtractStream(ctx context.Context, input io.Reader, output io.Writer, streamIndex int, bitDepth BitDepth) (string, error) {
	argv := []string{
		"-i", "-",
		"-map", "0:a:" + strconv.Itoa(streamIndex),
		"-ar", "16000",
		"-ac", "1",
		"-f", bitDepth.spec(),
		"-v", "quiet",
		"-",
	}

	return RunWithStdio(ctx, argv, input, output)
}
