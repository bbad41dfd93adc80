package ffmpeg

import (
	"context"
	"strconv"
)

// ExtractFrame writes a single JPEG frame near atSeconds from inputPath to
// outputPath, used by the Content Analyzer to sample frames for scene
// detection and by the get_scene_screenshots tool to produce screenshots.
func ExtractFrame(ctx context.Context, inputPath string, atSeconds float64, outputPath string) (string, error) {
	if atSeconds < 0 {
		atSeconds = 0
	}

	argv := []string{
		"-ss", strconv.FormatFloat(atSeconds, 'f', 3, 64),
		"-i", inputPath,
		"-frames:v", "1",
		"-q:v", "2",
		"-y",
		outputPath,
	}

	return Run(ctx, argv)
}
