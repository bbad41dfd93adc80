package testutils

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

// SilentClip is the filename of a short, silent test pattern video: two
// seconds of testsrc video over a silent audio track.
const SilentClip = "silent.mp4"

// ToneClip is the filename of a short video whose audio track is a steady
// 440 Hz tone for its whole four seconds, standing in for continuous
// voiced audio.
const ToneClip = "tone.mp4"

var (
	fixtureOnce sync.Once
	fixtureDir  string
	fixtureErr  error
)

// FixtureDir returns a process-wide directory of synthesized source
// fixtures, generated once via ffmpeg's lavfi virtual sources on first
// call. Suitable as a --source-root for the binary under test.
func FixtureDir() string {
	fixtureOnce.Do(func() {
		dir, err := os.MkdirTemp("", "komposer-fixtures-")
		if err != nil {
			fixtureErr = fmt.Errorf("creating fixture dir: %w", err)

			return
		}

		if err := synthesize(filepath.Join(dir, SilentClip),
			"testsrc=duration=2:size=320x240:rate=25",
			"anullsrc=r=44100:cl=stereo",
		); err != nil {
			fixtureErr = err

			return
		}

		if err := synthesize(filepath.Join(dir, ToneClip),
			"testsrc=duration=4:size=320x240:rate=25",
			"sine=frequency=440:duration=4",
		); err != nil {
			fixtureErr = err

			return
		}

		fixtureDir = dir
	})

	if fixtureErr != nil {
		panic(fmt.Sprintf("synthesizing test fixtures: %v", fixtureErr))
	}

	return fixtureDir
}

// WorkDirs creates a fresh, empty temp-root/metadata-root/screenshots-root
// triple for one test invocation. The binary never creates these
// directories itself (operators provision them), so tests must.
func WorkDirs() (tempRoot, metadataRoot, screenshotsRoot string) {
	base, err := os.MkdirTemp("", "komposer-work-")
	if err != nil {
		panic(fmt.Sprintf("creating work dirs: %v", err))
	}

	tempRoot = filepath.Join(base, "temp")
	metadataRoot = filepath.Join(base, "metadata")
	screenshotsRoot = filepath.Join(base, "screenshots")

	for _, dir := range []string{tempRoot, metadataRoot, screenshotsRoot} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			panic(fmt.Sprintf("creating %s: %v", dir, err))
		}
	}

	return tempRoot, metadataRoot, screenshotsRoot
}

// GlobalArgs returns the --source-root/--temp-root/--metadata-root/
// --screenshots-root flags komposer needs before any subcommand, backed
// by a fresh FixtureDir source root and a fresh WorkDirs writable set.
func GlobalArgs() []string {
	tempRoot, metadataRoot, screenshotsRoot := WorkDirs()

	return []string{
		"--source-root", FixtureDir(),
		"--temp-root", tempRoot,
		"--metadata-root", metadataRoot,
		"--screenshots-root", screenshotsRoot,
	}
}

// synthesize renders a short clip by pairing an lavfi video source with an
// lavfi audio source, muxed together and trimmed to the shorter of the two.
func synthesize(outPath, videoSource, audioSource string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-f", "lavfi", "-i", videoSource,
		"-f", "lavfi", "-i", audioSource,
		"-shortest",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		outPath,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg synthesizing %s: %w\n%s", outPath, err, out)
	}

	return nil
}
