//nolint:tagliatelle
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/farcloser/komposer/internal/fault"
	"github.com/farcloser/komposer/internal/integration/binary"
	"github.com/farcloser/komposer/internal/types"
)

// Result is the raw, marshalled output of ffprobe -show_format -show_streams.
// This shape is also the Probe Cache's on-disk sidecar format.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream represents one audio or video stream's probed properties.
type Stream struct {
	Index         int    `json:"index"`
	CodecName     string `json:"codec_name"`
	CodecType     string `json:"codec_type"` // "audio" or "video"
	Width         int    `json:"width,omitempty"`
	Height        int    `json:"height,omitempty"`
	RFrameRate    string `json:"r_frame_rate,omitempty"` // "30000/1001"
	SampleRate    string `json:"sample_rate,omitempty"`  // "44100"
	Channels      int    `json:"channels,omitempty"`
	BitsPerSample int    `json:"bits_per_sample,omitempty"`
	Duration      string `json:"duration,omitempty"`
}

// Format represents container-level probed properties.
type Format struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration,omitempty"`
	Size       string `json:"size,omitempty"`
}

// Probe runs ffprobe on the given file path and returns its parsed, raw
// metadata. It requires ffprobe to be available on PATH.
func Probe(ctx context.Context, filePath string) (*Result, error) {
	slog.Debug("ffprobe.Probe", "file path", filePath)

	ffprobePath, found := binary.Available(name)
	if !found {
		return nil, fmt.Errorf("%w: %s", fault.ErrMissingRequirements, name)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // filePath is caller-provided, resolved through the Handle Registry upstream
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		return nil, fmt.Errorf("%w: %s: %w", fault.ErrToolFailure, stderr.String(), err)
	}

	var result Result
	if err = json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	return &result, nil
}

// ToMediaInfo normalizes a raw Result into the types.MediaInfo the rest of
// komposer consumes. Video streams missing duration or framerate are a
// probe error, never silently defaulted, per spec.md section 3's MediaInfo
// invariant.
func (r *Result) ToMediaInfo() (types.MediaInfo, error) {
	info := types.MediaInfo{Format: r.Format.FormatName}

	if d, err := strconv.ParseFloat(r.Format.Duration, 64); err == nil {
		info.Duration = d
	}

	for _, s := range r.Streams {
		stream := types.StreamInfo{
			Index:         s.Index,
			CodecType:     s.CodecType,
			CodecName:     s.CodecName,
			Width:         s.Width,
			Height:        s.Height,
			Channels:      s.Channels,
			BitsPerSample: s.BitsPerSample,
		}

		if s.SampleRate != "" {
			if sr, err := strconv.Atoi(s.SampleRate); err == nil {
				stream.SampleRate = sr
			}
		}

		switch s.CodecType {
		case "video":
			info.HasVideo = true

			rate, err := parseFrameRate(s.RFrameRate)
			if err != nil {
				return types.MediaInfo{}, fmt.Errorf("%w: video stream %d has no usable framerate: %w", fault.ErrProbe, s.Index, err)
			}

			stream.FrameRate = rate

			if info.Duration == 0 && s.Duration != "" {
				if d, err := strconv.ParseFloat(s.Duration, 64); err == nil {
					info.Duration = d
				}
			}

			if info.Duration == 0 {
				return types.MediaInfo{}, fmt.Errorf("%w: video stream %d has no usable duration", fault.ErrProbe, s.Index)
			}
		case "audio":
			info.HasAudio = true
		}

		info.Streams = append(info.Streams, stream)
	}

	return info, nil
}

// parseFrameRate parses ffprobe's "num/den" r_frame_rate representation.
func parseFrameRate(raw string) (float64, error) {
	if raw == "" || raw == "0/0" {
		return 0, fmt.Errorf("empty or undefined frame rate")
	}

	var num, den float64

	if _, err := fmt.Sscanf(raw, "%f/%f", &num, &den); err != nil {
		return 0, err
	}

	if den == 0 {
		return 0, fmt.Errorf("zero denominator in frame rate %q", raw)
	}

	return num / den, nil
}
