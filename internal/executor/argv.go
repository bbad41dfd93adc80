package executor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/farcloser/komposer/internal/fault"
	"github.com/farcloser/komposer/internal/types"
)

var inlinePlaceholderRe = regexp.MustCompile(`\$\{(\w+)\}`)

func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// substituteTokens turns a template into concrete argv entries. A
// Placeholder token is replaced wholesale; a Literal token's "${name}"
// markers are replaced in place, so one filter expression can combine
// several params into a single argv entry (e.g. "scale=${width}:${height}").
func substituteTokens(tokens []types.ArgToken, values map[string]string) ([]string, error) {
	out := make([]string, 0, len(tokens))

	for _, t := range tokens {
		if t.Placeholder != "" {
			v, ok := values[t.Placeholder]
			if !ok {
				return nil, fmt.Errorf("%w: unresolved placeholder %q", fault.ErrValidation, t.Placeholder)
			}

			out = append(out, v)

			continue
		}

		lit, err := substituteInline(t.Literal, values)
		if err != nil {
			return nil, err
		}

		out = append(out, lit)
	}

	return out, nil
}

func substituteInline(literal string, values map[string]string) (string, error) {
	if !strings.Contains(literal, "${") {
		return literal, nil
	}

	var firstErr error

	result := inlinePlaceholderRe.ReplaceAllStringFunc(literal, func(match string) string {
		name := match[2 : len(match)-1]

		v, ok := values[name]
		if !ok {
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: unresolved placeholder %q", fault.ErrValidation, name)
			}

			return match
		}

		return v
	})

	if firstErr != nil {
		return "", firstErr
	}

	return result, nil
}

// BuildArgv constructs the full ffmpeg argv for a catalog operation that
// does not require dynamic, probe-dependent filter construction.
func BuildArgv(op types.OperationSpec, values map[string]string, primaryInput, secondInput, outputPath string) ([]string, error) {
	pre, err := substituteTokens(op.PreInputArgs, values)
	if err != nil {
		return nil, err
	}

	body, err := substituteTokens(op.ArgsTemplate, values)
	if err != nil {
		return nil, err
	}

	argv := make([]string, 0, len(pre)+len(body)+6)
	argv = append(argv, pre...)
	argv = append(argv, "-i", primaryInput)

	if op.SecondInputParam != "" {
		argv = append(argv, "-i", secondInput)
	}

	argv = append(argv, body...)
	argv = append(argv, "-y", outputPath)

	return argv, nil
}

// isPortrait reports whether h > w, i.e. the frame is taller than it is wide.
func isPortrait(w, h int) bool {
	return h > w
}

// firstVideoDims returns the dimensions of info's first video stream, or
// (0, 0) if it has none.
func firstVideoDims(info types.MediaInfo) (int, int) {
	for _, s := range info.Streams {
		if s.CodecType == "video" {
			return s.Width, s.Height
		}
	}

	return 0, 0
}

// BuildConcatenateArgv implements concatenate_simple's orientation
// normalization rule (spec.md section 4.C): when the two inputs disagree
// on portrait vs. landscape, the target forces landscape derived from the
// primary's own dimensions (max side x min side); otherwise the target is
// simply the primary's own dimensions. Either way both inputs are scaled
// to that common target so a naive concat never silently stretches one
// clip to match the other's orientation.
func BuildConcatenateArgv(primaryInfo, secondInfo types.MediaInfo, primaryPath, secondPath, outputPath string) ([]string, error) {
	pw, ph := firstVideoDims(primaryInfo)
	sw, sh := firstVideoDims(secondInfo)

	if pw == 0 || sw == 0 {
		return nil, fmt.Errorf("%w: concatenate_simple requires a video stream in both inputs", fault.ErrValidation)
	}

	tw, th := pw, ph
	if isPortrait(pw, ph) != isPortrait(sw, sh) {
		tw, th = max(pw, ph), min(pw, ph)
	}

	filter := fmt.Sprintf(
		"[0:v]scale=%d:%d,setsar=1[v0];[1:v]scale=%d:%d,setsar=1[v1];[v0][0:a][v1][1:a]concat=n=2:v=1:a=1[v][a]",
		tw, th, tw, th,
	)

	return []string{
		"-i", primaryPath,
		"-i", secondPath,
		"-filter_complex", filter,
		"-map", "[v]", "-map", "[a]",
		"-c:v", "libx264", "-c:a", "aac",
		"-y", outputPath,
	}, nil
}

// BuildTransitionArgv builds the xfade-based argv shared by gradient_wipe
// (transition "wipeleft") and crossfade_transition (transition "fade").
// Both inputs are scaled to the primary's own dimensions, since the primary
// leads the composition and the transition hands off into the second clip.
func BuildTransitionArgv(
	xfadeTransition string,
	primaryInfo types.MediaInfo,
	primaryPath, secondPath, outputPath string,
	duration, offset float64,
) ([]string, error) {
	tw, th := firstVideoDims(primaryInfo)
	if tw == 0 {
		return nil, fmt.Errorf("%w: %s requires a video stream on the primary input", fault.ErrValidation, xfadeTransition)
	}

	filter := fmt.Sprintf(
		"[0:v]scale=%d:%d,setsar=1[v0];[1:v]scale=%d:%d,setsar=1[v1];[v0][v1]xfade=transition=%s:duration=%.3f:offset=%.3f[v]",
		tw, th, tw, th, xfadeTransition, duration, offset,
	)

	return []string{
		"-i", primaryPath,
		"-i", secondPath,
		"-filter_complex", filter,
		"-map", "[v]", "-map", "0:a",
		"-c:v", "libx264", "-c:a", "aac",
		"-y", outputPath,
	}, nil
}

// BuildOpacityArgv fades alpha over duration with ffmpeg's directional fade
// filter: a full fade-out (1 to 0) when opacityEnd < opacityStart, a full
// fade-in (0 to 1) otherwise. Only the direction of the two values is used;
// their levels are not applied.
func BuildOpacityArgv(opacityStart, opacityEnd, duration float64, primaryPath, outputPath string) []string {
	direction := "in"
	if opacityEnd < opacityStart {
		direction = "out"
	}

	vf := fmt.Sprintf("format=yuva420p,fade=t=%s:st=0:d=%.3f:alpha=1", direction, duration)

	return []string{
		"-i", primaryPath,
		"-vf", vf,
		"-c:a", "copy",
		"-y", outputPath,
	}
}
