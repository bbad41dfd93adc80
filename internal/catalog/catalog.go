// Package catalog holds the static OperationSpec table for every operation
// the Executor is permitted to run (spec.md section 4.C). Operations are
// data, not Go functions: adding one means adding a table row, not a new
// code path.
package catalog

import "github.com/farcloser/komposer/internal/types"

var operations = []types.OperationSpec{
	{
		Name:            "convert",
		Description:     "Re-encode a file to the container implied by the requested output extension.",
		ExtensionPolicy: types.ExtensionCallerChoice,
		AllowedExtensions: []string{
			"mp4", "mov", "mkv", "webm", "avi", "mp3", "wav", "aac", "flac", "ogg",
		},
	},
	{
		Name:        "extract_audio",
		Description: "Drop the video stream, keeping only audio.",
		ArgsTemplate: []types.ArgToken{
			types.Lit("-vn"),
		},
		ExtensionPolicy:   types.ExtensionCallerChoice,
		AllowedExtensions: []string{"mp3", "wav", "aac", "flac", "ogg"},
	},
	{
		Name:        "trim",
		Description: "Cut [start, start+duration) out of the input.",
		Params: []types.ParamSpec{
			{Name: "start", Type: types.ParamDuration, Required: true},
			{Name: "duration", Type: types.ParamDuration, Required: true},
		},
		PreInputArgs: []types.ArgToken{
			types.Lit("-ss"), types.Ref("start"),
		},
		ArgsTemplate: []types.ArgToken{
			types.Lit("-t"), types.Ref("duration"),
			types.Lit("-c:v"), types.Lit("libx264"),
			types.Lit("-c:a"), types.Lit("aac"),
		},
		ExtensionPolicy:   types.ExtensionCallerChoice,
		AllowedExtensions: []string{"mp4", "mov", "mkv", "webm"},
	},
	{
		Name:        "resize",
		Description: "Scale video to an exact width x height, letterboxing is the caller's concern.",
		Params: []types.ParamSpec{
			{Name: "width", Type: types.ParamInteger, Required: true},
			{Name: "height", Type: types.ParamInteger, Required: true},
		},
		ArgsTemplate: []types.ArgToken{
			types.Lit("-vf"), refScale("width", "height"),
			types.Lit("-c:a"), types.Lit("copy"),
		},
		ExtensionPolicy:   types.ExtensionCallerChoice,
		AllowedExtensions: []string{"mp4", "mov", "mkv", "webm"},
	},
	{
		Name:        "reverse",
		Description: "Reverse both the video and audio streams.",
		ArgsTemplate: []types.ArgToken{
			types.Lit("-vf"), types.Lit("reverse"),
			types.Lit("-af"), types.Lit("areverse"),
		},
		ExtensionPolicy:   types.ExtensionCallerChoice,
		AllowedExtensions: []string{"mp4", "mov", "mkv", "webm"},
	},
	{
		Name:        "normalize_audio",
		Description: "Apply EBU R128 loudness normalization.",
		ArgsTemplate: []types.ArgToken{
			types.Lit("-af"), types.Lit("loudnorm"),
		},
		ExtensionPolicy:   types.ExtensionCallerChoice,
		AllowedExtensions: []string{"mp4", "mov", "mkv", "webm", "mp3", "wav", "aac", "flac"},
	},
	{
		Name:        "to_mp3",
		Description: "Extract audio and encode it as MP3.",
		ArgsTemplate: []types.ArgToken{
			types.Lit("-vn"),
			types.Lit("-acodec"), types.Lit("libmp3lame"),
		},
		ExtensionPolicy: types.ExtensionFixed,
		FixedExtension:  "mp3",
	},
	{
		Name:        "replace_audio",
		Description: "Keep the primary input's video, replacing its audio with audio_file's.",
		Params: []types.ParamSpec{
			{Name: "audio_file", Type: types.ParamFileHandle, Required: true},
		},
		SecondInputParam: "audio_file",
		ArgsTemplate: []types.ArgToken{
			types.Lit("-map"), types.Lit("0:v:0"),
			types.Lit("-map"), types.Lit("1:a:0"),
			types.Lit("-c:v"), types.Lit("copy"),
			types.Lit("-shortest"),
		},
		ExtensionPolicy:   types.ExtensionCallerChoice,
		AllowedExtensions: []string{"mp4", "mov", "mkv", "webm"},
	},
	{
		Name:        "concatenate_simple",
		Description: "Join the primary input and second_video end to end, normalizing orientation first.",
		Params: []types.ParamSpec{
			{Name: "second_video", Type: types.ParamFileHandle, Required: true},
		},
		SecondInputParam: "second_video",
		// argv is built dynamically by the Executor: orientation
		// normalization (scale+setsar to a target taken from the primary
		// input, landscape when the two orientations differ) requires
		// probing both inputs' dimensions, which a static template cannot
		// express.
		ExtensionPolicy:   types.ExtensionCallerChoice,
		AllowedExtensions: []string{"mp4", "mov", "mkv", "webm"},
	},
	{
		Name:        "image_to_video",
		Description: "Loop a still image into a fixed-duration silent video.",
		Params: []types.ParamSpec{
			{Name: "duration", Type: types.ParamDuration, Required: true},
		},
		PreInputArgs: []types.ArgToken{
			types.Lit("-loop"), types.Lit("1"),
		},
		ArgsTemplate: []types.ArgToken{
			types.Lit("-t"), types.Ref("duration"),
			types.Lit("-pix_fmt"), types.Lit("yuv420p"),
		},
		ExtensionPolicy:   types.ExtensionCallerChoice,
		AllowedExtensions: []string{"mp4", "mov", "mkv", "webm"},
	},
	{
		Name:        "gradient_wipe",
		Description: "Transition from the primary input into second_video with a wipe.",
		Params: []types.ParamSpec{
			{Name: "second_video", Type: types.ParamFileHandle, Required: true},
			{Name: "duration", Type: types.ParamDuration, Required: true},
			{Name: "offset", Type: types.ParamDuration, Required: true},
		},
		SecondInputParam:  "second_video",
		ExtensionPolicy:   types.ExtensionCallerChoice,
		AllowedExtensions: []string{"mp4", "mov", "mkv", "webm"},
	},
	{
		Name:        "crossfade_transition",
		Description: "Transition from the primary input into second_video with a crossfade.",
		Params: []types.ParamSpec{
			{Name: "second_video", Type: types.ParamFileHandle, Required: true},
			{Name: "duration", Type: types.ParamDuration, Required: true},
			{Name: "offset", Type: types.ParamDuration, Required: true},
		},
		SecondInputParam:  "second_video",
		ExtensionPolicy:   types.ExtensionCallerChoice,
		AllowedExtensions: []string{"mp4", "mov", "mkv", "webm"},
	},
	{
		Name:        "opacity_transition",
		Description: "Fade the primary input's alpha fully in (0 to 1) over duration, or fully out (1 to 0) when opacity_end is below opacity_start; the two values set only the direction.",
		Params: []types.ParamSpec{
			{Name: "opacity_start", Type: types.ParamFloat, Required: true},
			{Name: "opacity_end", Type: types.ParamFloat, Required: true},
			{Name: "duration", Type: types.ParamDuration, Required: true},
		},
		ExtensionPolicy:   types.ExtensionCallerChoice,
		AllowedExtensions: []string{"mp4", "mov", "mkv", "webm"},
	},
}

// refScale builds the "scale=<width>:<height>" filter token as one literal
// carrying "${width}"/"${height}" markers, which the Executor fills in at
// argv-build time, rather than two independent tokens, since the
// Executor's substitution pass replaces one ArgToken with exactly one argv
// entry.
func refScale(width, height string) types.ArgToken {
	return types.ArgToken{Literal: "scale=${" + width + "}:${" + height + "}"}
}

// byName indexes operations for O(1) Lookup.
var byName = func() map[string]types.OperationSpec {
	m := make(map[string]types.OperationSpec, len(operations))
	for _, op := range operations {
		m[op.Name] = op
	}

	return m
}()

// Lookup returns the OperationSpec registered under name.
func Lookup(name string) (types.OperationSpec, bool) {
	op, ok := byName[name]

	return op, ok
}

// Names returns every whitelisted operation name, in catalog order.
func Names() []string {
	names := make([]string, len(operations))
	for i, op := range operations {
		names[i] = op.Name
	}

	return names
}

// All returns the full catalog, in declaration order.
func All() []types.OperationSpec {
	return operations
}
