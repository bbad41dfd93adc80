package executor

import (
	"strings"
	"testing"

	"github.com/farcloser/komposer/internal/catalog"
	"github.com/farcloser/komposer/internal/types"
)

func TestBuildArgvTrim(t *testing.T) {
	op, ok := catalog.Lookup("trim")
	if !ok {
		t.Fatal("trim missing from catalog")
	}

	values := map[string]string{"start": "1.5", "duration": "3"}

	argv, err := BuildArgv(op, values, "/src/in.mp4", "", "/tmp/out.mp4")
	if err != nil {
		t.Fatal(err)
	}

	joined := strings.Join(argv, " ")
	if !strings.Contains(joined, "-ss 1.5") || !strings.Contains(joined, "-i /src/in.mp4") || !strings.Contains(joined, "-t 3") {
		t.Fatalf("unexpected argv: %v", argv)
	}

	if argv[len(argv)-1] != "/tmp/out.mp4" || argv[len(argv)-2] != "-y" {
		t.Fatalf("expected trailing -y output, got %v", argv)
	}
}

func TestBuildArgvResizeInlinesBothPlaceholders(t *testing.T) {
	op, ok := catalog.Lookup("resize")
	if !ok {
		t.Fatal("resize missing from catalog")
	}

	values := map[string]string{"width": "1280", "height": "720"}

	argv, err := BuildArgv(op, values, "/src/in.mp4", "", "/tmp/out.mp4")
	if err != nil {
		t.Fatal(err)
	}

	found := false

	for _, a := range argv {
		if a == "scale=1280:720" {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected a single scale=1280:720 argv entry, got %v", argv)
	}
}

func TestBuildArgvMissingPlaceholderErrors(t *testing.T) {
	op, _ := catalog.Lookup("resize")

	if _, err := BuildArgv(op, map[string]string{"width": "1280"}, "/src/in.mp4", "", "/tmp/out.mp4"); err == nil {
		t.Fatal("expected error for missing height placeholder")
	}
}

func TestResolveOutputExtensionFixed(t *testing.T) {
	op, _ := catalog.Lookup("to_mp3")

	ext, err := resolveOutputExtension(op, "wav")
	if err != nil {
		t.Fatal(err)
	}

	if ext != "mp3" {
		t.Fatalf("expected fixed extension mp3 regardless of request, got %q", ext)
	}
}

func TestResolveOutputExtensionCallerChoiceRejectsDisallowed(t *testing.T) {
	op, _ := catalog.Lookup("resize")

	if _, err := resolveOutputExtension(op, "gif"); err == nil {
		t.Fatal("expected rejection of a disallowed extension")
	}
}

func TestBuildConcatenateArgvKeepsPrimaryDimsWhenOrientationsMatch(t *testing.T) {
	primary := types.MediaInfo{Streams: []types.StreamInfo{{CodecType: "video", Width: 1920, Height: 1080}}}
	second := types.MediaInfo{Streams: []types.StreamInfo{{CodecType: "video", Width: 1280, Height: 720}}}

	argv, err := BuildConcatenateArgv(primary, second, "/a.mp4", "/b.mp4", "/out.mp4")
	if err != nil {
		t.Fatal(err)
	}

	joined := strings.Join(argv, " ")
	if !strings.Contains(joined, "scale=1920:1080") {
		t.Fatalf("expected normalization to the primary's own dims (1920x1080), got %v", argv)
	}
}

func TestBuildConcatenateArgvForcesLandscapeFromPrimaryOnOrientationMismatch(t *testing.T) {
	primary := types.MediaInfo{Streams: []types.StreamInfo{{CodecType: "video", Width: 1080, Height: 1920}}}
	second := types.MediaInfo{Streams: []types.StreamInfo{{CodecType: "video", Width: 640, Height: 360}}}

	argv, err := BuildConcatenateArgv(primary, second, "/a.mp4", "/b.mp4", "/out.mp4")
	if err != nil {
		t.Fatal(err)
	}

	joined := strings.Join(argv, " ")
	if !strings.Contains(joined, "scale=1920:1080") {
		t.Fatalf("expected orientation mismatch to force landscape 1920x1080 from the primary, got %v", argv)
	}
}

func TestBuildConcatenateArgvRequiresVideoStreams(t *testing.T) {
	primary := types.MediaInfo{Streams: []types.StreamInfo{{CodecType: "audio"}}}
	second := types.MediaInfo{Streams: []types.StreamInfo{{CodecType: "video", Width: 640, Height: 480}}}

	if _, err := BuildConcatenateArgv(primary, second, "/a.mp4", "/b.mp4", "/out.mp4"); err == nil {
		t.Fatal("expected error when primary has no video stream")
	}
}

func TestResolveChainRefChain(t *testing.T) {
	results := []types.FileHandle{{ID: "file_aaaa"}, {ID: "file_bbbb"}}

	got, err := resolveChainRef("CHAIN", 2, results)
	if err != nil {
		t.Fatal(err)
	}

	if got != "file_bbbb" {
		t.Fatalf("expected CHAIN to resolve to the immediately preceding step, got %q", got)
	}
}

func TestResolveChainRefRejectsForwardReference(t *testing.T) {
	results := []types.FileHandle{{ID: "file_aaaa"}}

	if _, err := resolveChainRef("RESULT_2", 1, results); err == nil {
		t.Fatal("expected rejection of a forward reference")
	}
}

func TestResolveChainRefRejectsResultZero(t *testing.T) {
	results := []types.FileHandle{{ID: "file_aaaa"}}

	if _, err := resolveChainRef("RESULT_0", 1, results); err == nil {
		t.Fatal("expected rejection of RESULT_0: RESULT_k is 1-indexed")
	}
}

func TestResolveChainRefResultKIsOneIndexed(t *testing.T) {
	results := []types.FileHandle{{ID: "file_aaaa"}, {ID: "file_bbbb"}}

	got, err := resolveChainRef("RESULT_1", 2, results)
	if err != nil {
		t.Fatal(err)
	}

	if got != "file_aaaa" {
		t.Fatalf("expected RESULT_1 to resolve to step 1's output file_aaaa, got %q", got)
	}
}

func TestResolveChainRefChainAtStepZeroRejected(t *testing.T) {
	if _, err := resolveChainRef("CHAIN", 0, nil); err == nil {
		t.Fatal("expected rejection of CHAIN at step 0")
	}
}

func TestResolveChainRefPassesThroughLiteral(t *testing.T) {
	got, err := resolveChainRef("file_deadbeef", 3, nil)
	if err != nil {
		t.Fatal(err)
	}

	if got != "file_deadbeef" {
		t.Fatalf("expected literal handle id unchanged, got %q", got)
	}
}
