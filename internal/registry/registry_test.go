package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/farcloser/komposer/internal/registry"
	"github.com/farcloser/komposer/internal/types"
)

func newTestRegistry(t *testing.T) (*registry.Registry, string, string) {
	t.Helper()

	srcRoot := t.TempDir()
	tempRoot := t.TempDir()

	cfg := registry.Config{
		SourceRoots: []string{srcRoot},
		TempRoot:    tempRoot,
		MaxFileSize: 1 << 20,
		AllowedExtensions: map[types.HandleClass][]string{
			types.ClassSource: {"mp4", "wav"},
		},
	}

	return registry.New(cfg), srcRoot, tempRoot
}

func TestListSourceFilesIsIdempotent(t *testing.T) {
	reg, srcRoot, _ := newTestRegistry(t)

	path := filepath.Join(srcRoot, "clip.mp4")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	first, err := reg.ListSourceFiles()
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != 1 {
		t.Fatalf("expected 1 source file, got %d", len(first))
	}

	second, err := reg.ListSourceFiles()
	if err != nil {
		t.Fatal(err)
	}

	if first[0].ID != second[0].ID {
		t.Fatalf("same path produced different ids: %s vs %s", first[0].ID, second[0].ID)
	}
}

func TestListSourceFilesSkipsDisallowedExtension(t *testing.T) {
	reg, srcRoot, _ := newTestRegistry(t)

	if err := os.WriteFile(filepath.Join(srcRoot, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	files, err := reg.ListSourceFiles()
	if err != nil {
		t.Fatal(err)
	}

	if len(files) != 0 {
		t.Fatalf("expected disallowed extension to be skipped, got %d files", len(files))
	}
}

func TestResolveVanished(t *testing.T) {
	reg, srcRoot, _ := newTestRegistry(t)

	path := filepath.Join(srcRoot, "clip.mp4")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	files, err := reg.ListSourceFiles()
	if err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	if _, err := reg.Resolve(files[0].ID); err == nil {
		t.Fatal("expected resolve of a vanished file to fail")
	}
}

func TestResolveAllocatedOutputInsideTempRoot(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	h, err := reg.AllocateOutput("mp4", types.ClassTemp)
	if err != nil {
		t.Fatal(err)
	}

	// A file written outside every configured root gets no handle, so only
	// the allocated handle can be resolved.
	outside := filepath.Join(t.TempDir(), "escaped.mp4")
	if err := os.WriteFile(outside, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(h.Path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	// The allocated path itself must resolve fine (it's under TempRoot).
	if _, err := reg.Resolve(h.ID); err != nil {
		t.Fatalf("expected freshly allocated handle to resolve: %v", err)
	}
}

func TestAllocateOutputRejectsSourceClass(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	if _, err := reg.AllocateOutput("mp4", types.ClassSource); err == nil {
		t.Fatal("expected AllocateOutput(ClassSource) to fail")
	}
}

func TestCleanupTempIsIdempotent(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	h, err := reg.AllocateOutput("mp4", types.ClassTemp)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(h.Path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	first, err := reg.CleanupTemp(0)
	if err != nil {
		t.Fatal(err)
	}

	if first != 1 {
		t.Fatalf("expected 1 file removed, got %d", first)
	}

	second, err := reg.CleanupTemp(0)
	if err != nil {
		t.Fatal(err)
	}

	if second != 0 {
		t.Fatalf("expected second cleanup to remove nothing, got %d", second)
	}
}
