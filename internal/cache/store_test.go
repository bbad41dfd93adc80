package cache_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/farcloser/komposer/internal/cache"
)

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")

	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}

	store := cache.NewStore[string](t.TempDir(), "probe", time.Minute)

	if _, ok := store.Get(path); ok {
		t.Fatal("expected miss before first Put")
	}

	if err := store.Put(path, "payload-v1"); err != nil {
		t.Fatal(err)
	}

	got, ok := store.Get(path)
	if !ok || got != "payload-v1" {
		t.Fatalf("expected cache hit with payload-v1, got %q ok=%v", got, ok)
	}
}

func TestStoreInvalidatesOnMtimeChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")

	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}

	store := cache.NewStore[string](t.TempDir(), "probe", time.Minute)

	if err := store.Put(path, "stale"); err != nil {
		t.Fatal(err)
	}

	// Touch the file with a later mtime and different content/size.
	time.Sleep(10 * time.Millisecond)

	if err := os.WriteFile(path, []byte("hello, world"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, ok := store.Get(path); ok {
		t.Fatal("expected cache miss after file content/mtime changed")
	}
}

func TestStorePersistsAcrossInstances(t *testing.T) {
	sidecarDir := t.TempDir()
	dataDir := t.TempDir()
	path := filepath.Join(dataDir, "clip.mp4")

	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}

	first := cache.NewStore[int](sidecarDir, "scenes", time.Minute)
	if err := first.Put(path, 42); err != nil {
		t.Fatal(err)
	}

	second := cache.NewStore[int](sidecarDir, "scenes", time.Minute)

	got, ok := second.Get(path)
	if !ok || got != 42 {
		t.Fatalf("expected a fresh Store instance to read the sidecar, got %v ok=%v", got, ok)
	}
}
