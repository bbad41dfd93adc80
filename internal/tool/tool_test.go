package tool_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/farcloser/komposer"
	"github.com/farcloser/komposer/internal/executor"
	"github.com/farcloser/komposer/internal/probe"
	"github.com/farcloser/komposer/internal/registry"
	"github.com/farcloser/komposer/internal/tool"
	"github.com/farcloser/komposer/internal/types"
)

func newTestService(t *testing.T) (*tool.Service, string, string) {
	t.Helper()

	srcRoot := t.TempDir()
	tempRoot := t.TempDir()
	metaRoot := t.TempDir()

	reg := registry.New(registry.Config{
		SourceRoots: []string{srcRoot},
		TempRoot:    tempRoot,
		MaxFileSize: 1 << 20,
		AllowedExtensions: map[types.HandleClass][]string{
			types.ClassSource: {"mp4", "wav"},
		},
	})

	probes := probe.New(metaRoot, 5*time.Minute)
	exec := executor.New(reg, probes, 30*time.Second)

	svc := tool.New(reg, probes, exec, nil, nil, nil, []string{srcRoot}, t.TempDir(), komposer.DefaultOptions())

	return svc, srcRoot, tempRoot
}

func TestListFilesReportsRegisteredSources(t *testing.T) {
	svc, srcRoot, _ := newTestService(t)

	if err := os.WriteFile(filepath.Join(srcRoot, "clip.mp4"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	out := svc.ListFiles()

	if out["success"] != true {
		t.Fatalf("expected success, got %v", out)
	}

	files, ok := out["files"].([]any)
	if !ok || len(files) != 1 {
		t.Fatalf("expected 1 file, got %v", out["files"])
	}
}

func TestListGeneratedFilesReportsTotalCount(t *testing.T) {
	svc, _, _ := newTestService(t)

	out := svc.ListGeneratedFiles()

	if out["total_count"] != 0 {
		t.Fatalf("expected total_count=0 on a fresh registry, got %v", out["total_count"])
	}
}

func TestCleanupTempFilesReportsRemovedCount(t *testing.T) {
	svc, _, _ := newTestService(t)

	out := svc.CleanupTempFiles()

	if out["success"] != true {
		t.Fatalf("expected success, got %v", out)
	}

	if out["removed"] != 0 {
		t.Fatalf("expected removed=0, got %v", out["removed"])
	}
}

func TestGetAvailableOperationsListsCatalogEntries(t *testing.T) {
	svc, _, _ := newTestService(t)

	out := svc.GetAvailableOperations()

	ops, ok := out["operations"].([]any)
	if !ok || len(ops) == 0 {
		t.Fatalf("expected a non-empty operations list, got %v", out["operations"])
	}

	found := false

	for _, raw := range ops {
		op, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		if op["name"] == "trim" {
			found = true

			break
		}
	}

	if !found {
		t.Fatal("expected catalog to include the \"trim\" operation")
	}
}

func TestProcessFileRejectsUnknownOperation(t *testing.T) {
	svc, _, _ := newTestService(t)

	out := svc.ProcessFile(context.Background(), "file_deadbeef", "not_a_real_operation", "mp4", "")

	if out["success"] != false {
		t.Fatalf("expected failure, got %v", out)
	}

	if out["error_kind"] != "validation_error" {
		t.Fatalf("expected error_kind=validation_error, got %v", out["error_kind"])
	}
}

func TestBatchProcessRejectsForwardReference(t *testing.T) {
	svc, _, _ := newTestService(t)

	ops := []tool.BatchOperation{
		{InputFileID: "RESULT_5", Operation: "convert", OutputExtension: "mp4"},
	}

	out := svc.BatchProcess(context.Background(), ops)

	if out["success"] != false {
		t.Fatalf("expected failure for a forward RESULT_k reference, got %v", out)
	}
}

func TestGetFileInfoRejectsUnknownHandle(t *testing.T) {
	svc, _, _ := newTestService(t)

	out := svc.GetFileInfo(context.Background(), "file_00000000")

	if out["success"] != false {
		t.Fatalf("expected failure for an unregistered handle, got %v", out)
	}

	if out["error_kind"] != "not_found" {
		t.Fatalf("expected error_kind=not_found, got %v", out["error_kind"])
	}
}
