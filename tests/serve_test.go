package tests_test

import (
	"bufio"
	"encoding/json"
	"io"
	"os/exec"
	"testing"
	"time"

	"github.com/farcloser/komposer/tests/testutils"
)

// envelope mirrors internal/tool's NDJSON tool-call shape; duplicated here
// (rather than imported) because it is unexported there.
type envelope struct {
	Tool      string `json:"tool"`
	Arguments any    `json:"arguments"`
}

// callResult is the shape every tool call's JSON result shares: a success
// flag plus whatever payload keys that tool adds.
type callResult map[string]any

// serveSession is one live `serve` process, driven one NDJSON line at a
// time. A single process backs a single in-memory Registry, so a file_id
// a call returns resolves correctly in a later call on the same session —
// ids are random per process and never persist across separate
// invocations of the binary, so this interactive round trip is the only
// way to exercise a file_id handed from one tool call to the next.
type serveSession struct {
	t      *testing.T
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	reader *bufio.Scanner
}

func startServeSession(t *testing.T) *serveSession {
	t.Helper()

	tempRoot, metadataRoot, screenshotsRoot := testutils.WorkDirs()

	args := []string{
		"--source-root", testutils.FixtureDir(),
		"--temp-root", tempRoot,
		"--metadata-root", metadataRoot,
		"--screenshots-root", screenshotsRoot,
		"serve",
	}

	cmd := exec.Command(testutils.BinaryPath(), args...) //nolint:gosec // test exercises the built binary directly

	stdin, err := cmd.StdinPipe()
	if err != nil {
		t.Fatalf("opening stdin pipe: %v", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		t.Fatalf("opening stdout pipe: %v", err)
	}

	if err := cmd.Start(); err != nil {
		t.Fatalf("starting serve: %v", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	session := &serveSession{t: t, cmd: cmd, stdin: stdin, reader: scanner}

	t.Cleanup(func() {
		_ = session.stdin.Close()
		_ = session.cmd.Wait()
	})

	return session
}

// call writes one envelope and blocks for its matching response line.
func (s *serveSession) call(env envelope) callResult {
	s.t.Helper()

	line, err := json.Marshal(env)
	if err != nil {
		s.t.Fatalf("encoding envelope: %v", err)
	}

	if _, err := s.stdin.Write(append(line, '\n')); err != nil {
		s.t.Fatalf("writing envelope: %v", err)
	}

	type scanOutcome struct {
		res callResult
		err error
	}

	outcome := make(chan scanOutcome, 1)

	go func() {
		if !s.reader.Scan() {
			outcome <- scanOutcome{err: s.reader.Err()}

			return
		}

		var res callResult
		if err := json.Unmarshal(s.reader.Bytes(), &res); err != nil {
			outcome <- scanOutcome{err: err}

			return
		}

		outcome <- scanOutcome{res: res}
	}()

	select {
	case o := <-outcome:
		if o.err != nil {
			s.t.Fatalf("reading response to %s: %v", env.Tool, o.err)
		}

		return o.res
	case <-time.After(30 * time.Second):
		s.t.Fatalf("timed out waiting for response to %s", env.Tool)

		return nil
	}
}

func requireSuccess(t *testing.T, res callResult) {
	t.Helper()

	success, _ := res["success"].(bool)
	if !success {
		t.Fatalf("expected success:true, got %v", res)
	}
}

func fileIDByName(t *testing.T, res callResult, name string) string {
	t.Helper()

	files, ok := res["files"].([]any)
	if !ok {
		t.Fatalf("expected a files array in %v", res)
	}

	for _, f := range files {
		entry, ok := f.(map[string]any)
		if !ok {
			continue
		}

		if entry["name"] == name {
			id, _ := entry["id"].(string)

			return id
		}
	}

	t.Fatalf("no file named %q in %v", name, res)

	return ""
}

func TestServeListAndOperationsAndCleanup(t *testing.T) {
	session := startServeSession(t)

	requireSuccess(t, session.call(envelope{Tool: "list_files"}))
	requireSuccess(t, session.call(envelope{Tool: "get_available_operations"}))
	requireSuccess(t, session.call(envelope{Tool: "cleanup_temp_files"}))
}

func TestServeUnknownToolFailsWithoutEndingSession(t *testing.T) {
	session := startServeSession(t)

	failed := session.call(envelope{Tool: "not_a_real_tool"})

	success, _ := failed["success"].(bool)
	if success {
		t.Fatalf("expected success:false for an unknown tool, got %v", failed)
	}

	requireSuccess(t, session.call(envelope{Tool: "list_files"}))
}

func TestServeProcessFileUsesIDFromListFiles(t *testing.T) {
	session := startServeSession(t)

	listResult := session.call(envelope{Tool: "list_files"})
	requireSuccess(t, listResult)

	id := fileIDByName(t, listResult, testutils.SilentClip)

	processResult := session.call(envelope{
		Tool: "process_file",
		Arguments: map[string]any{
			"input_file_id":    id,
			"operation":        "trim",
			"output_extension": "mp4",
			"params":           "start=0 duration=1",
		},
	})

	requireSuccess(t, processResult)

	outputID, _ := processResult["output_file_id"].(string)
	if outputID == "" {
		t.Fatalf("expected an output_file_id, got %v", processResult)
	}

	generated := session.call(envelope{Tool: "list_generated_files"})
	requireSuccess(t, generated)

	cleanup := session.call(envelope{Tool: "cleanup_temp_files"})
	requireSuccess(t, cleanup)

	removed, _ := cleanup["removed"].(float64)
	if removed < 1 {
		t.Fatalf("expected at least one temp file removed, got %v", cleanup["removed"])
	}
}
