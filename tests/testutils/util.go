// Package testutils provides test infrastructure for komposer integration tests.
package testutils

import (
	"path/filepath"
	"runtime"

	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/agar/pkg/agar"
)

// Setup creates a test case configured to run the komposer binary.
func Setup() *test.Case {
	return agar.Setup(BinaryPath())
}

// BinaryPath returns the path to the komposer binary a dev build places
// under bin/, for tests that need to exec it directly rather than through
// a *test.Case.
func BinaryPath() string {
	_, thisFile, _, _ := runtime.Caller(0) //nolint:dogsled // runtime.Caller returns 4 values, only file is needed
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))

	return filepath.Join(projectRoot, "bin", "komposer")
}
