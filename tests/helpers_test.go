package tests_test

import (
	"fmt"
	"strings"

	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"
)

// expectContains returns a comparator verifying the output contains a substring.
func expectContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("expected substring %q not found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectSuccess returns a comparator verifying a tool result's success flag is true.
func expectSuccess() test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, `"success":true`) && !strings.Contains(stdout, `"success": true`) {
			testing.Log(fmt.Sprintf("expected success:true in output:\n%s", stdout))
			testing.Fail()
		}
	}
}

// expectFailure returns a comparator verifying a tool result's success flag is false.
func expectFailure() test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, `"success":false`) && !strings.Contains(stdout, `"success": false`) {
			testing.Log(fmt.Sprintf("expected success:false in output:\n%s", stdout))
			testing.Fail()
		}
	}
}
