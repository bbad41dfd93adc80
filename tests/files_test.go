package tests_test

import (
	"testing"

	"github.com/containerd/nerdctl/mod/tigron/expect"
	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/komposer/tests/testutils"
)

func TestFilesCLI(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "list-files reports the registered source fixtures",
			Command: func(_ test.Data, helpers test.Helpers) test.TestableCommand {
				args := append(testutils.GlobalArgs(), "list-files")

				return helpers.Command(args...)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectSuccess(),
						expectContains(testutils.SilentClip),
						expectContains(testutils.ToneClip),
					),
				}
			},
		},
		{
			Description: "list-files --generated succeeds on a fresh registry",
			Command: func(_ test.Data, helpers test.Helpers) test.TestableCommand {
				args := append(testutils.GlobalArgs(), "list-files", "--generated")

				return helpers.Command(args...)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectSuccess(),
				}
			},
		},
		{
			Description: "operations lists the catalog",
			Command: func(_ test.Data, helpers test.Helpers) test.TestableCommand {
				args := append(testutils.GlobalArgs(), "operations")

				return helpers.Command(args...)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectSuccess(),
						expectContains("trim"),
						expectContains("concatenate_simple"),
					),
				}
			},
		},
		{
			Description: "probe a nonexistent handle fails",
			Command: func(_ test.Data, helpers test.Helpers) test.TestableCommand {
				args := append(testutils.GlobalArgs(), "probe", "file_00000000")

				return helpers.Command(args...)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectFailure(),
				}
			},
		},
		{
			Description: "cleanup succeeds with nothing registered",
			Command: func(_ test.Data, helpers test.Helpers) test.TestableCommand {
				args := append(testutils.GlobalArgs(), "cleanup")

				return helpers.Command(args...)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectSuccess(),
				}
			},
		},
	}

	testCase.Run(t)
}
