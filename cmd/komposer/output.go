//nolint:wrapcheck
package main

import (
	"os"

	"github.com/farcloser/primordium/format"
	"github.com/urfave/cli/v3"
)

// emit renders a tool handler's result map through the requested formatter,
// the same format.GetFormatter/format.Data path the teacher's CLI used.
func emit(cmd *cli.Command, subject string, result map[string]any) error {
	formatter, err := format.GetFormatter(cmd.String("format"))
	if err != nil {
		return err
	}

	data := &format.Data{
		Object: subject,
		Meta:   result,
	}

	return formatter.PrintAll([]*format.Data{data}, os.Stdout)
}
