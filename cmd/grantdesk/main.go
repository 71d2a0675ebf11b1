// Command grantdesk is the grant request approval dashboard.
package main

import (
	"os"

	"github.com/rshade/grantdesk/internal/cli"
	"github.com/rshade/grantdesk/pkg/version"
)

func run() error {
	return cli.NewRootCmd(version.GetVersion()).Execute()
}

// exitCode maps a command error onto the process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

func main() {
	os.Exit(exitCode(run()))
}
