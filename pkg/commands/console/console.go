package console

import (
	"github.com/urfave/cli/v2"
)

// Command is the CLI command group that talks to a running console.
var Command = cli.Command{
	Name:  "console",
	Usage: "Talks to a running Gantry console",
	Subcommands: []*cli.Command{
		&askCmd,
		&sessionsCmd,
		&eventsCmd,
		&feedbackCmd,
		&statusCmd,
	},
}
