package connection

import (
	"github.com/urfave/cli/v2"
)

// Command is the CLI command group for the GitHub host connection.
var Command = cli.Command{
	Name:  "connection",
	Usage: "Manages the GitHub connection of the console",
	Subcommands: []*cli.Command{
		&verifyCmd,
	},
}
