package vars

import "github.com/urfave/cli/v2"

var Command = cli.Command{
	Name:  "vars",
	Usage: "Manages the deployment variable set",
	Subcommands: []*cli.Command{
		&initCmd,
		&lintCmd,
		&renderCmd,
	},
}
