package recipe

import "github.com/urfave/cli/v2"

var Command = cli.Command{
	Name:  "recipe",
	Usage: "Manages the console container recipe",
	Subcommands: []*cli.Command{
		&generateCmd,
		&lintCmd,
	},
}
