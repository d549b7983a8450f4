package commands

import (
	"github.com/urfave/cli/v2"
)

const File_RW_RW_R = 0664

// Run runs a command with the given arguments, the way the gantry binary would
func Run(cmd *cli.Command, args []string) error {
	app := &cli.App{
		Name:     "gantry",
		Commands: []*cli.Command{cmd},
	}
	return app.Run(args)
}
