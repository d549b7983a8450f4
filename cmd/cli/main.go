package main

import (
	"fmt"
	"os"

	"github.com/enescakir/emoji"
	"github.com/gantry-io/gantry/pkg/commands/connection"
	"github.com/gantry-io/gantry/pkg/commands/console"
	"github.com/gantry-io/gantry/pkg/commands/recipe"
	"github.com/gantry-io/gantry/pkg/commands/vars"
	"github.com/gantry-io/gantry/pkg/version"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:                 "gantry",
		Version:              version.String(),
		Usage:                "an AI ops console for Google Cloud projects",
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			&vars.Command,
			&recipe.Command,
			&connection.Command,
			&console.Command,
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", emoji.CrossMark, err.Error())
		os.Exit(1)
	}
}
