package vars

import (
	"fmt"

	"github.com/enescakir/emoji"
	"github.com/gantry-io/gantry/pkg/provision"
	"github.com/urfave/cli/v2"
)

var renderCmd = cli.Command{
	Name:  "render",
	Usage: "Renders the deployment bundle from a variables file",
	UsageText: `gantry vars render \
     --file env.tfvars \
     --env prod \
     --target deploy/`,
	Action: render,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Aliases:  []string{"f"},
			Usage:    "variables file to render from",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "env",
			Usage: "environment to render for",
			Value: "prod",
		},
		&cli.StringFlag{
			Name:    "target",
			Aliases: []string{"t"},
			Usage:   "directory to write the bundle to",
			Value:   ".",
		},
		&cli.BoolFlag{
			Name:  "commit",
			Usage: "commit the bundle if the target is a git repository",
		},
	},
}

func render(c *cli.Context) error {
	varSet, err := load(c.String("file"))
	if err != nil {
		return err
	}

	if violations := varSet.Validate(); len(violations) != 0 {
		for _, violation := range violations {
			fmt.Println(violation)
		}
		return fmt.Errorf("%d problems found, not rendering", len(violations))
	}

	target := c.String("target")
	err = provision.WriteBundle(varSet, c.String("env"), target)
	if err != nil {
		return err
	}
	fmt.Printf("%v Bundle written to %s\n", emoji.CheckMark, target)

	if c.Bool("commit") {
		hash, err := provision.CommitBundle(target)
		if err != nil {
			return err
		}
		fmt.Printf("%v Committed %s\n", emoji.CheckMark, hash)
	}

	return nil
}
