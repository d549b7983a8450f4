package recipe

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var lintCmd = cli.Command{
	Name:      "lint",
	Usage:     "Checks a recipe against the console's runtime needs",
	UsageText: `gantry recipe lint -c recipe.yaml`,
	Action:    lint,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "recipe file to lint, the built-in recipe is used when omitted",
		},
		&cli.StringFlag{
			Name:  "module-root",
			Usage: "module root for the entry command check",
			Value: ".",
		},
	},
}

func lint(c *cli.Context) error {
	r, err := loadRecipe(c.String("config"))
	if err != nil {
		return err
	}

	findings := r.Lint(c.String("module-root"))
	if len(findings) == 0 {
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s %s\n", green("OK"), r.Name)
		return nil
	}

	red := color.New(color.FgRed, color.Bold).SprintFunc()
	for _, finding := range findings {
		fmt.Printf("%s %s\n", red("ERROR"), finding)
	}
	return fmt.Errorf("%d problems found", len(findings))
}
