package vars

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/gantry-io/gantry/pkg/vars"
	"github.com/urfave/cli/v2"
)

var lintCmd = cli.Command{
	Name:      "lint",
	Usage:     "Lints a variables file",
	UsageText: `gantry vars lint -f env.tfvars`,
	Action:    lint,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Aliases:  []string{"f"},
			Usage:    "variables file to lint",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "variables-file",
			Usage: "variables.tf to check the built-in catalog against",
		},
	},
}

func lint(c *cli.Context) error {
	varSet, err := load(c.String("file"))
	if err != nil {
		return err
	}

	if declarationsPath := c.String("variables-file"); declarationsPath != "" {
		body, err := os.ReadFile(declarationsPath)
		if err != nil {
			return fmt.Errorf("cannot read %s: %s", declarationsPath, err)
		}
		declared, err := vars.ParseDeclarations(body)
		if err != nil {
			return err
		}
		yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
		for _, drift := range vars.Drift(declared) {
			fmt.Printf("%s %s\n", yellow("DRIFT"), drift)
		}
	}

	violations := varSet.Validate()
	if len(violations) == 0 {
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s %s\n", green("OK"), c.String("file"))
		return nil
	}

	red := color.New(color.FgRed, color.Bold).SprintFunc()
	for _, violation := range violations {
		fmt.Printf("%s %s\n", red("ERROR"), violation)
	}
	return fmt.Errorf("%d problems found", len(violations))
}

func load(path string) (*vars.VarSet, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return vars.LoadYAML(path)
	default:
		return vars.LoadTfvars(path)
	}
}
