package recipe

import (
	"fmt"
	"os"

	"github.com/enescakir/emoji"
	"github.com/gantry-io/gantry/pkg/commands"
	"github.com/gantry-io/gantry/pkg/recipe"
	"github.com/urfave/cli/v2"
)

var generateCmd = cli.Command{
	Name:      "generate",
	Usage:     "Generates the Dockerfile from a recipe",
	UsageText: `gantry recipe generate -o Dockerfile`,
	Action:    generateFunc,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "recipe file, the built-in recipe is used when omitted",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "write the Dockerfile to a file instead of stdout",
		},
	},
}

func generateFunc(c *cli.Context) error {
	r, err := loadRecipe(c.String("config"))
	if err != nil {
		return err
	}

	rendered, err := r.RenderString()
	if err != nil {
		return err
	}

	if output := c.String("output"); output != "" {
		err = os.WriteFile(output, []byte(rendered), commands.File_RW_RW_R)
		if err != nil {
			return fmt.Errorf("cannot write %s: %s", output, err)
		}
		fmt.Printf("%v Wrote %s\n", emoji.CheckMark, output)
		return nil
	}

	fmt.Print(rendered)
	return nil
}

func loadRecipe(path string) (*recipe.Recipe, error) {
	if path == "" {
		return recipe.Default(), nil
	}
	return recipe.LoadFile(path)
}
