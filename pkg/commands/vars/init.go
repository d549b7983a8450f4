package vars

import (
	"bytes"
	"fmt"
	"os"

	"github.com/enescakir/emoji"
	"github.com/gantry-io/gantry/pkg/commands"
	"github.com/gantry-io/gantry/pkg/vars"
	"github.com/urfave/cli/v2"
)

var initCmd = cli.Command{
	Name:      "init",
	Usage:     "Writes a starter variables file",
	UsageText: `gantry vars init`,
	Action:    initFunc,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "path of the variables file to write",
		},
		&cli.BoolFlag{
			Name:  "tfvars",
			Usage: "write HCL tfvars instead of YAML",
		},
	},
}

func initFunc(c *cli.Context) error {
	path := c.String("file")
	if path == "" {
		path = "gantry.vars.yaml"
		if c.Bool("tfvars") {
			path = "env.tfvars"
		}
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	var content []byte
	if c.Bool("tfvars") {
		buf := new(bytes.Buffer)
		err := vars.Default().WriteTfvars(buf)
		if err != nil {
			return err
		}
		content = buf.Bytes()
	} else {
		content = starterYAML()
	}

	err := os.WriteFile(path, content, commands.File_RW_RW_R)
	if err != nil {
		return fmt.Errorf("cannot write %s: %s", path, err)
	}

	fmt.Printf("%v Wrote %s, fill in the empty variables\n", emoji.CheckMark, path)
	return nil
}

func starterYAML() []byte {
	buf := bytes.NewBufferString("---\n")
	defaults := vars.Default()
	for _, decl := range vars.Catalog() {
		fmt.Fprintf(buf, "# %s\n", decl.Description)
		value, _ := defaults.Value(decl.Name)
		if decl.Type == "bool" {
			fmt.Fprintf(buf, "%s: %t\n", decl.Name, value)
		} else {
			fmt.Fprintf(buf, "%s: %q\n", decl.Name, value)
		}
	}
	return buf.Bytes()
}
