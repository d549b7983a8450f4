package console

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/enescakir/emoji"
	"github.com/fatih/color"
	"github.com/gantry-io/gantry/pkg/client"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"
)

var statusCmd = cli.Command{
	Name:  "status",
	Usage: "Shows the console version, its tool preflight and the variable set it runs with",
	UsageText: `gantry console status \
     --server https://console-xxxxx-ew.a.run.app
     --token c012367f6e6f71de17ae4c6a7baac2e9`,
	Action: status,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "server",
			Usage:    "Console URL, GANTRY_SERVER environment variable alternatively",
			EnvVars:  []string{"GANTRY_SERVER"},
			Required: true,
		},
		&cli.StringFlag{
			Name:     "token",
			Usage:    "Console api token, GANTRY_TOKEN environment variable alternatively",
			EnvVars:  []string{"GANTRY_TOKEN"},
			Required: true,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format, eg.: json",
		},
	},
}

func status(c *cli.Context) error {
	serverURL := c.String("server")
	token := c.String("token")

	config := new(oauth2.Config)
	auth := config.Client(
		oauth2.NoContext,
		&oauth2.Token{
			AccessToken: token,
		},
	)

	client := client.NewClient(serverURL, auth)

	consoleVersion, err := client.VersionGet()
	if err != nil {
		return err
	}
	preflight, err := client.PreflightGet()
	if err != nil {
		return err
	}
	varSet, err := client.VarsGet()
	if err != nil {
		return err
	}

	if c.String("output") == "json" {
		statusStr := bytes.NewBufferString("")
		e := json.NewEncoder(statusStr)
		e.SetIndent("", "  ")
		err = e.Encode(map[string]interface{}{
			"version":   consoleVersion,
			"preflight": preflight,
			"vars":      varSet,
		})
		if err != nil {
			return fmt.Errorf("cannot serialize status %s", err)
		}
		fmt.Println(statusStr)
		return nil
	}

	fmt.Printf("%v Gantry console %s in %s\n", emoji.Rocket, consoleVersion, varSet.Region)
	fmt.Println()

	tools := make([]string, 0, len(preflight.Tools))
	for tool := range preflight.Tools {
		tools = append(tools, tool)
	}
	sort.Strings(tools)
	for _, tool := range tools {
		if preflight.Tools[tool] {
			fmt.Printf("%v %s\n", emoji.CheckMark, tool)
		} else {
			fmt.Printf("%v %s is not on the PATH\n", emoji.CrossMark, tool)
		}
	}
	if preflight.SDKVersion != "" {
		if preflight.UpToDate {
			fmt.Printf("%v Cloud SDK %s\n", emoji.CheckMark, preflight.SDKVersion)
		} else {
			fmt.Printf("%v Cloud SDK %s is older than the required %s\n", emoji.Warning, preflight.SDKVersion, preflight.MinSDKVersion)
		}
	}
	if preflight.Error != "" {
		red := color.New(color.FgRed, color.Bold).SprintFunc()
		fmt.Printf("%v %s\n", emoji.Warning, red(preflight.Error))
	}

	// the console redacts sensitive values before they reach the wire
	varsString, err := yaml.Marshal(varSet)
	if err != nil {
		return fmt.Errorf("cannot serialize variables %s", err)
	}
	fmt.Println()
	fmt.Print(string(varsString))

	return nil
}
