package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/enescakir/emoji"
	"github.com/fatih/color"
	"github.com/gantry-io/gantry/pkg/connection"
	"github.com/gantry-io/gantry/pkg/vars"
	"github.com/urfave/cli/v2"
)

var verifyCmd = cli.Command{
	Name:  "verify",
	Usage: "Verifies that the variables point at a reachable GitHub repository",
	UsageText: `gantry connection verify \
     -f prod.tfvars \
     --token $GANTRY_GITHUB_TOKEN`,
	Action: verify,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Aliases:  []string{"f"},
			Usage:    "variables file to verify (.tfvars or YAML)",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "token",
			Usage:    "GitHub personal access token, GANTRY_GITHUB_TOKEN environment variable alternatively",
			EnvVars:  []string{"GANTRY_GITHUB_TOKEN"},
			Required: true,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format, eg.: json",
		},
	},
}

func verify(c *cli.Context) error {
	varSet, err := loadVars(c.String("file"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	spinner := NewSpinner(fmt.Sprintf("Verifying %s/%s", varSet.RepositoryOwner, varSet.RepositoryName))
	report, err := connection.NewGithubVerifier().Verify(ctx, varSet, c.String("token"))
	if err != nil {
		return spinner.Fail(err)
	}
	spinner.Success()

	if c.String("output") == "json" {
		buf := bytes.NewBufferString("")
		e := json.NewEncoder(buf)
		e.SetIndent("", "  ")
		e.Encode(report)

		fmt.Println(buf.String())
	} else {
		printReport(report)
	}

	if !report.Healthy() {
		return fmt.Errorf("%d warnings found", len(report.Warnings))
	}

	return nil
}

func printReport(report *connection.Report) {
	visibility := "public"
	if report.Private {
		visibility = "private"
	}
	fmt.Printf("%v %s/%s, %s repository, default branch %s\n",
		emoji.Link,
		report.Owner,
		report.Name,
		visibility,
		color.New(color.Bold).Sprint(report.DefaultBranch),
	)

	if report.LatestCommit != nil {
		rollup := ""
		if report.LatestCommit.Rollup != "" {
			rollup = fmt.Sprintf(" (%s)", report.LatestCommit.Rollup)
		}
		fmt.Printf("   %.8s %s by %s%s\n",
			report.LatestCommit.SHA,
			report.LatestCommit.Message,
			report.LatestCommit.Author,
			rollup,
		)
	}

	for _, note := range report.Notes {
		fmt.Printf("%v %s\n", emoji.CheckMark, note)
	}
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	for _, warning := range report.Warnings {
		fmt.Printf("%v %s\n", emoji.Warning, red(warning))
	}
}

func loadVars(path string) (*vars.VarSet, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return vars.LoadYAML(path)
	default:
		return vars.LoadTfvars(path)
	}
}
