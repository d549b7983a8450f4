package console

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/gantry-io/gantry/pkg/client"
	"github.com/rvflash/elapsed"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
)

var sessionsCmd = cli.Command{
	Name:  "sessions",
	Usage: "Lists the recent agent sessions",
	UsageText: `gantry console sessions \
     --server https://console-xxxxx-ew.a.run.app
     --token c012367f6e6f71de17ae4c6a7baac2e9`,
	Action: sessions,
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
		&cli.IntFlag{
			Name:  "limit",
			Usage: "limit the number of returned sessions",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format, eg.: json",
		},
	},
}

func sessions(c *cli.Context) error {
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

	limit := c.Int("limit")
	if limit == 0 {
		limit = 10
	}

	sessions, err := client.SessionsGet(limit)
	if err != nil {
		return err
	}

	if c.String("output") == "json" {
		sessionsStr := bytes.NewBufferString("")
		e := json.NewEncoder(sessionsStr)
		e.SetIndent("", "  ")
		err = e.Encode(sessions)
		if err != nil {
			return fmt.Errorf("cannot serialize sessions %s", err)
		}
		fmt.Println(sessionsStr)
		return nil
	}

	blue := color.New(color.FgBlue, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	for _, session := range sessions {
		created := time.Unix(session.Created, 0)

		fmt.Printf("%s %s %s %s\n",
			blue(session.SessionID),
			session.Title,
			gray(session.UserID),
			green(fmt.Sprintf("(%s)", elapsed.Time(created))),
		)
	}

	return nil
}
