package console

import (
	"fmt"

	"github.com/enescakir/emoji"
	"github.com/gantry-io/gantry/pkg/client"
	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
)

var feedbackCmd = cli.Command{
	Name:  "feedback",
	Usage: "Scores an agent session, the scores land in the weekly report",
	UsageText: `gantry console feedback \
     --session 9series-xxxx \
     --score 4 \
     --text "found the broken revision on the first try" \
     --server https://console-xxxxx-ew.a.run.app
     --token c012367f6e6f71de17ae4c6a7baac2e9`,
	Action: feedbackFunc,
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
			Name:     "session",
			Aliases:  []string{"s"},
			Usage:    "session to score",
			Required: true,
		},
		&cli.IntFlag{
			Name:     "score",
			Usage:    "score from 1 to 5",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "text",
			Usage: "free form remarks",
		},
		&cli.StringFlag{
			Name:  "invocation",
			Usage: "invocation the feedback belongs to",
		},
	},
}

func feedbackFunc(c *cli.Context) error {
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

	saved, err := client.FeedbackPost(&model.Feedback{
		SessionID:    c.String("session"),
		InvocationID: c.String("invocation"),
		Score:        c.Int("score"),
		Text:         c.String("text"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("%v Feedback recorded for session %s\n", emoji.CheckMark, saved.SessionID)
	return nil
}
