package console

import (
	"fmt"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	"github.com/enescakir/emoji"
	"github.com/gantry-io/gantry/pkg/agent"
	"github.com/gantry-io/gantry/pkg/client"
	"github.com/inancgumus/screen"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
)

var askCmd = cli.Command{
	Name:  "ask",
	Usage: "Asks the ops agent, it runs read-only cloud commands to answer",
	UsageText: `gantry console ask "why is the checkout service slow?" \
     --server https://console-xxxxx-ew.a.run.app
     --token c012367f6e6f71de17ae4c6a7baac2e9`,
	Action: ask,
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
			Name:    "session",
			Aliases: []string{"s"},
			Usage:   "session to continue, a new one is started without it",
		},
		&cli.BoolFlag{
			Name:  "plain",
			Usage: "print the transcript once at the end instead of redrawing the screen",
		},
	},
}

func ask(c *cli.Context) error {
	question := strings.Join(c.Args().Slice(), " ")
	if question == "" {
		return fmt.Errorf("ask needs a question, eg.: gantry console ask \"list my buckets\"")
	}

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

	plain := c.Bool("plain")
	transcript := &strings.Builder{}
	var runErr error

	sessionID, err := client.Ask(c.String("session"), question, func(event *agent.Event) {
		appendEvent(transcript, event)
		if event.Type == agent.EventError {
			runErr = fmt.Errorf("%s", event.Text)
		}
		if plain {
			return
		}
		screen.Clear()
		screen.MoveTopLeft()
		fmt.Println(string(markdown.Render(transcript.String(), 80, 2)))
	})
	if err != nil {
		return err
	}

	if plain {
		fmt.Println(string(markdown.Render(transcript.String(), 80, 2)))
	}
	if runErr != nil {
		return runErr
	}

	fmt.Printf("%v To follow up: gantry console ask -s %s \"..\"\n", emoji.SpeechBalloon, sessionID)
	return nil
}

func appendEvent(transcript *strings.Builder, event *agent.Event) {
	switch event.Type {
	case agent.EventPlan:
		transcript.WriteString("## Plan\n\n")
		for i, step := range event.Steps {
			fmt.Fprintf(transcript, "%d. %s\n", i+1, step)
		}
		transcript.WriteString("\n")
	case agent.EventStep:
		fmt.Fprintf(transcript, "\n### %s\n\n", event.Text)
	case agent.EventToolCall:
		fmt.Fprintf(transcript, "\n```\n$ %s\n```\n\n", event.Command)
	case agent.EventToolResult:
		fmt.Fprintf(transcript, "```\n%s\n```\n\n", tail(event.Result, 20))
	case agent.EventBlocked:
		fmt.Fprintf(transcript, "> %v %s\n\n", emoji.Warning, event.Result)
	case agent.EventDelta:
		transcript.WriteString(event.Text)
	case agent.EventDone:
		// a follow up turn streams the answer, then the done event repeats it
		if !strings.HasSuffix(strings.TrimSpace(transcript.String()), strings.TrimSpace(event.Text)) {
			fmt.Fprintf(transcript, "\n\n%s\n", event.Text)
		}
	case agent.EventError:
		fmt.Fprintf(transcript, "\n%v %s\n", emoji.CrossMark, event.Text)
	}
}

// tail keeps the last n lines of a command output, screen space is scarce
func tail(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	omitted := len(lines) - n
	return fmt.Sprintf("... %d lines omitted\n%s", omitted, strings.Join(lines[omitted:], "\n"))
}
