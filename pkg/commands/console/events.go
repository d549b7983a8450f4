package console

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/btubbs/datetime"
	"github.com/cenkalti/backoff/v4"
	"github.com/fatih/color"
	"github.com/gantry-io/gantry/pkg/client"
	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/gantry-io/gantry/pkg/console/telemetry"
	"github.com/rvflash/elapsed"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
)

var eventsCmd = cli.Command{
	Name:  "events",
	Usage: "Lists console events, optionally tailing them",
	UsageText: `gantry console events \
     --type "commandBlocked" \
     --since 2026-08-01 \
     --server https://console-xxxxx-ew.a.run.app
     --token c012367f6e6f71de17ae4c6a7baac2e9`,
	Action: events,
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
			Name:  "since",
			Usage: "the ISO8601 format date to return the events from (eg 2026-08-01, 2026-08-01T15:34:26+01:00)",
		},
		&cli.StringFlag{
			Name:  "type",
			Usage: "filter events by type, glob patterns work (eg \"agent*\")",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "limit the number of returned events",
		},
		&cli.BoolFlag{
			Name:    "follow",
			Aliases: []string{"f"},
			Usage:   "poll for new events after printing the existing ones",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format, eg.: json",
		},
	},
}

func events(c *cli.Context) error {
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

	var since *time.Time
	if c.String("since") != "" {
		t, err := datetime.Parse(c.String("since"), time.UTC)
		if err != nil {
			return fmt.Errorf("cannot parse since date %s", err)
		}
		since = &t
	}

	limit := c.Int("limit")
	if limit == 0 {
		limit = 20
	}

	events, err := client.EventsGet(since, limit, c.String("type"))
	if err != nil {
		return err
	}

	if c.String("output") == "json" {
		eventsStr := bytes.NewBufferString("")
		e := json.NewEncoder(eventsStr)
		e.SetIndent("", "  ")
		err = e.Encode(events)
		if err != nil {
			return fmt.Errorf("cannot serialize events %s", err)
		}
		fmt.Println(eventsStr)
		return nil
	}

	// the console returns the newest events first, tail style output
	// wants them in chronological order
	reverse(events)

	seen := map[string]bool{}
	for _, event := range events {
		printEvent(event)
		seen[event.ID] = true
	}

	if !c.Bool("follow") {
		return nil
	}

	// poll from the last printed event, the seen set absorbs the
	// same-second overlap of the created >= since query
	from := time.Now()
	if len(events) != 0 {
		from = time.Unix(events[len(events)-1].Created, 0)
	}

	for {
		time.Sleep(2 * time.Second)

		var fresh []*model.Event
		operation := func() error {
			var err error
			fresh, err = client.EventsGet(&from, limit, c.String("type"))
			return err
		}
		backoffStrategy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
		err := backoff.Retry(operation, backoffStrategy)
		if err != nil {
			return err
		}

		reverse(fresh)
		for _, event := range fresh {
			if seen[event.ID] {
				continue
			}
			printEvent(event)
			seen[event.ID] = true
			from = time.Unix(event.Created, 0)
		}
	}
}

func reverse(events []*model.Event) {
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
}

func printEvent(event *model.Event) {
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	created := time.Unix(event.Created, 0)

	fmt.Printf("%s %s %s %s\n",
		blue(event.Type),
		detail(event),
		gray(event.SessionID),
		green(fmt.Sprintf("(%s)", elapsed.Time(created))),
	)
}

// detail pulls a one line summary out of the typed event payloads.
func detail(event *model.Event) string {
	switch event.Type {
	case model.SessionCreatedEvent:
		var payload map[string]string
		if json.Unmarshal([]byte(event.Blob), &payload) == nil {
			return payload["title"]
		}
	case model.CommandBlockedEvent:
		var payload map[string]string
		if json.Unmarshal([]byte(event.Blob), &payload) == nil {
			return payload["command"]
		}
	case model.AgentRunEvent:
		var run telemetry.Run
		if json.Unmarshal([]byte(event.Blob), &run) == nil {
			return fmt.Sprintf("%d steps, %s", run.Steps, run.Status)
		}
	case model.FeedbackReceivedEvent:
		var feedback model.Feedback
		if json.Unmarshal([]byte(event.Blob), &feedback) == nil {
			return fmt.Sprintf("score %d", feedback.Score)
		}
	}
	return ""
}
