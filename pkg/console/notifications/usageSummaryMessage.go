package notifications

import (
	"fmt"
	"math"
	"time"

	"github.com/bwmarrin/discordgo"
)

type usageSummaryOpts struct {
	sessions      int
	runs          int
	blocked       int
	feedbackCount int
	averageScore  float64
	topTool       string
}

type usageSummaryMessage struct {
	opts usageSummaryOpts
}

func UsageSummary(
	sessions, runs, blocked int,
	feedbackCount int,
	averageScore float64,
	topTool string,
) Message {
	return &usageSummaryMessage{
		opts: usageSummaryOpts{
			sessions:      sessions,
			runs:          runs,
			blocked:       blocked,
			feedbackCount: feedbackCount,
			averageScore:  averageScore,
			topTool:       topTool,
		},
	}
}

func (us *usageSummaryMessage) AsSlackMessage() (*slackMessage, error) {
	t := time.Now()

	msg := &slackMessage{
		Blocks: []Block{
			{
				Type: header,
				Text: &Text{
					Type: "plain_text",
					Text: ":chart_with_upwards_trend:  Gantry weekly usage  :chart_with_upwards_trend:",
				},
			},
			{
				Type: contextString,
				Elements: []Text{
					{
						Type: markdown,
						Text: fmt.Sprintf("*%s %d, %d*  |  Gantry Console", t.Month().String(), t.Day(), t.Year()),
					},
				},
			},
			{
				Type: divider,
			},
			{
				Type: section,
				Text: &Text{
					Type: markdown,
					Text: ":speech_balloon: *SESSIONS* :speech_balloon:",
				},
			},
			{
				Type: section,
				Text: &Text{
					Type: markdown,
					Text: fmt.Sprintf("There were *%d* console sessions, and *%d* agent runs total.", us.opts.sessions, us.opts.runs),
				},
			},
		},
	}

	if us.opts.topTool != "" {
		msg.Blocks = append(msg.Blocks, Block{
			Type: section,
			Text: &Text{
				Type: markdown,
				Text: fmt.Sprintf(":trophy: *%s* was the most used tool.", us.opts.topTool),
			},
		})
	}

	msg.Blocks = append(msg.Blocks, Block{
		Type: divider,
	})
	msg.Blocks = append(msg.Blocks, Block{
		Type: section,
		Text: &Text{
			Type: markdown,
			Text: ":no_entry: *BLOCKED COMMANDS* :no_entry:",
		},
	})
	msg.Blocks = append(msg.Blocks, Block{
		Type: section,
		Text: &Text{
			Type: markdown,
			Text: fmt.Sprintf("The guardrails blocked *%d* commands.", us.opts.blocked),
		},
	})

	if us.opts.feedbackCount > 0 && !math.IsNaN(us.opts.averageScore) {
		msg.Blocks = append(msg.Blocks, Block{
			Type: divider,
		})
		msg.Blocks = append(msg.Blocks, Block{
			Type: section,
			Text: &Text{
				Type: markdown,
				Text: ":star: *FEEDBACK* :star:",
			},
		})
		msg.Blocks = append(msg.Blocks, Block{
			Type: section,
			Text: &Text{
				Type: markdown,
				Text: fmt.Sprintf("Received *%d* ratings, *%.1f/5* on average.", us.opts.feedbackCount, us.opts.averageScore),
			},
		})
	}

	return msg, nil
}

func (us *usageSummaryMessage) AsDiscordMessage() (*discordMessage, error) {
	text := fmt.Sprintf("Gantry weekly usage: %d sessions, %d agent runs, %d blocked commands.",
		us.opts.sessions, us.opts.runs, us.opts.blocked)

	description := ""
	if us.opts.topTool != "" {
		description = fmt.Sprintf("%s was the most used tool.", us.opts.topTool)
	}
	if us.opts.feedbackCount > 0 && !math.IsNaN(us.opts.averageScore) {
		description = fmt.Sprintf("%s Received %d ratings, %.1f/5 on average.", description, us.opts.feedbackCount, us.opts.averageScore)
	}

	msg := &discordMessage{
		Text: text,
		Embed: &discordgo.MessageEmbed{
			Type:        "article",
			Description: description,
			Color:       3066993,
		},
	}

	return msg, nil
}

func (us *usageSummaryMessage) Kind() string {
	return KindUsage
}

func (us *usageSummaryMessage) CustomChannel() string {
	return ""
}

func (us *usageSummaryMessage) Silenced() bool {
	return us.opts.sessions == 0 &&
		us.opts.runs == 0 &&
		us.opts.blocked == 0 &&
		us.opts.feedbackCount == 0
}
