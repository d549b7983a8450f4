package notifications

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

type BlockedCommandMessage struct {
	Tool      string
	Command   string
	Reason    string
	SessionID string
}

func MessageFromBlockedCommand(tool string, command string, reason string, sessionID string) Message {
	return &BlockedCommandMessage{
		Tool:      tool,
		Command:   command,
		Reason:    reason,
		SessionID: sessionID,
	}
}

func (bm *BlockedCommandMessage) AsSlackMessage() (*slackMessage, error) {
	msg := &slackMessage{
		Text:   "",
		Blocks: []Block{},
	}

	msg.Text = fmt.Sprintf("Blocked a %s command", bm.Tool)
	msg.Blocks = append(msg.Blocks,
		Block{
			Type: section,
			Text: &Text{
				Type: markdown,
				Text: fmt.Sprintf(":no_entry: The guardrails blocked a *%s* command.", bm.Tool),
			},
		},
	)
	msg.Blocks = append(msg.Blocks,
		Block{
			Type: section,
			Text: &Text{
				Type: markdown,
				Text: fmt.Sprintf("```%s```", bm.Command),
			},
		},
	)
	msg.Blocks = append(msg.Blocks,
		Block{
			Type: contextString,
			Elements: []Text{
				{
					Type: markdown,
					Text: fmt.Sprintf(":exclamation: %s  |  session `%s`", bm.Reason, bm.SessionID),
				},
			},
		},
	)

	return msg, nil
}

func (bm *BlockedCommandMessage) AsDiscordMessage() (*discordMessage, error) {
	msg := &discordMessage{
		Text: fmt.Sprintf("The guardrails blocked a %s command: `%s`", bm.Tool, bm.Command),
		Embed: &discordgo.MessageEmbed{
			Type:        "article",
			Description: bm.Reason,
			Color:       15158332,
		},
	}

	return msg, nil
}

func (bm *BlockedCommandMessage) Kind() string {
	return KindBlocked
}

func (bm *BlockedCommandMessage) CustomChannel() string {
	return ""
}

func (bm *BlockedCommandMessage) Silenced() bool {
	return false
}
