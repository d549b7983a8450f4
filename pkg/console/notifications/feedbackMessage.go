package notifications

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/gantry-io/gantry/pkg/console/model"
)

type FeedbackMessage struct {
	Feedback model.Feedback
}

func MessageFromFeedback(feedback model.Feedback) Message {
	return &FeedbackMessage{
		Feedback: feedback,
	}
}

func (fm *FeedbackMessage) AsSlackMessage() (*slackMessage, error) {
	msg := &slackMessage{
		Text:   "",
		Blocks: []Block{},
	}

	msg.Text = fmt.Sprintf("New feedback: %d/5", fm.Feedback.Score)
	msg.Blocks = append(msg.Blocks,
		Block{
			Type: section,
			Text: &Text{
				Type: markdown,
				Text: fmt.Sprintf("%s *%d/5* rating on session `%s`", scoreEmoji(fm.Feedback.Score), fm.Feedback.Score, fm.Feedback.SessionID),
			},
		},
	)

	if fm.Feedback.Text != "" {
		msg.Attachments = append(msg.Attachments,
			Attachment{
				Color: scoreColor(fm.Feedback.Score),
				Blocks: []Block{
					{
						Type: section,
						Text: &Text{
							Type: markdown,
							Text: fm.Feedback.Text,
						},
					},
				},
			},
		)
	}

	return msg, nil
}

func (fm *FeedbackMessage) AsDiscordMessage() (*discordMessage, error) {
	msg := &discordMessage{
		Text: fmt.Sprintf("New feedback: %d/5 on session %s", fm.Feedback.Score, fm.Feedback.SessionID),
		Embed: &discordgo.MessageEmbed{
			Type:        "article",
			Description: fm.Feedback.Text,
			Color:       3066993,
		},
	}

	if fm.Feedback.Score <= 2 {
		msg.Embed.Color = 15158332
	}

	return msg, nil
}

func (fm *FeedbackMessage) Kind() string {
	return KindFeedback
}

func (fm *FeedbackMessage) CustomChannel() string {
	return ""
}

func (fm *FeedbackMessage) Silenced() bool {
	return false
}

func scoreEmoji(score int) string {
	if score <= 2 {
		return ":disappointed:"
	}
	return ":star:"
}

func scoreColor(score int) string {
	if score <= 2 {
		return "#e74c3c"
	}
	return "#2ecc71"
}
