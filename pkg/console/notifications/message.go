package notifications

// Message kinds route messages to channels via the provider's ChannelMapping.
const (
	KindFeedback = "feedback"
	KindBlocked  = "blocked"
	KindUsage    = "usage"
)

type Message interface {
	AsSlackMessage() (*slackMessage, error)
	AsDiscordMessage() (*discordMessage, error)
	Kind() string
	CustomChannel() string
	Silenced() bool
}
