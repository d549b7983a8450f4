package notifications

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

type DiscordProvider struct {
	Token          string
	ChannelID      string
	ChannelMapping map[string]string
}

type discordMessage struct {
	Text  string                  `json:"text"`
	Embed *discordgo.MessageEmbed `json:"embed"`
}

func (s *DiscordProvider) send(msg Message) error {
	discordBot, err := discordgo.New("Bot " + s.Token)
	if err != nil {
		return fmt.Errorf("error creating Discord session, %s", err)
	}

	discordMessage, err := msg.AsDiscordMessage()
	if err != nil {
		return fmt.Errorf("cannot create discord message: %s", err)
	}

	if discordMessage == nil {
		return nil
	}

	channel := s.ChannelID
	if msg.CustomChannel() != "" {
		channel = msg.CustomChannel()
	} else if ch, ok := s.ChannelMapping[msg.Kind()]; ok {
		channel = ch
	}

	return s.post(discordBot, channel, discordMessage)
}

func (s *DiscordProvider) post(d *discordgo.Session, channel string, msg *discordMessage) error {
	_, err := d.ChannelMessageSend(channel, msg.Text)
	if err != nil {
		return err
	}

	if msg.Embed != nil {
		_, err = d.ChannelMessageSendEmbed(channel, msg.Embed)
		if err != nil {
			return err
		}
	}

	return nil
}
