package model

const SettingSlackToken = "slackToken"
const SettingDiscordToken = "discordToken"

// Setting is an operator secret kept encrypted at rest
type Setting struct {
	ID int64 `json:"id" meddler:"id,pk"`

	Key string `json:"key"  meddler:"key"`

	Value string `json:"-"  meddler:"value,encrypted"`
}
