package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Environ returns the settings from the environment.
func Environ() (*Config, error) {
	cfg := Config{}
	err := envconfig.Process("", &cfg)
	defaults(&cfg)

	return &cfg, err
}

func defaults(c *Config) {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.MetricsAddr == "" {
		c.MetricsAddr = ":9001"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Config == "" {
		c.Database.Config = "gantry.sqlite"
	}
	if c.Model.Name == "" {
		c.Model.Name = "gemini-2.0-flash-001"
	}
	if c.Model.Location == "" {
		c.Model.Location = "europe-west8"
	}
	if c.Agent.CommandTimeoutSeconds == 0 {
		c.Agent.CommandTimeoutSeconds = 60
	}
	if c.Agent.MaxSteps == 0 {
		c.Agent.MaxSteps = 8
	}
	if c.Agent.MaxHelpBytes == 0 {
		c.Agent.MaxHelpBytes = 2000
	}
	if c.SessionRetentionDays == 0 {
		c.SessionRetentionDays = 30
	}
}

// String returns the configuration in string format.
func (c *Config) String() string {
	out, _ := yaml.Marshal(c)
	return string(out)
}

type Config struct {
	Logging              Logging
	Host                 string `envconfig:"HOST"`
	Addr                 string `envconfig:"ADDR"`
	MetricsAddr          string `envconfig:"METRICS_ADDR"`
	JWTSecret            string `envconfig:"JWT_SECRET"`
	Database             Database
	Model                Model
	Agent                Agent
	Notifications        Notifications
	VarsPath             string `envconfig:"VARS_PATH"`
	MinSDKVersion        string `envconfig:"MIN_SDK_VERSION"`
	SessionRetentionDays int    `envconfig:"SESSION_RETENTION_DAYS"`
}

type Database struct {
	Driver           string `envconfig:"DATABASE_DRIVER"`
	Config           string `envconfig:"DATABASE_CONFIG"`
	EncryptionKey    string `envconfig:"DATABASE_ENCRYPTION_KEY"`
	EncryptionKeyNew string `envconfig:"DATABASE_ENCRYPTION_KEY_NEW"`
}

// Logging provides the logging configuration.
type Logging struct {
	Debug  bool `envconfig:"DEBUG"`
	Trace  bool `envconfig:"TRACE"`
	Color  bool `envconfig:"LOGS_COLOR"`
	Pretty bool `envconfig:"LOGS_PRETTY"`
	Text   bool `envconfig:"LOGS_TEXT"`
}

// Model selects the backing model. Project and Location address Vertex AI,
// APIKey switches the client to the Gemini API instead.
type Model struct {
	Name     string `envconfig:"MODEL_NAME"`
	Project  string `envconfig:"MODEL_PROJECT"`
	Location string `envconfig:"MODEL_LOCATION"`
	APIKey   string `envconfig:"MODEL_API_KEY"`
}

type Agent struct {
	CommandTimeoutSeconds int `envconfig:"AGENT_COMMAND_TIMEOUT_SECONDS"`
	MaxSteps              int `envconfig:"AGENT_MAX_STEPS"`
	MaxHelpBytes          int `envconfig:"AGENT_MAX_HELP_BYTES"`

	// SystemPromptExtra is appended to every system prompt, so operators
	// can add org specific guidance without rebuilding the image.
	SystemPromptExtra Multiline `envconfig:"AGENT_SYSTEM_PROMPT_EXTRA"`
}

type Notifications struct {
	Provider       string `envconfig:"NOTIFICATIONS_PROVIDER"`
	Token          string `envconfig:"NOTIFICATIONS_TOKEN"`
	DefaultChannel string `envconfig:"NOTIFICATIONS_DEFAULT_CHANNEL"`
	ChannelMapping string `envconfig:"NOTIFICATIONS_CHANNEL_MAPPING"`
}

func (c *Config) IsVertex() bool {
	return c.Model.APIKey == ""
}

type Multiline string

func (m *Multiline) Decode(value string) error {
	value = strings.ReplaceAll(value, "\\n", "\n")
	*m = Multiline(value)
	return nil
}

func (m *Multiline) String() string {
	return string(*m)
}
