package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	c := &Config{}
	defaults(c)

	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, ":9001", c.MetricsAddr)
	assert.Equal(t, "sqlite", c.Database.Driver)
	assert.Equal(t, "gemini-2.0-flash-001", c.Model.Name)
	assert.Equal(t, "europe-west8", c.Model.Location)
	assert.Equal(t, 60, c.Agent.CommandTimeoutSeconds)
	assert.Equal(t, 8, c.Agent.MaxSteps)
	assert.Equal(t, 30, c.SessionRetentionDays)
}

func TestDefaultsKeepExplicitValues(t *testing.T) {
	c := &Config{}
	c.Addr = ":3000"
	c.Model.Location = "us-central1"
	c.Agent.MaxSteps = 16
	defaults(c)

	assert.Equal(t, ":3000", c.Addr)
	assert.Equal(t, "us-central1", c.Model.Location)
	assert.Equal(t, 16, c.Agent.MaxSteps)
}

func TestIsVertex(t *testing.T) {
	c := &Config{}
	assert.True(t, c.IsVertex())

	c.Model.APIKey = "a-gemini-api-key"
	assert.False(t, c.IsVertex())
}

func TestMultilineDecode(t *testing.T) {
	var m Multiline
	err := m.Decode("first line\\nsecond line")
	assert.Nil(t, err)
	assert.Equal(t, "first line\nsecond line", m.String())
}
