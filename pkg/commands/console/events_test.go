package console

import (
	"testing"

	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/gantry-io/gantry/pkg/console/telemetry"
	"github.com/stretchr/testify/assert"
)

func Test_detail(t *testing.T) {
	created, err := model.ToEvent(model.SessionCreatedEvent, "abc123", map[string]string{
		"title":  "why is checkout slow?",
		"userId": "gantry-cli",
	})
	assert.Nil(t, err)
	assert.Equal(t, "why is checkout slow?", detail(created))

	blocked, err := model.ToEvent(model.CommandBlockedEvent, "abc123", map[string]string{
		"tool":    "gcloud",
		"command": "gcloud run services delete checkout",
		"reason":  "delete is not on the allowed command list",
	})
	assert.Nil(t, err)
	assert.Equal(t, "gcloud run services delete checkout", detail(blocked))

	run, err := model.ToEvent(model.AgentRunEvent, "abc123", telemetry.Run{Steps: 3, Status: "success"})
	assert.Nil(t, err)
	assert.Equal(t, "3 steps, success", detail(run))

	assert.Equal(t, "", detail(&model.Event{Type: model.AgentRunEvent, Blob: "not-json"}))
}
