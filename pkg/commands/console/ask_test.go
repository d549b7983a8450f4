package console

import (
	"strings"
	"testing"

	"github.com/gantry-io/gantry/pkg/agent"
	"github.com/stretchr/testify/assert"
)

func Test_transcript(t *testing.T) {
	transcript := &strings.Builder{}

	appendEvent(transcript, &agent.Event{Type: agent.EventPlan, Steps: []string{"Check the traffic split", "Check the logs"}})
	appendEvent(transcript, &agent.Event{Type: agent.EventStep, Step: 1, TotalSteps: 2, Text: "Step 1/2: Check the traffic split"})
	appendEvent(transcript, &agent.Event{Type: agent.EventToolCall, Tool: "run_gcloud_command", Command: "gcloud run services describe checkout"})
	appendEvent(transcript, &agent.Event{Type: agent.EventToolResult, Tool: "run_gcloud_command", Result: "traffic:\n- revisionName: checkout-00042\n"})
	appendEvent(transcript, &agent.Event{Type: agent.EventDelta, Text: "All traffic is on checkout-00042."})
	appendEvent(transcript, &agent.Event{Type: agent.EventDone, Text: "All steps have been completed successfully!"})

	rendered := transcript.String()
	assert.Contains(t, rendered, "## Plan")
	assert.Contains(t, rendered, "1. Check the traffic split")
	assert.Contains(t, rendered, "### Step 1/2: Check the traffic split")
	assert.Contains(t, rendered, "$ gcloud run services describe checkout")
	assert.Contains(t, rendered, "revisionName: checkout-00042")
	assert.Contains(t, rendered, "All traffic is on checkout-00042.")
	assert.Contains(t, rendered, "All steps have been completed successfully!")
}

func Test_transcript_followUpAnswerPrintedOnce(t *testing.T) {
	transcript := &strings.Builder{}

	appendEvent(transcript, &agent.Event{Type: agent.EventDelta, Text: "There are 3 buckets."})
	appendEvent(transcript, &agent.Event{Type: agent.EventDone, Text: "There are 3 buckets."})

	assert.Equal(t, 1, strings.Count(transcript.String(), "There are 3 buckets."))
}

func Test_transcript_blocked(t *testing.T) {
	transcript := &strings.Builder{}

	appendEvent(transcript, &agent.Event{
		Type:    agent.EventBlocked,
		Tool:    "run_gcloud_command",
		Command: "gcloud run services delete checkout",
		Result:  "delete is not on the allowed command list",
	})

	assert.Contains(t, transcript.String(), "> ")
	assert.Contains(t, transcript.String(), "delete is not on the allowed command list")
}

func Test_tail(t *testing.T) {
	assert.Equal(t, "short", tail("short", 3))
	assert.Equal(t, "... 2 lines omitted\n3\n4\n5", tail("1\n2\n3\n4\n5\n", 3))
}
