package agent

type EventType string

const (
	EventPlan       EventType = "plan"
	EventStep       EventType = "step"
	EventDelta      EventType = "delta"
	EventToolCall   EventType = "tool_call"
	EventToolResult EventType = "tool_result"
	EventBlocked    EventType = "blocked"
	EventDone       EventType = "done"
	EventError      EventType = "error"
)

// Event is one observable moment of an agent run. The chat endpoint
// streams them to the caller, the store keeps the durable ones.
type Event struct {
	Type       EventType `json:"type"`
	Text       string    `json:"text,omitempty"`
	Steps      []string  `json:"steps,omitempty"`
	Step       int       `json:"step,omitempty"`
	TotalSteps int       `json:"totalSteps,omitempty"`
	Tool       string    `json:"tool,omitempty"`
	Command    string    `json:"command,omitempty"`
	Result     string    `json:"result,omitempty"`
}
