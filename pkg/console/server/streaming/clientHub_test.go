package streaming

import (
	"encoding/json"
	"testing"

	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/gobwas/glob"
	"github.com/stretchr/testify/assert"
)

func consoleEventJSON(t *testing.T, eventType string) []byte {
	jsonString, err := json.Marshal(ConsoleEvent{
		StreamingEvent: StreamingEvent{Event: eventType},
		Payload:        &model.Event{Type: eventType},
	})
	assert.Nil(t, err)
	return jsonString
}

func Test_broadcastFiltering(t *testing.T) {
	hub := NewClientHub()
	go hub.Run()

	all := &Client{hub: hub, send: make(chan []byte, 4)}
	blockedOnly := &Client{hub: hub, send: make(chan []byte, 4), filter: glob.MustCompile("commandBlocked")}
	hub.Register <- all
	hub.Register <- blockedOnly

	hub.Broadcast <- consoleEventJSON(t, model.AgentRunEvent)
	hub.Broadcast <- consoleEventJSON(t, model.CommandBlockedEvent)

	// the unfiltered viewer sees both events
	first := <-all.send
	second := <-all.send
	assert.Contains(t, string(first), model.AgentRunEvent)
	assert.Contains(t, string(second), model.CommandBlockedEvent)

	// the filtered viewer only sees the blocked command
	got := <-blockedOnly.send
	assert.Contains(t, string(got), model.CommandBlockedEvent)
	assert.Len(t, blockedOnly.send, 0)
}

func Test_targetedSend(t *testing.T) {
	hub := NewClientHub()
	go hub.Run()

	alice := &Client{hub: hub, send: make(chan []byte, 4), userID: "alice"}
	bob := &Client{hub: hub, send: make(chan []byte, 4), userID: "bob"}
	hub.Register <- alice
	hub.Register <- bob

	hub.Send <- &ClientMessage{ClientId: "alice", Message: []byte("for alice")}

	got := <-alice.send
	assert.Equal(t, "for alice", string(got))
	assert.Len(t, bob.send, 0)
}
