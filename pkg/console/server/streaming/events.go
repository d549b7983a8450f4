package streaming

import (
	"github.com/gantry-io/gantry/pkg/console/model"
)

type StreamingEvent struct {
	Event string `json:"event"`
}

// ConsoleEvent carries a stored console event to websocket viewers. The
// discriminator repeats the event type so topic filters can match on it.
type ConsoleEvent struct {
	Payload *model.Event `json:"payload"`
	StreamingEvent
}
