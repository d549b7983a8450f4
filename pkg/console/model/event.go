package model

import (
	"encoding/json"
	"fmt"
)

const StatusNew = "new"
const StatusProcessed = "processed"
const StatusError = "error"

const SessionCreatedEvent = "sessionCreated"
const AgentRunEvent = "agentRun"
const CommandBlockedEvent = "commandBlocked"
const FeedbackReceivedEvent = "feedbackReceived"

type Event struct {
	ID         string `json:"id,omitempty"  meddler:"id"`
	Created    int64  `json:"created,omitempty"  meddler:"created"`
	Type       string `json:"type,omitempty"  meddler:"type"`
	Blob       string `json:"blob,omitempty"  meddler:"blob"`
	Status     string `json:"status"  meddler:"status"`
	StatusDesc string `json:"statusDesc"  meddler:"status_desc"`

	SessionID string `json:"sessionId,omitempty"  meddler:"session_id"`
}

// ToEvent wraps a payload into a storable event.
func ToEvent(eventType string, sessionID string, payload interface{}) (*Event, error) {
	blob, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("cannot serialize payload: %s", err)
	}

	return &Event{
		Type:      eventType,
		SessionID: sessionID,
		Blob:      string(blob),
	}, nil
}
