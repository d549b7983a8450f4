package model

import (
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

const RoleUser = "user"
const RoleModel = "model"

// Message is one turn of a session: user text, a model reply, a function
// call or a function response. Blob carries the full serialized content
// so the conversation can be replayed to the model; it is encrypted at
// rest since command output can contain sensitive resource data.
type Message struct {
	ID int64 `json:"-" meddler:"id,pk"`

	SessionID    string `json:"sessionId"  meddler:"session_id"`
	InvocationID string `json:"invocationId"  meddler:"invocation_id"`

	Role string `json:"role"  meddler:"role"`

	// Text is the display text of the turn, empty for pure tool traffic
	Text string `json:"text"  meddler:"text,encrypted"`

	Blob string `json:"-"  meddler:"blob,encrypted"`

	Created int64 `json:"created"  meddler:"created"`
}

func ToMessage(sessionID, invocationID string, content *genai.Content) (*Message, error) {
	blob, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("cannot serialize content: %s", err)
	}

	return &Message{
		SessionID:    sessionID,
		InvocationID: invocationID,
		Role:         content.Role,
		Text:         displayText(content),
		Blob:         string(blob),
	}, nil
}

// Content restores the serialized model content of the turn.
func (m *Message) Content() (*genai.Content, error) {
	var content genai.Content
	if err := json.Unmarshal([]byte(m.Blob), &content); err != nil {
		return nil, fmt.Errorf("cannot deserialize content: %s", err)
	}
	return &content, nil
}

func displayText(content *genai.Content) string {
	for _, part := range content.Parts {
		if part.Text != "" {
			return part.Text
		}
	}
	return ""
}
