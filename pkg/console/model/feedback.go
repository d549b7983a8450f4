package model

// Feedback is a user rating of an agent invocation
type Feedback struct {
	ID int64 `json:"-" meddler:"id,pk"`

	SessionID    string `json:"sessionId"  meddler:"session_id"`
	InvocationID string `json:"invocationId"  meddler:"invocation_id"`

	// Score is 1 to 5
	Score int `json:"score"  meddler:"score"`

	Text string `json:"text,omitempty"  meddler:"text"`

	Created int64 `json:"created"  meddler:"created"`
}
