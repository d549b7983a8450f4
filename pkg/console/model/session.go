package model

// Session is one conversation with the console agent
type Session struct {
	// ID for this session
	// required: true
	ID int64 `json:"-" meddler:"id,pk"`

	// SessionID is the client-facing identifier
	// required: true
	SessionID string `json:"sessionId"  meddler:"session_id"`

	// UserID is the caller the session belongs to
	UserID string `json:"userId"  meddler:"user_id"`

	// Title is derived from the first user message
	Title string `json:"title"  meddler:"title"`

	// Plan holds the steps the planner produced for the opening request
	Plan []string `json:"plan,omitempty"  meddler:"plan,json"`

	// PlanCreated marks that the opening request was planned and executed,
	// follow-up turns skip the planner
	PlanCreated bool `json:"planCreated"  meddler:"plan_created"`

	Created int64 `json:"created"  meddler:"created"`
	Updated int64 `json:"updated"  meddler:"updated"`
}
