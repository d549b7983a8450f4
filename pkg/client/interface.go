// Copyright 2021 Laszlo Fogas
// Original structure Copyright 2018 Drone.IO Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package client

import (
	"net/http"
	"time"

	"github.com/gantry-io/gantry/pkg/agent"
	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/gantry-io/gantry/pkg/toolbelt"
	"github.com/gantry-io/gantry/pkg/vars"
)

// SessionDetails is a session together with its transcript.
type SessionDetails struct {
	model.Session
	Messages []*model.Message `json:"messages"`
}

// Client is used to communicate with the console.
type Client interface {
	// SetClient sets the http.Client.
	SetClient(*http.Client)

	// SetAddress sets the console address.
	SetAddress(string)

	// VersionGet returns the console version
	VersionGet() (string, error)

	// PreflightGet returns the console's cloud tooling report
	PreflightGet() (*toolbelt.PreflightReport, error)

	// VarsGet returns the variables the console runs with, secrets redacted
	VarsGet() (*vars.VarSet, error)

	// SessionsGet returns the most recently used sessions
	SessionsGet(limit int) ([]*model.Session, error)

	// SessionGet returns a session with its transcript
	SessionGet(sessionID string) (*SessionDetails, error)

	// EventsGet returns stored events within the given constraints
	EventsGet(since *time.Time, limit int, eventType string) ([]*model.Event, error)

	// FeedbackPost scores an agent answer
	FeedbackPost(feedback *model.Feedback) (*model.Feedback, error)

	// Ask streams the agent's work on a prompt and returns the session id.
	// An empty sessionID starts a new session.
	Ask(sessionID string, message string, onEvent func(event *agent.Event)) (string, error)
}
