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
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gantry-io/gantry/pkg/agent"
	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/gantry-io/gantry/pkg/toolbelt"
	"github.com/gantry-io/gantry/pkg/vars"
)

const (
	pathChat      = "%s/api/chat"
	pathSessions  = "%s/api/sessions"
	pathSession   = "%s/api/sessions/%s"
	pathFeedback  = "%s/api/feedback"
	pathEvents    = "%s/api/events"
	pathVars      = "%s/api/vars"
	pathVersion   = "%s/api/version"
	pathPreflight = "%s/api/preflight"
)

type client struct {
	client *http.Client
	addr   string
}

// New returns a client at the specified url.
func New(uri string) Client {
	return &client{http.DefaultClient, strings.TrimSuffix(uri, "/")}
}

// NewClient returns a client at the specified url.
func NewClient(uri string, cli *http.Client) Client {
	return &client{cli, strings.TrimSuffix(uri, "/")}
}

// SetClient sets the http.Client.
func (c *client) SetClient(client *http.Client) {
	c.client = client
}

// SetAddress sets the console address.
func (c *client) SetAddress(addr string) {
	c.addr = addr
}

type VersionResult struct {
	Version string `json:"version"`
}

// VersionGet returns the console version
func (c *client) VersionGet() (string, error) {
	uri := fmt.Sprintf(pathVersion, c.addr)

	consoleVersion := new(VersionResult)
	err := c.get(uri, consoleVersion)
	if err != nil {
		return "", err
	}

	return consoleVersion.Version, nil
}

// PreflightGet returns the console's cloud tooling report
func (c *client) PreflightGet() (*toolbelt.PreflightReport, error) {
	uri := fmt.Sprintf(pathPreflight, c.addr)

	report := new(toolbelt.PreflightReport)
	err := c.get(uri, report)
	if err != nil {
		return nil, err
	}

	return report, nil
}

// VarsGet returns the variables the console runs with, secrets redacted
func (c *client) VarsGet() (*vars.VarSet, error) {
	uri := fmt.Sprintf(pathVars, c.addr)

	varSet := new(vars.VarSet)
	err := c.get(uri, varSet)
	if err != nil {
		return nil, err
	}

	return varSet, nil
}

// SessionsGet returns the most recently used sessions
func (c *client) SessionsGet(limit int) ([]*model.Session, error) {
	uri := fmt.Sprintf(pathSessions, c.addr)

	var params []string
	if limit != 0 {
		params = append(params, fmt.Sprintf("limit=%d", limit))
	}

	var paramsStr string
	if len(params) > 0 {
		paramsStr = "?" + strings.Join(params, "&")
	}

	body, err := c.open(uri+paramsStr, "GET", nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	var out []*model.Session
	err = json.Unmarshal(bodyBytes, &out)
	if err != nil {
		return nil, err
	}

	if out == nil {
		return []*model.Session{}, nil
	}

	return out, err
}

// SessionGet returns a session with its transcript
func (c *client) SessionGet(sessionID string) (*SessionDetails, error) {
	uri := fmt.Sprintf(pathSession, c.addr, sessionID)

	details := new(SessionDetails)
	err := c.get(uri, details)
	if err != nil {
		return nil, err
	}

	return details, nil
}

// EventsGet returns stored events within the given constraints
func (c *client) EventsGet(since *time.Time, limit int, eventType string) ([]*model.Event, error) {
	uri := fmt.Sprintf(pathEvents, c.addr)

	var params []string
	if since != nil {
		params = append(params, fmt.Sprintf("since=%d", since.Unix()))
	}
	if limit != 0 {
		params = append(params, fmt.Sprintf("limit=%d", limit))
	}
	if eventType != "" {
		params = append(params, fmt.Sprintf("type=%s", url.QueryEscape(eventType)))
	}

	var paramsStr string
	if len(params) > 0 {
		paramsStr = "?" + strings.Join(params, "&")
	}

	body, err := c.open(uri+paramsStr, "GET", nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	var out []*model.Event
	err = json.Unmarshal(bodyBytes, &out)
	if err != nil {
		return nil, err
	}

	if out == nil {
		return []*model.Event{}, nil
	}

	return out, err
}

// FeedbackPost scores an agent answer
func (c *client) FeedbackPost(feedback *model.Feedback) (*model.Feedback, error) {
	uri := fmt.Sprintf(pathFeedback, c.addr)

	saved := new(model.Feedback)
	err := c.post(uri, feedback, saved)
	if err != nil {
		return nil, err
	}

	return saved, nil
}

// Ask posts a prompt and follows the event stream until the agent is done.
// The session id is read from the response header, so follow-up questions
// can land in the same session.
func (c *client) Ask(sessionID string, message string, onEvent func(event *agent.Event)) (string, error) {
	uri := fmt.Sprintf(pathChat, c.addr)

	in := struct {
		SessionID string `json:"sessionId,omitempty"`
		Message   string `json:"message"`
	}{sessionID, message}
	decoded, err := json.Marshal(in)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", uri, bytes.NewBuffer(decoded))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode > http.StatusPartialContent {
		out, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("client error %d: %s", resp.StatusCode, string(out))
	}

	session := resp.Header.Get("X-Gantry-Session")

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var event agent.Event
		err = json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event)
		if err != nil {
			return session, fmt.Errorf("cannot parse event: %s", err)
		}
		onEvent(&event)
	}

	return session, scanner.Err()
}

func (c *client) get(rawURL string, out interface{}) error {
	return c.do(rawURL, "GET", nil, out)
}

func (c *client) post(rawURL string, in, out interface{}) error {
	return c.do(rawURL, "POST", in, out)
}

func (c *client) do(rawURL, method string, in, out interface{}) error {
	body, err := c.open(rawURL, method, in)
	if err != nil {
		return err
	}
	defer body.Close()

	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}

	return json.Unmarshal(bodyBytes, &out)
}

func (c *client) open(rawURL, method string, in interface{}) (io.ReadCloser, error) {
	uri, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(method, uri.String(), nil)
	if err != nil {
		return nil, err
	}
	if in != nil {
		decoded, decodeErr := json.Marshal(in)
		if decodeErr != nil {
			return nil, decodeErr
		}
		buf := bytes.NewBuffer(decoded)
		req.Body = io.NopCloser(buf)
		req.ContentLength = int64(len(decoded))
		req.Header.Set("Content-Length", strconv.Itoa(len(decoded)))
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode > http.StatusPartialContent {
		defer resp.Body.Close()
		out, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("client error %d: %s", resp.StatusCode, string(out))
	}
	return resp.Body, nil
}
