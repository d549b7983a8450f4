package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gantry-io/gantry/cmd/console/config"
	"github.com/gantry-io/gantry/pkg/agent"
	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/gantry-io/gantry/pkg/console/notifications"
	"github.com/gantry-io/gantry/pkg/console/server/streaming"
	"github.com/gantry-io/gantry/pkg/console/store"
	"github.com/gantry-io/gantry/pkg/console/telemetry"
	"github.com/gantry-io/gantry/pkg/gemini"
	"github.com/gantry-io/gantry/pkg/toolbelt"
	"github.com/gantry-io/gantry/pkg/vars"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

const encryptionKey = "the-key-has-to-be-32-bytes-long!"

type fakeGenerator struct {
	results []*gemini.Result
}

func (f *fakeGenerator) next() *gemini.Result {
	if len(f.results) == 0 {
		return &gemini.Result{}
	}
	result := f.results[0]
	f.results = f.results[1:]
	return result
}

func (f *fakeGenerator) Generate(_ context.Context, _ string, _ []*genai.Content, _ []*genai.FunctionDeclaration) (*gemini.Result, error) {
	return f.next(), nil
}

func (f *fakeGenerator) GenerateStream(_ context.Context, _ string, _ []*genai.Content, _ []*genai.FunctionDeclaration, onDelta func(string)) (*gemini.Result, error) {
	result := f.next()
	if text := result.Text(); text != "" && onDelta != nil {
		onDelta(text)
	}
	return result, nil
}

func textResult(text string) *gemini.Result {
	return &gemini.Result{Parts: []*genai.Part{{Text: text}}}
}

func callResult(tool string, command string) *gemini.Result {
	return &gemini.Result{Parts: []*genai.Part{{
		FunctionCall: &genai.FunctionCall{Name: tool, Args: map[string]any{"command": command}},
	}}}
}

type testRunner struct {
	stdout map[string]string
}

func (r *testRunner) Run(_ context.Context, command string) (string, string, error) {
	return r.stdout[command], "", nil
}

func setupTestServer(generator agent.Generator, varSet *vars.VarSet) (*httptest.Server, *store.Store, string) {
	dao := store.NewTest(encryptionKey, "")

	conf := &config.Config{JWTSecret: "mysecret"}
	conf.Model.Name = "gemini-2.0-flash-001"

	tools := toolbelt.New(toolbelt.Config{Runner: &testRunner{stdout: map[string]string{
		"gsutil ls":                    "gs://analytics/\ngs://backups/\n",
		"gcloud version --format=json": `{"Google Cloud SDK": "530.0.0"}`,
	}}})
	opsAgent := agent.New(generator, tools, 8)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router := SetupRouter(
		conf,
		dao,
		streaming.NewClientHub(),
		opsAgent,
		tools,
		notifications.NewDummyManager(),
		telemetry.NewEmitter(logger),
		varSet,
	)
	server := httptest.NewServer(router)

	_, tokenString, _ := apiAuth.Encode(map[string]interface{}{"user_id": "test-user"})
	return server, dao, tokenString
}

func authGet(t *testing.T, server *httptest.Server, token string, path string) *http.Response {
	req, _ := http.NewRequest("GET", server.URL+path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	assert.Nil(t, err)
	return resp
}

func authPost(t *testing.T, server *httptest.Server, token string, path string, payload interface{}) *http.Response {
	body, err := json.Marshal(payload)
	assert.Nil(t, err)
	req, _ := http.NewRequest("POST", server.URL+path, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	assert.Nil(t, err)
	return resp
}

func readEvents(t *testing.T, body io.Reader) []agent.Event {
	events := []agent.Event{}
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var event agent.Event
		err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event)
		assert.Nil(t, err)
		events = append(events, event)
	}
	return events
}

func Test_MustAuthenticate(t *testing.T) {
	server, _, token := setupTestServer(&fakeGenerator{}, nil)
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "health must be public")

	resp, err = http.Get(server.URL + "/api/sessions")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "should return 401 without a token")

	resp = authGet(t, server, "gibberish", "/api/sessions")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "should return 401 with a gibberish token")

	resp = authGet(t, server, token, "/api/sessions")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "should authorize with the CLI token")
}

func Test_chat(t *testing.T) {
	generator := &fakeGenerator{results: []*gemini.Result{
		textResult("1. List the buckets in the project"),
		callResult("run_gsutil_command", "gsutil ls"),
		textResult("There are two buckets."),
	}}
	server, dao, token := setupTestServer(generator, nil)
	defer server.Close()

	resp := authPost(t, server, token, "/api/chat", map[string]string{"message": "list my buckets"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	sessionID := resp.Header.Get("X-Gantry-Session")
	assert.NotEqual(t, "", sessionID)

	events := readEvents(t, resp.Body)
	types := []agent.EventType{}
	for _, e := range events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []agent.EventType{
		agent.EventPlan,
		agent.EventStep,
		agent.EventToolCall,
		agent.EventToolResult,
		agent.EventDelta,
		agent.EventDone,
	}, types)

	session, err := dao.Session(sessionID)
	assert.Nil(t, err)
	assert.Equal(t, "test-user", session.UserID)
	assert.Equal(t, "list my buckets", session.Title)
	assert.True(t, session.PlanCreated)
	assert.Equal(t, []string{"List the buckets in the project"}, session.Plan)

	// user turn, plan summary, step prompt, tool call turn, tool result,
	// step answer and the closing message
	messages, err := dao.Messages(sessionID)
	assert.Nil(t, err)
	assert.Len(t, messages, 7)

	storedEvents, err := dao.Events(0, 10)
	assert.Nil(t, err)
	eventTypes := []string{}
	for _, e := range storedEvents {
		eventTypes = append(eventTypes, e.Type)
	}
	assert.Contains(t, eventTypes, model.SessionCreatedEvent)
	assert.Contains(t, eventTypes, model.AgentRunEvent)
}

func Test_chat_followUpSkipsPlanner(t *testing.T) {
	generator := &fakeGenerator{results: []*gemini.Result{
		textResult("1. List the buckets in the project"),
		textResult("Both buckets are empty."),
		textResult("Yes, I checked both."),
	}}
	server, dao, token := setupTestServer(generator, nil)
	defer server.Close()

	resp := authPost(t, server, token, "/api/chat", map[string]string{"message": "check the buckets"})
	sessionID := resp.Header.Get("X-Gantry-Session")
	readEvents(t, resp.Body)
	resp.Body.Close()

	resp = authPost(t, server, token, "/api/chat", map[string]string{
		"sessionId": sessionID,
		"message":   "are you sure?",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	events := readEvents(t, resp.Body)
	for _, e := range events {
		assert.NotEqual(t, agent.EventPlan, e.Type, "follow up turns must not plan again")
	}
	assert.Equal(t, agent.EventDone, events[len(events)-1].Type)

	messages, err := dao.Messages(sessionID)
	assert.Nil(t, err)
	// second invocation adds the question and the answer on top of the
	// five turns of the first one
	assert.Len(t, messages, 7)
}

func Test_chat_unknownSession(t *testing.T) {
	server, _, token := setupTestServer(&fakeGenerator{}, nil)
	defer server.Close()

	resp := authPost(t, server, token, "/api/chat", map[string]string{
		"sessionId": "no-such-session",
		"message":   "hello",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func Test_chat_recordsBlockedCommands(t *testing.T) {
	generator := &fakeGenerator{results: []*gemini.Result{
		textResult("1. Remove the stale instance"),
		callResult("run_gcloud_command", "gcloud compute instances delete stale-vm"),
		textResult("I could not remove it without confirmation."),
	}}
	server, dao, token := setupTestServer(generator, nil)
	defer server.Close()

	resp := authPost(t, server, token, "/api/chat", map[string]string{"message": "remove the stale vm"})
	defer resp.Body.Close()
	readEvents(t, resp.Body)

	blocked, err := dao.EventsOfType(model.CommandBlockedEvent, 0)
	assert.Nil(t, err)
	assert.Len(t, blocked, 1)
	assert.Contains(t, blocked[0].Blob, "gcloud compute instances delete stale-vm")
}

func Test_feedback(t *testing.T) {
	server, dao, token := setupTestServer(&fakeGenerator{}, nil)
	defer server.Close()

	err := dao.CreateSession(&model.Session{SessionID: "session-1", UserID: "test-user"})
	assert.Nil(t, err)

	resp := authPost(t, server, token, "/api/feedback", map[string]interface{}{
		"sessionId": "session-1",
		"score":     7,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "score above 5 must be rejected")

	resp = authPost(t, server, token, "/api/feedback", map[string]interface{}{
		"sessionId": "no-such-session",
		"score":     4,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = authPost(t, server, token, "/api/feedback", map[string]interface{}{
		"sessionId": "session-1",
		"score":     4,
		"text":      "found the problem quickly",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	feedback, err := dao.FeedbackSince(0)
	assert.Nil(t, err)
	assert.Len(t, feedback, 1)
	assert.Equal(t, 4, feedback[0].Score)

	events, err := dao.EventsOfType(model.FeedbackReceivedEvent, 0)
	assert.Nil(t, err)
	assert.Len(t, events, 1)
}

func Test_getEvents(t *testing.T) {
	server, dao, token := setupTestServer(&fakeGenerator{}, nil)
	defer server.Close()

	event, err := model.ToEvent(model.SessionCreatedEvent, "session-1", map[string]string{"title": "t"})
	assert.Nil(t, err)
	_, err = dao.CreateEvent(event)
	assert.Nil(t, err)
	event, err = model.ToEvent(model.CommandBlockedEvent, "session-1", map[string]string{"command": "c"})
	assert.Nil(t, err)
	_, err = dao.CreateEvent(event)
	assert.Nil(t, err)

	resp := authGet(t, server, token, "/api/events")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var events []*model.Event
	err = json.NewDecoder(resp.Body).Decode(&events)
	assert.Nil(t, err)
	assert.Len(t, events, 2)

	resp = authGet(t, server, token, "/api/events?type=command*")
	err = json.NewDecoder(resp.Body).Decode(&events)
	assert.Nil(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, model.CommandBlockedEvent, events[0].Type)

	resp = authGet(t, server, token, "/api/events?type=[")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func Test_getSession(t *testing.T) {
	generator := &fakeGenerator{results: []*gemini.Result{
		textResult("1. Say hello"),
		textResult("Hello."),
	}}
	server, _, token := setupTestServer(generator, nil)
	defer server.Close()

	resp := authPost(t, server, token, "/api/chat", map[string]string{"message": "say hello"})
	sessionID := resp.Header.Get("X-Gantry-Session")
	readEvents(t, resp.Body)
	resp.Body.Close()

	resp = authGet(t, server, token, "/api/sessions/"+sessionID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var details map[string]interface{}
	err := json.NewDecoder(resp.Body).Decode(&details)
	assert.Nil(t, err)
	assert.Equal(t, sessionID, details["sessionId"])
	assert.NotEmpty(t, details["messages"])

	resp = authGet(t, server, token, "/api/sessions/no-such-session")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func Test_getVars(t *testing.T) {
	server, _, token := setupTestServer(&fakeGenerator{}, nil)
	resp := authGet(t, server, token, "/api/vars")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "no variables file configured")
	server.Close()

	varSet := vars.Default()
	varSet.ProdProjectID = "acme-prod"
	varSet.GithubPatSecretID = "github-pat"
	server, _, token = setupTestServer(&fakeGenerator{}, varSet)
	defer server.Close()

	resp = authGet(t, server, token, "/api/vars")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var redacted map[string]interface{}
	err := json.NewDecoder(resp.Body).Decode(&redacted)
	assert.Nil(t, err)
	assert.Equal(t, "acme-prod", redacted["prod_project_id"])
	assert.Equal(t, "***", redacted["github_pat_secret_id"])
}

func Test_getVersion(t *testing.T) {
	server, _, token := setupTestServer(&fakeGenerator{}, nil)
	defer server.Close()

	resp := authGet(t, server, token, "/api/version")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]string
	err := json.NewDecoder(resp.Body).Decode(&payload)
	assert.Nil(t, err)
	assert.NotEqual(t, "", payload["version"])
}

func Test_getPreflight(t *testing.T) {
	server, _, token := setupTestServer(&fakeGenerator{}, nil)
	defer server.Close()

	resp := authGet(t, server, token, "/api/preflight")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var report toolbelt.PreflightReport
	err := json.NewDecoder(resp.Body).Decode(&report)
	assert.Nil(t, err)
	assert.True(t, report.Healthy)
	assert.True(t, report.Tools["gcloud"])
}
