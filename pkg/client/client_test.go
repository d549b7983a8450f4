package client

import (
	"context"
	"encoding/base32"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gantry-io/gantry/cmd/console/config"
	"github.com/gantry-io/gantry/pkg/agent"
	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/gantry-io/gantry/pkg/console/notifications"
	"github.com/gantry-io/gantry/pkg/console/server"
	"github.com/gantry-io/gantry/pkg/console/server/streaming"
	"github.com/gantry-io/gantry/pkg/console/store"
	"github.com/gantry-io/gantry/pkg/console/telemetry"
	"github.com/gantry-io/gantry/pkg/gemini"
	"github.com/gantry-io/gantry/pkg/toolbelt"
	"github.com/gantry-io/gantry/pkg/vars"
	"github.com/gantry-io/gantry/pkg/version"
	"github.com/go-chi/jwtauth/v5"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"
	"google.golang.org/genai"
)

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

type testRunner struct {
	stdout map[string]string
}

func (r *testRunner) Run(_ context.Context, command string) (string, string, error) {
	return r.stdout[command], "", nil
}

func setup(t *testing.T, generator agent.Generator, varSet *vars.VarSet) (Client, *store.Store, *httptest.Server) {
	encryptionKey := "the-key-has-to-be-32-bytes-long!"
	encryptionKeyNew := ""
	dao := store.NewTest(encryptionKey, encryptionKeyNew)

	secret := base32.StdEncoding.EncodeToString(
		securecookie.GenerateRandomKey(32),
	)
	conf := &config.Config{JWTSecret: secret}
	conf.Model.Name = "gemini-2.0-flash-001"

	tools := toolbelt.New(toolbelt.Config{Runner: &testRunner{stdout: map[string]string{
		"gsutil ls":                    "gs://analytics/\ngs://backups/\n",
		"gcloud version --format=json": `{"Google Cloud SDK": "530.0.0"}`,
	}}})
	opsAgent := agent.New(generator, tools, 8)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router := server.SetupRouter(
		conf,
		dao,
		streaming.NewClientHub(),
		opsAgent,
		tools,
		notifications.NewDummyManager(),
		telemetry.NewEmitter(logger),
		varSet,
	)
	testServer := httptest.NewServer(router)

	auth := jwtauth.New("HS256", []byte(secret), nil)
	_, tokenStr, err := auth.Encode(map[string]interface{}{"user_id": "admin"})
	assert.Nil(t, err)

	oauthConfig := new(oauth2.Config)
	auther := oauthConfig.Client(
		oauth2.NoContext,
		&oauth2.Token{
			AccessToken: tokenStr,
		},
	)

	return NewClient(testServer.URL, auther), dao, testServer
}

func Test_ask(t *testing.T) {
	generator := &fakeGenerator{results: []*gemini.Result{
		{Parts: []*genai.Part{{Text: "1. List the buckets in the project"}}},
		{Parts: []*genai.Part{{FunctionCall: &genai.FunctionCall{
			Name: "run_gsutil_command",
			Args: map[string]any{"command": "gsutil ls"},
		}}}},
		{Parts: []*genai.Part{{Text: "There are two buckets."}}},
	}}
	client, _, testServer := setup(t, generator, nil)
	defer testServer.Close()

	var events []*agent.Event
	session, err := client.Ask("", "list my buckets", func(event *agent.Event) {
		events = append(events, event)
	})
	assert.Nil(t, err)
	assert.NotEqual(t, "", session)

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

	details, err := client.SessionGet(session)
	assert.Nil(t, err)
	assert.Equal(t, "list my buckets", details.Title)
	assert.NotEqual(t, 0, len(details.Messages))

	sessions, err := client.SessionsGet(10)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(sessions))

	// a follow-up lands in the same session and skips the planner
	generator.results = []*gemini.Result{
		{Parts: []*genai.Part{{Text: "Both buckets are empty."}}},
	}
	var followUp []*agent.Event
	session2, err := client.Ask(session, "are they empty?", func(event *agent.Event) {
		followUp = append(followUp, event)
	})
	assert.Nil(t, err)
	assert.Equal(t, session, session2)
	for _, e := range followUp {
		assert.NotEqual(t, agent.EventPlan, e.Type)
	}
}

func Test_askUnknownSession(t *testing.T) {
	client, _, testServer := setup(t, &fakeGenerator{}, nil)
	defer testServer.Close()

	_, err := client.Ask("no-such-session", "hello", func(event *agent.Event) {})
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "client error 404")
}

func Test_feedback(t *testing.T) {
	client, dao, testServer := setup(t, &fakeGenerator{}, nil)
	defer testServer.Close()

	err := dao.CreateSession(&model.Session{SessionID: "aSessionId", UserID: "admin", Title: "list my buckets"})
	assert.Nil(t, err)

	saved, err := client.FeedbackPost(&model.Feedback{
		SessionID: "aSessionId",
		Score:     4,
		Text:      "found the bucket right away",
	})
	assert.Nil(t, err)
	assert.NotEqual(t, int64(0), saved.Created)

	_, err = client.FeedbackPost(&model.Feedback{SessionID: "no-such-session", Score: 4})
	assert.NotNil(t, err)

	since := time.Now().Add(-1 * time.Hour)
	events, err := client.EventsGet(&since, 10, model.FeedbackReceivedEvent)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(events))
	assert.Equal(t, model.FeedbackReceivedEvent, events[0].Type)
}

func Test_consoleStatus(t *testing.T) {
	varSet := vars.Default()
	varSet.ProdProjectID = "acme-prod"
	varSet.GithubPatSecretID = "github-pat"
	client, _, testServer := setup(t, &fakeGenerator{}, varSet)
	defer testServer.Close()

	consoleVersion, err := client.VersionGet()
	assert.Nil(t, err)
	assert.Equal(t, version.String(), consoleVersion)

	report, err := client.PreflightGet()
	assert.Nil(t, err)
	assert.True(t, report.Healthy)
	assert.True(t, report.Tools["gcloud"])

	remoteVars, err := client.VarsGet()
	assert.Nil(t, err)
	assert.Equal(t, "acme-prod", remoteVars.ProdProjectID)
	assert.Equal(t, "***", remoteVars.GithubPatSecretID)
}
