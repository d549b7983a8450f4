package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gantry-io/gantry/cmd/console/config"
	"github.com/gantry-io/gantry/pkg/agent"
	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/gantry-io/gantry/pkg/console/notifications"
	"github.com/gantry-io/gantry/pkg/console/store"
	"github.com/gantry-io/gantry/pkg/console/telemetry"
	"github.com/gantry-io/gantry/pkg/gemini"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

type chatRequest struct {
	SessionID string `json:"sessionId,omitempty"`
	Message   string `json:"message"`
}

// chat runs one agent invocation and streams its events over SSE.
// Fresh sessions get the plan-then-execute flow, follow up turns go
// straight to the assistant.
func chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is mandatory", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	dao := ctx.Value("store").(*store.Store)
	opsAgent := ctx.Value("agent").(*agent.Agent)
	conf := ctx.Value("config").(*config.Config)
	emitter := ctx.Value("telemetry").(*telemetry.Emitter)
	notificationsManager := ctx.Value("notificationsManager").(notifications.Manager)

	session, err := sessionFor(dao, r, req.SessionID, req.Message)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	history, err := sessionHistory(dao, session.SessionID)
	if err != nil {
		logrus.Errorf("cannot load session history: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	invocationID := uuid.New().String()

	userContent := gemini.UserText(req.Message)
	history = append(history, userContent)
	err = persistContent(dao, session.SessionID, invocationID, userContent)
	if err != nil {
		logrus.Errorf("cannot save user message: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("X-Gantry-Session", session.SessionID)
	w.WriteHeader(http.StatusOK)

	flusher, ok := w.(http.Flusher)
	if !ok {
		w.Write([]byte("Streaming not supported"))
		return
	}

	io.WriteString(w, ": ping\n\n")
	flusher.Flush()

	run := telemetry.Run{
		InvocationID: invocationID,
		SessionID:    session.SessionID,
		Model:        conf.Model.Name,
		ToolCalls:    map[string]int{},
	}
	started := time.Now()

	emit := func(event agent.Event) {
		switch event.Type {
		case agent.EventStep:
			run.Steps++
		case agent.EventToolCall:
			run.ToolCalls[event.Tool]++
		case agent.EventBlocked:
			run.Blocked++
			reportBlockedCommand(dao, notificationsManager, session.SessionID, event)
		}

		frame, err := json.Marshal(event)
		if err != nil {
			logrus.Warnf("cannot serialize agent event: %s", err)
			return
		}
		io.WriteString(w, "data: ")
		w.Write(frame)
		io.WriteString(w, "\n\n")
		flusher.Flush()
	}

	var outcome *agent.Outcome
	if session.PlanCreated {
		outcome, err = opsAgent.Continue(ctx, history, emit)
	} else {
		outcome, err = opsAgent.Run(ctx, history, emit)
	}

	run.LatencyMs = time.Since(started).Milliseconds()
	run.Status = telemetry.StatusCompleted
	if err != nil {
		// the error already reached the caller as an error event
		run.Status = telemetry.StatusError
		logrus.Errorf("agent run failed: %s", err)
	}

	if outcome != nil {
		for _, content := range outcome.History[len(history):] {
			err = persistContent(dao, session.SessionID, invocationID, content)
			if err != nil {
				logrus.Errorf("cannot save agent turn: %s", err)
			}
		}

		if !session.PlanCreated {
			session.PlanCreated = true
			session.Plan = outcome.Plan
		}
		err = dao.UpdateSession(session)
		if err != nil {
			logrus.Errorf("cannot update session: %s", err)
		}
	}

	emitter.EmitRun(run)

	runEvent, err := model.ToEvent(model.AgentRunEvent, session.SessionID, run)
	if err != nil {
		logrus.Warnf("cannot serialize agent run: %s", err)
		return
	}
	_, err = dao.CreateEvent(runEvent)
	if err != nil {
		logrus.Errorf("cannot save agent run event: %s", err)
	}
}

// sessionFor loads the addressed session, or creates one when the request
// starts a new conversation.
func sessionFor(dao *store.Store, r *http.Request, sessionID string, message string) (*model.Session, error) {
	if sessionID != "" {
		return dao.Session(sessionID)
	}

	_, claims, _ := jwtauth.FromContext(r.Context())
	userID, _ := claims["user_id"].(string)

	session := &model.Session{
		SessionID: uuid.New().String(),
		UserID:    userID,
		Title:     sessionTitle(message),
	}
	err := dao.CreateSession(session)
	if err != nil {
		return nil, err
	}

	event, err := model.ToEvent(model.SessionCreatedEvent, session.SessionID, map[string]string{
		"title":  session.Title,
		"userId": session.UserID,
	})
	if err == nil {
		_, err = dao.CreateEvent(event)
	}
	if err != nil {
		logrus.Warnf("cannot record session creation: %s", err)
	}

	return session, nil
}

func sessionHistory(dao *store.Store, sessionID string) ([]*genai.Content, error) {
	storedMessages, err := dao.Messages(sessionID)
	if err != nil {
		return nil, err
	}

	history := []*genai.Content{}
	for _, message := range storedMessages {
		content, err := message.Content()
		if err != nil {
			logrus.Warnf("cannot deserialize stored message: %s", err)
			continue
		}
		history = append(history, content)
	}
	return history, nil
}

func persistContent(dao *store.Store, sessionID string, invocationID string, content *genai.Content) error {
	message, err := model.ToMessage(sessionID, invocationID, content)
	if err != nil {
		return err
	}
	return dao.CreateMessage(message)
}

func reportBlockedCommand(dao *store.Store, manager notifications.Manager, sessionID string, event agent.Event) {
	tool := toolName(event.Tool)
	blockedEvent, err := model.ToEvent(model.CommandBlockedEvent, sessionID, map[string]string{
		"tool":    tool,
		"command": event.Command,
		"reason":  event.Result,
	})
	if err == nil {
		_, err = dao.CreateEvent(blockedEvent)
	}
	if err != nil {
		logrus.Warnf("cannot record blocked command: %s", err)
	}

	manager.Broadcast(notifications.MessageFromBlockedCommand(tool, event.Command, event.Result, sessionID))
}

// toolName turns a function declaration name like run_gcloud_command
// into the CLI name it wraps.
func toolName(functionName string) string {
	return strings.TrimSuffix(strings.TrimPrefix(functionName, "run_"), "_command")
}

func sessionTitle(message string) string {
	title := strings.TrimSpace(message)
	if idx := strings.IndexByte(title, '\n'); idx > 0 {
		title = title[:idx]
	}

	runes := []rune(title)
	if len(runes) > 80 {
		title = string(runes[:77]) + "..."
	}
	return title
}
