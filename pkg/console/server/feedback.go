package server

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/gantry-io/gantry/pkg/console/notifications"
	"github.com/gantry-io/gantry/pkg/console/store"
	"github.com/gantry-io/gantry/pkg/console/telemetry"
	"github.com/sirupsen/logrus"
)

type feedbackRequest struct {
	SessionID    string `json:"sessionId"`
	InvocationID string `json:"invocationId,omitempty"`
	Score        int    `json:"score"`
	Text         string `json:"text,omitempty"`
}

func saveFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}
	if req.Score < 1 || req.Score > 5 {
		http.Error(w, "score must be between 1 and 5", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	dao := ctx.Value("store").(*store.Store)
	emitter := ctx.Value("telemetry").(*telemetry.Emitter)
	notificationsManager := ctx.Value("notificationsManager").(notifications.Manager)

	_, err = dao.Session(req.SessionID)
	if err == sql.ErrNoRows {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	} else if err != nil {
		logrus.Errorf("cannot get session: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	feedback := &model.Feedback{
		SessionID:    req.SessionID,
		InvocationID: req.InvocationID,
		Score:        req.Score,
		Text:         req.Text,
	}
	err = dao.CreateFeedback(feedback)
	if err != nil {
		logrus.Errorf("cannot save feedback: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	emitter.EmitFeedback(*feedback)
	notificationsManager.Broadcast(notifications.MessageFromFeedback(*feedback))

	event, err := model.ToEvent(model.FeedbackReceivedEvent, feedback.SessionID, feedback)
	if err == nil {
		_, err = dao.CreateEvent(event)
	}
	if err != nil {
		logrus.Warnf("cannot record feedback event: %s", err)
	}

	feedbackString, err := json.Marshal(feedback)
	if err != nil {
		logrus.Errorf("cannot serialize feedback: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write(feedbackString)
}
