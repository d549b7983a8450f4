package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/gantry-io/gantry/pkg/console/store"
	"github.com/go-chi/chi"
	"github.com/sirupsen/logrus"
)

func getSessions(w http.ResponseWriter, r *http.Request) {
	dao := r.Context().Value("store").(*store.Store)

	limit := 50
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}

	sessions, err := dao.Sessions(limit)
	if err != nil {
		logrus.Errorf("cannot list sessions: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionsString, err := json.Marshal(sessions)
	if err != nil {
		logrus.Errorf("cannot serialize sessions: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(200)
	w.Write(sessionsString)
}

type sessionDetails struct {
	*model.Session
	Messages []*model.Message `json:"messages"`
}

func getSession(w http.ResponseWriter, r *http.Request) {
	dao := r.Context().Value("store").(*store.Store)
	id := chi.URLParam(r, "id")

	session, err := dao.Session(id)
	if err == sql.ErrNoRows {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	} else if err != nil {
		logrus.Errorf("cannot get session: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	messages, err := dao.Messages(id)
	if err != nil {
		logrus.Errorf("cannot get session messages: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	detailsString, err := json.Marshal(sessionDetails{
		Session:  session,
		Messages: messages,
	})
	if err != nil {
		logrus.Errorf("cannot serialize session: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(200)
	w.Write(detailsString)
}
