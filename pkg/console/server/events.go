package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/gantry-io/gantry/pkg/console/store"
	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"
)

func getEvents(w http.ResponseWriter, r *http.Request) {
	dao := r.Context().Value("store").(*store.Store)

	var since int64
	if s := r.URL.Query().Get("since"); s != "" {
		var err error
		since, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			http.Error(w, "cannot parse since", http.StatusBadRequest)
			return
		}
	}

	limit := 50
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}

	events, err := dao.Events(since, limit)
	if err != nil {
		logrus.Errorf("cannot list events: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if pattern := r.URL.Query().Get("type"); pattern != "" {
		g, err := glob.Compile(pattern)
		if err != nil {
			http.Error(w, "invalid type pattern", http.StatusBadRequest)
			return
		}

		filtered := []*model.Event{}
		for _, event := range events {
			if g.Match(event.Type) {
				filtered = append(filtered, event)
			}
		}
		events = filtered
	}

	eventsString, err := json.Marshal(events)
	if err != nil {
		logrus.Errorf("cannot serialize events: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(200)
	w.Write(eventsString)
}
