package worker

import (
	"encoding/json"

	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/gantry-io/gantry/pkg/console/server/streaming"
	"github.com/gantry-io/gantry/pkg/console/store"
	"github.com/sirupsen/logrus"
)

// EventsWorker pushes stored events to the connected websocket clients
type EventsWorker struct {
	dao       *store.Store
	clientHub *streaming.ClientHub
	events    chan *model.Event
}

func NewEventsWorker(
	dao *store.Store,
	clientHub *streaming.ClientHub,
) *EventsWorker {
	return &EventsWorker{
		dao:       dao,
		clientHub: clientHub,
		events:    make(chan *model.Event, 100),
	}
}

func (a *EventsWorker) Run() {
	a.dao.SubscribeToEventCreated(func(event *model.Event) {
		a.events <- event
	})

	// events stored while no worker was running
	backlog, err := a.dao.UnprocessedEvents()
	if err != nil {
		logrus.Errorf("could not fetch unprocessed events %s", err.Error())
	}
	for _, event := range backlog {
		a.process(event)
	}

	for {
		event := <-a.events
		a.process(event)
	}
}

func (a *EventsWorker) process(event *model.Event) {
	eventString, err := json.Marshal(streaming.ConsoleEvent{
		StreamingEvent: streaming.StreamingEvent{Event: event.Type},
		Payload:        event,
	})
	if err != nil {
		logrus.Warnf("cannot serialize event: %s", err)
		return
	}

	a.clientHub.Broadcast <- eventString

	err = a.dao.UpdateEventStatus(event.ID, model.StatusProcessed, "")
	if err != nil {
		logrus.Warnf("cannot mark event processed: %s", err)
	}
}
