package store

import (
	"time"

	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/gantry-io/gantry/pkg/console/store/sql"
	"github.com/google/uuid"
	"github.com/russross/meddler"
)

// CreateEvent stores a new event in the database and notifies the
// subscribed workers
func (db *Store) CreateEvent(event *model.Event) (*model.Event, error) {
	event.ID = uuid.New().String()
	event.Created = time.Now().Unix()
	event.Status = model.StatusNew
	if err := meddler.Insert(db, "events", event); err != nil {
		return nil, err
	}

	db.notifyEventCreated(event)
	return event, nil
}

// createEvent stores a new event in the database, but it is able to fake the created date.
// Should be only used in tests
func (db *Store) createEvent(event *model.Event, created int64) (*model.Event, error) {
	event.ID = uuid.New().String()
	event.Created = created
	event.Status = model.StatusNew
	return event, meddler.Insert(db, "events", event)
}

// Events returns events since the given timestamp, newest first
func (db *Store) Events(since int64, limit int) ([]*model.Event, error) {
	stmt := sql.Stmt(db.driver, sql.SelectEventsSince)
	var data []*model.Event
	err := meddler.QueryAll(db, &data, stmt, since, limit)
	return data, err
}

// EventsOfType returns events of one type since the given timestamp,
// oldest first
func (db *Store) EventsOfType(eventType string, since int64) ([]*model.Event, error) {
	stmt := sql.Stmt(db.driver, sql.SelectEventsOfTypeSince)
	var data []*model.Event
	err := meddler.QueryAll(db, &data, stmt, eventType, since)
	return data, err
}

// UnprocessedEvents selects the oldest unprocessed events
func (db *Store) UnprocessedEvents() (events []*model.Event, err error) {
	stmt := sql.Stmt(db.driver, sql.SelectUnprocessedEvents)
	err = meddler.QueryAll(db, &events, stmt)
	return events, err
}

// UpdateEventStatus updates an event status in the database
func (db *Store) UpdateEventStatus(id string, status string, desc string) error {
	stmt := sql.Stmt(db.driver, sql.UpdateEventStatus)
	_, err := db.Exec(stmt, status, desc, id)
	return err
}
