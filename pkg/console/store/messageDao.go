package store

import (
	"time"

	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/gantry-io/gantry/pkg/console/store/sql"
	"github.com/russross/meddler"
)

// CreateMessage appends a message to a session
func (db *Store) CreateMessage(message *model.Message) error {
	message.Created = time.Now().Unix()
	return meddler.Insert(db, "messages", message)
}

// Messages returns the messages of a session in conversation order
func (db *Store) Messages(sessionID string) ([]*model.Message, error) {
	stmt := sql.Stmt(db.driver, sql.SelectMessagesBySession)
	var data []*model.Message
	err := meddler.QueryAll(db, &data, stmt, sessionID)
	return data, err
}
