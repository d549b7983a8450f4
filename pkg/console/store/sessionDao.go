package store

import (
	"time"

	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/gantry-io/gantry/pkg/console/store/sql"
	"github.com/russross/meddler"
)

// CreateSession stores a new session
func (db *Store) CreateSession(session *model.Session) error {
	session.Created = time.Now().Unix()
	session.Updated = session.Created
	return meddler.Insert(db, "sessions", session)
}

// Session gets a session by its client facing id
func (db *Store) Session(sessionID string) (*model.Session, error) {
	stmt := sql.Stmt(db.driver, sql.SelectSessionByID)
	data := new(model.Session)
	err := meddler.QueryRow(db, data, stmt, sessionID)
	return data, err
}

// Sessions returns the most recently used sessions
func (db *Store) Sessions(limit int) ([]*model.Session, error) {
	stmt := sql.Stmt(db.driver, sql.SelectSessions)
	var data []*model.Session
	err := meddler.QueryAll(db, &data, stmt, limit)
	return data, err
}

// SessionsSince returns sessions created after the cutoff
func (db *Store) SessionsSince(since int64) ([]*model.Session, error) {
	stmt := sql.Stmt(db.driver, sql.SelectSessionsSince)
	var data []*model.Session
	err := meddler.QueryAll(db, &data, stmt, since)
	return data, err
}

// UpdateSession persists plan state and bumps the updated stamp
func (db *Store) UpdateSession(session *model.Session) error {
	session.Updated = time.Now().Unix()
	return meddler.Update(db, "sessions", session)
}

// DeleteSessionsBefore removes sessions not used since the cutoff,
// together with their messages. Feedback is kept for reporting.
func (db *Store) DeleteSessionsBefore(cutoff int64) (int64, error) {
	stmt := sql.Stmt(db.driver, sql.DeleteMessagesOfSessionsBefore)
	if _, err := db.Exec(stmt, cutoff); err != nil {
		return 0, err
	}

	stmt = sql.Stmt(db.driver, sql.DeleteSessionsBefore)
	result, err := db.Exec(stmt, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
