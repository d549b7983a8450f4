package store

import (
	"time"

	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/gantry-io/gantry/pkg/console/store/sql"
	"github.com/russross/meddler"
)

// CreateFeedback stores a feedback record
func (db *Store) CreateFeedback(feedback *model.Feedback) error {
	feedback.Created = time.Now().Unix()
	return meddler.Insert(db, "feedback", feedback)
}

// FeedbackSince returns feedback entries newer than the cutoff
func (db *Store) FeedbackSince(since int64) ([]*model.Feedback, error) {
	stmt := sql.Stmt(db.driver, sql.SelectFeedbackSince)
	var data []*model.Feedback
	err := meddler.QueryAll(db, &data, stmt, since)
	return data, err
}
