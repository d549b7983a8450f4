package store

import (
	"testing"

	"github.com/gantry-io/gantry/pkg/console/model"

	"github.com/stretchr/testify/assert"
)

func TestSessionCRUD(t *testing.T) {
	s := NewTest(encryptionKey, encryptionKeyNew)
	defer func() {
		s.Close()
	}()

	session := model.Session{
		SessionID: "aSessionId",
		UserID:    "ops",
		Title:     "what buckets do we have?",
	}

	err := s.CreateSession(&session)
	assert.Nil(t, err)
	assert.NotEqual(t, int64(0), session.Created)

	_, err = s.Session("noSuchSession")
	assert.NotNil(t, err)

	stored, err := s.Session("aSessionId")
	assert.Nil(t, err)
	assert.Equal(t, "ops", stored.UserID)
	assert.Equal(t, "what buckets do we have?", stored.Title)
	assert.False(t, stored.PlanCreated)

	stored.Plan = []string{"List the buckets", "Summarize the findings"}
	stored.PlanCreated = true
	err = s.UpdateSession(stored)
	assert.Nil(t, err)

	updated, err := s.Session("aSessionId")
	assert.Nil(t, err)
	assert.True(t, updated.PlanCreated)
	assert.Equal(t, []string{"List the buckets", "Summarize the findings"}, updated.Plan)

	sessions, err := s.Sessions(10)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(sessions))

	since, err := s.SessionsSince(0)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(since))

	since, err = s.SessionsSince(session.Created + 100)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(since))
}

func TestDeleteSessionsBefore(t *testing.T) {
	s := NewTest(encryptionKey, encryptionKeyNew)
	defer func() {
		s.Close()
	}()

	stale := model.Session{SessionID: "staleSession"}
	err := s.CreateSession(&stale)
	assert.Nil(t, err)

	fresh := model.Session{SessionID: "freshSession"}
	err = s.CreateSession(&fresh)
	assert.Nil(t, err)

	err = s.CreateMessage(&model.Message{SessionID: "staleSession", Role: model.RoleUser, Text: "old question"})
	assert.Nil(t, err)
	err = s.CreateMessage(&model.Message{SessionID: "freshSession", Role: model.RoleUser, Text: "new question"})
	assert.Nil(t, err)

	_, err = s.Exec("UPDATE sessions SET updated = 1 WHERE session_id = 'staleSession';")
	assert.Nil(t, err)

	deleted, err := s.DeleteSessionsBefore(100)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = s.Session("staleSession")
	assert.NotNil(t, err)

	_, err = s.Session("freshSession")
	assert.Nil(t, err)

	messages, err := s.Messages("staleSession")
	assert.Nil(t, err)
	assert.Equal(t, 0, len(messages))

	messages, err = s.Messages("freshSession")
	assert.Nil(t, err)
	assert.Equal(t, 1, len(messages))
}
