package store

import (
	"testing"

	"github.com/gantry-io/gantry/pkg/console/model"

	"github.com/stretchr/testify/assert"
)

func TestFeedbackCRUD(t *testing.T) {
	s := NewTest(encryptionKey, encryptionKeyNew)
	defer func() {
		s.Close()
	}()

	err := s.CreateFeedback(&model.Feedback{
		SessionID:    "aSessionId",
		InvocationID: "anInvocationId",
		Score:        4,
		Text:         "got the buckets listed quickly",
	})
	assert.Nil(t, err)

	err = s.CreateFeedback(&model.Feedback{
		SessionID:    "aSessionId",
		InvocationID: "anotherInvocationId",
		Score:        2,
		Text:         "asked for confirmation twice",
	})
	assert.Nil(t, err)

	feedback, err := s.FeedbackSince(0)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(feedback))
	assert.Equal(t, 6, feedback[0].Score+feedback[1].Score)

	future := feedback[0].Created + 100
	feedback, err = s.FeedbackSince(future)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(feedback))
}
