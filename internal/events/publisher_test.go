package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prompt-general/knowledgehub/internal/config"
)

func TestNewEventPopulatesIdentityAndTimestamp(t *testing.T) {
	event := NewEvent(TypeArticleCreated, "entity-1", map[string]string{"title": "T"})

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, TypeArticleCreated, event.Type)
	assert.Equal(t, "entity-1", event.EntityID)
	assert.False(t, event.OccurredAt.IsZero())

	other := NewEvent(TypeArticleCreated, "entity-1", nil)
	assert.NotEqual(t, event.ID, other.ID)
}

func TestMarshalMessageKeysByEntity(t *testing.T) {
	event := NewEvent(TypeSpaceDeleted, "space-9", nil)

	message, err := marshalMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("space-9"), message.Key)

	var decoded Event
	require.NoError(t, json.Unmarshal(message.Value, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, TypeSpaceDeleted, decoded.Type)
}

func TestPublishAfterCloseFails(t *testing.T) {
	publisher := NewKafkaPublisher(config.EventsConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "test-topic",
	}, zap.NewNop())

	require.NoError(t, publisher.Close())
	require.NoError(t, publisher.Close(), "closing twice must be safe")

	err := publisher.Publish(context.Background(), NewEvent(TypeUserSynced, "u-1", nil))
	assert.ErrorIs(t, err, ErrPublisherClosed)
}

func TestNoopPublisherDiscards(t *testing.T) {
	var publisher Publisher = NoopPublisher{}

	assert.NoError(t, publisher.Publish(context.Background(), NewEvent(TypeArticleUpdated, "a-1", nil)))
	assert.NoError(t, publisher.Close())
}
