package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brgydocs/internal/model"
)

func TestRedisPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	sub := client.Subscribe(ctx, "document-requests.status")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	actor := int64(3)
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	pub := NewRedisPublisher(client, "document-requests.status")
	require.NoError(t, pub.Publish(ctx, StatusChanged(7, model.StatusReady, model.StatusReleased, &actor, "rid-1", at)))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var got Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, TypeStatusChanged, got.Type)
	assert.Equal(t, int64(7), got.DocumentRequestID)
	assert.Equal(t, model.StatusReady, got.OldStatus)
	assert.Equal(t, model.StatusReleased, got.NewStatus)
	assert.Equal(t, &actor, got.ActorID)
	assert.Equal(t, "rid-1", got.CorrelationID)
	assert.True(t, at.Equal(got.OccurredAt))
}

func TestRedisPublisher_PublishError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	pub := NewRedisPublisher(client, "document-requests.status")
	err := pub.Publish(context.Background(), Event{Type: TypeStatusChanged})

	assert.ErrorContains(t, err, "publish document-requests.status")
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Publish(context.Background(), Event{}))
}
