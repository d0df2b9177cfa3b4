package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisherWritesKeyedEnvelope(t *testing.T) {
	writer := &fakeWriter{}
	pub := &KafkaPublisher{writer: writer}

	env, err := NewEnvelope(EventOrderCreated, "marketplace-api", OrderPayload{OrderID: 7, Code: "abc", Status: "created", TotalPrice: 1500})
	require.NoError(t, err)
	require.NoError(t, pub.Publish(context.Background(), "abc", env))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "abc", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, EventOrderCreated, string(msg.Headers[0].Value))

	var decoded Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, env.EventID, decoded.EventID)
	assert.Equal(t, 1, decoded.EventVersion)

	var payload OrderPayload
	require.NoError(t, json.Unmarshal(decoded.Payload, &payload))
	assert.Equal(t, int64(1500), payload.TotalPrice)

	require.NoError(t, pub.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisherSurfacesWriteErrors(t *testing.T) {
	pub := &KafkaPublisher{writer: &fakeWriter{err: errors.New("broker down")}}
	env, err := NewEnvelope(EventOrderPaid, "marketplace-api", OrderPayload{Code: "abc"})
	require.NoError(t, err)

	err = pub.Publish(context.Background(), "abc", env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestNewEnvelopeRejectsUnmarshalablePayload(t *testing.T) {
	_, err := NewEnvelope(EventOrderPaid, "api", map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
}

func TestNoopPublisher(t *testing.T) {
	var pub Publisher = NoopPublisher{}
	assert.NoError(t, pub.Publish(context.Background(), "k", Envelope{}))
	assert.NoError(t, pub.Close())
}
