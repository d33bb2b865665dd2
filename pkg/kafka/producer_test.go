package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafka_config "typesanitizer/pkg/kafka/config"
)

func TestProducer_Publish(t *testing.T) {
	writer := &fakeWriter{}
	p := newProducer(writer, "clean")

	var seenTopic string
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		seenTopic = msg.Topic
		return next(ctx, msg)
	})

	msg, err := NewMessage().WithKey("k").WithRawValue([]byte(`{}`)).WithEventID("e1").Build()
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), msg))

	written := writer.messages()
	require.Len(t, written, 1)
	assert.Empty(t, written[0].Topic)
	assert.Equal(t, []byte("k"), written[0].Key)
	assert.Equal(t, "e1", headerValue(written[0], HeaderEventID))
	assert.Equal(t, "clean", seenTopic)
}

func TestProducer_PublishValidation(t *testing.T) {
	p := newProducer(&fakeWriter{}, "clean")

	assert.ErrorIs(t, p.Publish(context.Background(), Message{Value: []byte("v")}), ErrEmptyKey)
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k"}), ErrEmptyValue)
}

func TestProducer_PublishWriteError(t *testing.T) {
	cause := errors.New("leader not available")
	p := newProducer(&fakeWriter{err: cause}, "clean")

	err := p.Publish(context.Background(), Message{Key: "k", Value: []byte("v")})
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrorTypeTransient, ClassifyError(err))
}

func TestProducer_PublishBatch(t *testing.T) {
	writer := &fakeWriter{}
	p := newProducer(writer, "clean")

	err := p.PublishBatch(context.Background(), []Message{
		{Key: "a", Value: []byte("1")},
		{Key: "", Value: []byte("2")},
		{Key: "c", Value: []byte("3")},
	})
	require.NoError(t, err)
	assert.Len(t, writer.messages(), 2)

	assert.ErrorIs(t, p.PublishBatch(context.Background(), []Message{{Key: "x"}}), ErrInvalidMessage)
}

func TestProducer_Close(t *testing.T) {
	writer := &fakeWriter{}
	p := newProducer(writer, "clean")

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.True(t, writer.closed)
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k", Value: []byte("v")}), ErrProducerClosed)
	assert.ErrorIs(t, p.PublishBatch(context.Background(), nil), ErrProducerClosed)
}

func TestNewProducer(t *testing.T) {
	cfg := kafka_config.FromEnv()

	p, err := NewProducer(cfg, "clean", nil)
	require.NoError(t, err)
	assert.Equal(t, "clean", p.Topic())
	require.NoError(t, p.Close())

	_, err = NewProducer(nil, "clean", nil)
	assert.Error(t, err)
	_, err = NewProducer(cfg, "", nil)
	assert.Error(t, err)
}
