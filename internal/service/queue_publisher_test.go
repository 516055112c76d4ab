package queue_publisher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurante/internal/config"
)

func TestNewSelectsBroker(t *testing.T) {
	p, err := New(config.Config{EventsBroker: "none"})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, p)

	p, err = New(config.Config{EventsBroker: "amqp", AMQPURL: "amqp://localhost", EventsQueue: "q"})
	require.NoError(t, err)
	assert.IsType(t, &AMQPPublisher{}, p)
	assert.NoError(t, p.Close())

	p, err = New(config.Config{EventsBroker: "kafka", KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "t"})
	require.NoError(t, err)
	kp, ok := p.(*KafkaPublisher)
	require.True(t, ok)
	assert.Equal(t, "t", kp.Writer.Topic)
	assert.NoError(t, p.Close())

	_, err = New(config.Config{EventsBroker: "nats"})
	assert.Error(t, err)
}
