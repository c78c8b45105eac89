//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	badgerstore "github.com/couchcryptid/neo-impact-service/internal/adapter/badger"
	"github.com/couchcryptid/neo-impact-service/internal/adapter/kafka"
	"github.com/couchcryptid/neo-impact-service/internal/config"
	"github.com/couchcryptid/neo-impact-service/internal/domain"
	"github.com/couchcryptid/neo-impact-service/internal/history"
	"github.com/couchcryptid/neo-impact-service/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const (
	kafkaImage = "confluentinc/confluent-local:7.5.0"
	testTopic  = "test-impact-simulations"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node Kafka container and returns its broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, kafkaImage, tckafka.WithClusterID("neo-impact-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestPublisherRoundTrip verifies that a simulation record published by the
// kafka adapter can be read back with its key and headers intact.
func TestPublisherRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaSimulationTopic: testTopic}
	publisher := kafka.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	rec := domain.SimulationRecord{
		ID:         "2f1c7a3e-0d4b-4a57-9b8e-5f6a1c2d3e4f",
		Parameters: domain.ImpactParameters{Diameter: 340, Velocity: 12.6, Angle: 45, Density: 3200},
		CreatedAt:  time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC),
	}
	require.NoError(t, publisher.Append(ctx, rec))

	msg := readOne(ctx, t, broker)
	assert.Equal(t, rec.ID, string(msg.Key))
	headers := headerMap(msg)
	assert.Equal(t, rec.ID, headers["record_id"])
	assert.Equal(t, "2026-10-19T15:30:00Z", headers["created_at"])

	var got domain.SimulationRecord
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, rec.Parameters, got.Parameters)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
}

// TestRecorderFansOutToBadgerAndKafka runs the recorder against both real sinks.
func TestRecorderFansOutToBadgerAndKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	store, err := badgerstore.Open(badgerstore.Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	publisher := kafka.NewPublisher(&config.Config{KafkaBrokers: []string{broker}, KafkaSimulationTopic: testTopic}, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	recorder := history.NewRecorder(4, discardLogger(), observability.NewMetricsForTesting(),
		history.NamedSink{Name: "badger", Sink: store},
		history.NamedSink{Name: "kafka", Sink: publisher},
	)

	rec := domain.NewSimulationRecord(domain.ImpactParameters{Diameter: 50, Velocity: 15, Angle: 45, Density: 2000})
	require.True(t, recorder.Record(rec))

	// A cancelled context makes Run flush the queue and return.
	runCtx, stop := context.WithCancel(ctx)
	stop()
	require.NoError(t, recorder.Run(runCtx))

	stored, err := store.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, rec.ID, stored[0].ID)

	msg := readOne(ctx, t, broker)
	assert.Equal(t, rec.ID, string(msg.Key))
}

func readOne(ctx context.Context, t *testing.T, broker string) kafkago.Message {
	t.Helper()
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  1 << 20,
	})
	defer reader.Close()

	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err, "read from simulation topic")
	return msg
}

func headerMap(msg kafkago.Message) map[string]string {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return headers
}
