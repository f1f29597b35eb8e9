// Package e2e exercises the whole pipeline: real files on disk, the real
// extractor and chain, and a real sink. The Kafka tests skip when no broker is
// reachable.
package e2e

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

// Config holds the endpoints the end-to-end tests talk to.
type Config struct {
	KafkaBrokers []string
	OutputTopic  string
}

// DefaultConfig returns the test configuration, overridable from the
// environment.
func DefaultConfig() Config {
	return Config{
		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		OutputTopic:  getEnv("KAFKA_OUTPUT_TOPIC", "reed-documents-e2e"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// RequireKafka skips the test when no broker is reachable.
func RequireKafka(t *testing.T, brokers []string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		t.Skipf("Skipping: kafka broker at %s is not available", brokers[0])
		return
	}
	conn.Close()
}

// KafkaHelper provides Kafka testing utilities.
type KafkaHelper struct {
	brokers []string
}

// NewKafkaHelper creates a new Kafka helper.
func NewKafkaHelper(brokers []string) *KafkaHelper {
	return &KafkaHelper{brokers: brokers}
}

// ConsumeMessagesAfter consumes up to maxMessages from a topic, keeping only
// messages published after 'afterTime' so stale runs do not leak into
// assertions.
func (k *KafkaHelper) ConsumeMessagesAfter(ctx context.Context, topic, groupID string, timeout time.Duration, maxMessages int, afterTime time.Time) ([]kafka.Message, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  k.brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	})
	defer reader.Close()

	messages := make([]kafka.Message, 0, maxMessages)
	deadline := time.Now().Add(timeout)

	for len(messages) < maxMessages && time.Now().Before(deadline) {
		fetchCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
		msg, err := reader.FetchMessage(fetchCtx)
		cancel()

		if err != nil {
			if fetchCtx.Err() != nil {
				continue // Timeout, try again
			}
			return messages, err
		}

		// Commit everything to advance the offset, but only keep recent
		// messages.
		reader.CommitMessages(context.Background(), msg)

		if !afterTime.IsZero() && msg.Time.Before(afterTime) {
			continue
		}

		messages = append(messages, msg)
	}

	return messages, nil
}
