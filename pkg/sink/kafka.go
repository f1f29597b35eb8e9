package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"
)

// KafkaConfig configures the Kafka-backed sink.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	WriteTimeout time.Duration
	MaxAttempts  int
	Compression  string
	RequiredAcks int
}

// Kafka publishes emitted documents to a Kafka topic, keyed by document
// identity so one document's versions land on one partition.
type Kafka struct {
	writer *kafka.Writer
	logger ectologger.Logger
	config KafkaConfig
}

func NewKafka(config KafkaConfig, logger ectologger.Logger) (*Kafka, error) {
	if len(config.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if config.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	var compression kafka.Compression
	switch config.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "snappy":
		compression = kafka.Snappy
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	default:
		compression = 0 // No compression
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(config.Brokers...),
		Topic:                  config.Topic,
		Balancer:               &kafka.Hash{}, // Hash by key for partition affinity
		BatchSize:              config.BatchSize,
		BatchTimeout:           config.BatchTimeout,
		MaxAttempts:            config.MaxAttempts,
		WriteTimeout:           config.WriteTimeout,
		Compression:            compression,
		RequiredAcks:           kafka.RequiredAcks(config.RequiredAcks),
		AllowAutoTopicCreation: true,
	}

	return &Kafka{
		writer: writer,
		logger: logger,
		config: config,
	}, nil
}

func (k *Kafka) Emit(ctx context.Context, key string, fields map[string]any) error {
	value, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to serialize document '%s': %w", key, err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now().UTC(),
	}

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish document '%s': %w", key, err)
	}

	return nil
}

func (k *Kafka) Ping(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", k.config.Brokers[0])
	if err != nil {
		return fmt.Errorf("failed to reach broker: %w", err)
	}
	return conn.Close()
}

func (k *Kafka) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close sink writer: %w", err)
	}
	k.logger.Info("Kafka sink closed")
	return nil
}

// Stats returns writer statistics.
func (k *Kafka) Stats() kafka.WriterStats {
	return k.writer.Stats()
}
