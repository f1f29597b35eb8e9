package config

import (
	"fmt"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/joho/godotenv"

	"github.com/Ramsey-B/reed/pkg/utils"
)

type Config struct {
	AppName            string `env:"APP_NAME" env-default:"reed"`
	Environment        string `env:"ENVIRONMENT" env-default:"development"`
	LogLevel           string `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs         bool   `env:"PRETTY_LOGS" env-default:"false"`
	Port               int    `env:"PORT" env-default:"3004"`
	StartupMaxAttempts int    `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// Inputs. A manifest is a newline-separated list of input locations,
	// read through the filesystem abstraction; InputPaths feeds locations
	// directly and wins when both are set.
	InputManifest   string   `env:"INPUT_MANIFEST" env-default:""`
	InputPaths      []string `env:"INPUT_PATHS" env-default:""`
	TaskParallelism int      `env:"TASK_PARALLELISM" env-default:"4" validate:"min=1"`

	// Chain
	ChainConfigLocation string `env:"CHAIN_CONFIG_LOCATION" env-default:""`
	LoaderIDPrefix      string `env:"LOADER_ID_PREFIX" env-default:""`
	UniqueKeyField      string `env:"SCHEMA_UNIQUE_KEY_FIELD" env-default:"id"`

	// Where finished documents go: "sink" hands them to the configured sink,
	// "postgres" upserts them directly.
	LoaderMode string `env:"LOADER_MODE" env-default:"sink" validate:"oneof=sink postgres"`
	SinkMode   string `env:"SINK_MODE" env-default:"channel" validate:"oneof=channel kafka"`

	// Kafka Producer
	KafkaBrokers      []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaOutputTopic  string   `env:"KAFKA_OUTPUT_TOPIC" env-default:"reed-documents"`
	KafkaBatchSize    int      `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int      `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int      `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string   `env:"KAFKA_COMPRESSION" env-default:"snappy"`

	// PostgreSQL (direct loader)
	DatabaseHost                  string        `env:"DB_HOST" env-default:""`
	DatabasePort                  int           `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName              string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword              string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                  string        `env:"DB_NAME" env-default:"reed"`
	DatabaseSSLMode               string        `env:"DB_SQL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns          int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns          int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath   string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"migrations"`
	DatabaseMigrationVersion      int           `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationForce        int           `env:"DB_MIGRATION_FORCE" env-default:"0"`
	DatabaseMigrationAutoRollback bool          `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Redis (liveness beacon)
	RedisHost     string `env:"REDIS_HOST" env-default:""`
	RedisPort     int    `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" env-default:""`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`

	LivenessInterval time.Duration `env:"LIVENESS_INTERVAL" env-default:"60s"`
	LivenessTTL      time.Duration `env:"LIVENESS_TTL" env-default:"180s"`

	// S3. Region empty disables the s3:// scheme; credentials empty falls
	// back to the default AWS provider chain.
	S3Region    string `env:"AWS_REGION" env-default:""`
	S3AccessKey string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	S3SecretKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`

	TracingEnabled bool `env:"TRACING_ENABLED" env-default:"false"`
}

// Load reads an optional .env file, binds the environment into a Config and
// validates it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := ectoenv.BindEnvVars(&cfg); err != nil {
		return nil, fmt.Errorf("failed to bind environment variables: %w", err)
	}

	if _, err := utils.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
