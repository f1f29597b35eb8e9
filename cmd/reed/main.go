package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/Ramsey-B/reed/config"
	"github.com/Ramsey-B/reed/pkg/commands"
	"github.com/Ramsey-B/reed/pkg/commands/registry"
	"github.com/Ramsey-B/reed/pkg/database"
	"github.com/Ramsey-B/reed/pkg/extract"
	"github.com/Ramsey-B/reed/pkg/health"
	"github.com/Ramsey-B/reed/pkg/liveness"
	"github.com/Ramsey-B/reed/pkg/loader"
	"github.com/Ramsey-B/reed/pkg/metrics"
	"github.com/Ramsey-B/reed/pkg/middleware"
	"github.com/Ramsey-B/reed/pkg/schema"
	"github.com/Ramsey-B/reed/pkg/sink"
	"github.com/Ramsey-B/reed/pkg/startup"
	"github.com/Ramsey-B/reed/pkg/task"
	"github.com/Ramsey-B/reed/pkg/tracing"
	"github.com/Ramsey-B/reed/pkg/tracing/exporters"
	"github.com/Ramsey-B/reed/pkg/vfs"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Errorf("reed exited with error: %v", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) ectologger.Logger {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapConfig zap.Config
	if cfg.PrettyLogs {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	zapLogger, err := zapConfig.Build()
	if err != nil {
		zapLogger = zap.NewNop()
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func run(ctx context.Context, cfg *config.Config, logger ectologger.Logger) error {
	for _, command := range commands.CommandDefinitions {
		registry.Commands[command.Key] = command.Factory
	}

	if cfg.TracingEnabled {
		provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(&exporters.ConsoleExporter{}))
		defer func() {
			if err := provider.Shutdown(context.Background()); err != nil {
				logger.WithError(err).Warn("Failed to shut down tracer provider")
			}
		}()
		tracing.SetTracer(provider.Tracer(cfg.AppName))
	}

	router := vfs.NewRouter(vfs.NewLocal())
	if cfg.S3Region != "" {
		s3Client, err := vfs.NewS3Client(ctx, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey)
		if err != nil {
			return fmt.Errorf("failed to build S3 client: %w", err)
		}
		router.Mount("s3", vfs.NewS3(s3Client))
	}

	app := &application{
		cfg:       cfg,
		logger:    logger,
		fs:        router,
		schema:    schema.NewStatic(cfg.UniqueKeyField, nil),
		extractor: extract.NewDocconvExtractor(logger, false),
	}

	boot := startup.NewStartup(logger, cfg.StartupMaxAttempts)
	opsNeeds := []string{}
	if cfg.LoaderMode == "postgres" {
		boot.AddDependency(startup.Dep{Name: "database", OnStart: app.startDatabase, OnStop: app.stopDatabase})
		opsNeeds = append(opsNeeds, "database")
	}
	if cfg.RedisHost != "" {
		boot.AddDependency(startup.Dep{Name: "redis", OnStart: app.startRedis, OnStop: app.stopRedis})
		opsNeeds = append(opsNeeds, "redis")
	}
	if cfg.LoaderMode != "postgres" {
		boot.AddDependency(startup.Dep{Name: "sink", OnStart: app.startSink, OnStop: app.stopSink})
		opsNeeds = append(opsNeeds, "sink")
	}
	boot.AddDependency(startup.Dep{Name: "ops-server", Needs: opsNeeds, OnStart: app.startOpsServer, OnStop: app.stopOpsServer})

	if err := boot.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := boot.Stop(stopCtx); err != nil {
			logger.WithError(err).Warn("Shutdown finished with errors")
		}
	}()

	inputs, err := app.resolveInputs(ctx)
	if err != nil {
		return err
	}

	if err := app.runTasks(ctx, inputs); err != nil {
		return err
	}

	logger.WithContext(ctx).Info("All tasks completed")
	return nil
}

type application struct {
	cfg    *config.Config
	logger ectologger.Logger

	fs        *vfs.Router
	schema    schema.Resolver
	extractor extract.Extractor

	db      database.DB
	redis   *liveness.Client
	out     sink.Sink
	drained chan struct{}
	checker *health.Checker
	server  *echo.Echo
}

func (a *application) startDatabase(ctx context.Context) error {
	db, err := database.Connect(database.Config{
		Host:            a.cfg.DatabaseHost,
		Port:            a.cfg.DatabasePort,
		User:            a.cfg.DatabaseUserName,
		Password:        a.cfg.DatabasePassword,
		Name:            a.cfg.DatabaseName,
		SSLMode:         a.cfg.DatabaseSSLMode,
		MaxOpenConns:    a.cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    a.cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: a.cfg.DatabaseConnMaxLifetime,
	}, a.logger)
	if err != nil {
		return err
	}
	a.db = db

	driver, err := database.PostgresDriver(db)
	if err != nil {
		return err
	}

	migrations := database.NewMigrationService(a.logger, &database.MigrationConfig{
		MigrationFolderPath: a.cfg.DatabaseMigrationFolderPath,
		Version:             uint(a.cfg.DatabaseMigrationVersion),
		Force:               a.cfg.DatabaseMigrationForce,
		AutoRollback:        a.cfg.DatabaseMigrationAutoRollback,
	})
	return migrations.Migrate(a.cfg.DatabaseName, driver)
}

func (a *application) stopDatabase(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *application) startRedis(ctx context.Context) error {
	client, err := liveness.NewClient(liveness.RedisConfig{
		Host:     a.cfg.RedisHost,
		Port:     a.cfg.RedisPort,
		Password: a.cfg.RedisPassword,
		DB:       a.cfg.RedisDB,
	}, a.logger)
	if err != nil {
		return err
	}
	a.redis = client
	return nil
}

func (a *application) stopRedis(ctx context.Context) error {
	if a.redis == nil {
		return nil
	}
	return a.redis.Close()
}

func (a *application) startSink(ctx context.Context) error {
	if a.cfg.SinkMode == "kafka" {
		out, err := sink.NewKafka(sink.KafkaConfig{
			Brokers:      a.cfg.KafkaBrokers,
			Topic:        a.cfg.KafkaOutputTopic,
			BatchSize:    a.cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(a.cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: a.cfg.KafkaRequiredAcks,
			Compression:  a.cfg.KafkaCompression,
		}, a.logger)
		if err != nil {
			return err
		}
		a.out = out
		return nil
	}

	// Local mode: documents stream to stdout as JSON lines.
	channel := sink.NewChannel(1024)
	a.out = channel
	a.drained = make(chan struct{})
	go func() {
		defer close(a.drained)
		for msg := range channel.Messages() {
			line, err := json.Marshal(msg)
			if err != nil {
				a.logger.WithError(err).Warn("Failed to encode document")
				continue
			}
			fmt.Fprintln(os.Stdout, string(line))
		}
	}()
	return nil
}

func (a *application) stopSink(ctx context.Context) error {
	if a.out == nil {
		return nil
	}
	if err := a.out.Close(); err != nil {
		return err
	}
	if a.drained != nil {
		select {
		case <-a.drained:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (a *application) startOpsServer(ctx context.Context) error {
	a.checker = health.NewChecker(version)
	if a.db != nil {
		a.checker.AddCheck("database", a.db.PingContext)
	}
	if a.redis != nil {
		a.checker.AddCheck("redis", a.redis.Ping)
	}
	if a.out != nil {
		a.checker.AddCheck("sink", a.out.Ping)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(a.logger)
	e.Use(middleware.Logger(a.logger))
	a.checker.RegisterRoutes(e)
	a.server = e

	go func() {
		addr := fmt.Sprintf(":%d", a.cfg.Port)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.WithError(err).Errorf("Ops server stopped: %v", err)
		}
	}()

	a.checker.SetReady(true)
	return nil
}

func (a *application) stopOpsServer(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	a.checker.SetReady(false)
	return a.server.Shutdown(ctx)
}

// resolveInputs returns the input locations for this run, either directly from
// configuration or by reading the configured manifest.
func (a *application) resolveInputs(ctx context.Context) ([]string, error) {
	if len(a.cfg.InputPaths) > 0 {
		return a.cfg.InputPaths, nil
	}
	if a.cfg.InputManifest == "" {
		return nil, fmt.Errorf("no inputs configured: set INPUT_PATHS or INPUT_MANIFEST")
	}

	stream, err := a.fs.Open(ctx, a.cfg.InputManifest)
	if err != nil {
		return nil, fmt.Errorf("failed to open input manifest %s: %w", a.cfg.InputManifest, err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read input manifest %s: %w", a.cfg.InputManifest, err)
	}

	var inputs []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, line)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("input manifest %s is empty", a.cfg.InputManifest)
	}
	return inputs, nil
}

func (a *application) runTasks(ctx context.Context, inputs []string) error {
	settings := task.Settings{
		task.SettingLivenessInterval: a.cfg.LivenessInterval.String(),
	}
	if a.cfg.ChainConfigLocation != "" {
		settings[task.SettingChainConfig] = a.cfg.ChainConfigLocation
	}
	if a.cfg.LoaderIDPrefix != "" {
		settings[task.SettingIDPrefix] = a.cfg.LoaderIDPrefix
	}

	slices := splitInputs(inputs, a.cfg.TaskParallelism)
	a.logger.WithContext(ctx).Infof("Processing %d inputs across %d tasks", len(inputs), len(slices))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, slice := range slices {
		taskID := fmt.Sprintf("%s-%s", a.cfg.AppName, uuid.NewString())
		tsk := task.NewTask(taskID, settings, task.Deps{
			Logger:     a.logger,
			FileSystem: a.fs,
			Extractor:  a.extractor,
			Schema:     a.schema,
			Signaler:   a.newSignaler(taskID, settings),
			Counters:   metrics.TaskCounters{},
			NewLoader:  a.newLoaderFactory(),
			Seed:       time.Now().UnixNano() + int64(i),
		})
		group.Go(func() error {
			return tsk.Run(groupCtx, slice)
		})
	}
	return group.Wait()
}

func (a *application) newSignaler(taskID string, settings task.Settings) task.Signaler {
	if a.redis == nil {
		return task.NopSignaler{}
	}
	interval := settings.Duration(task.SettingLivenessInterval, liveness.DefaultInterval)
	beacon := liveness.NewRedisBeacon(a.redis, taskID, a.cfg.LivenessTTL)
	return liveness.NewSignaler(beacon, interval, a.logger)
}

func (a *application) newLoaderFactory() task.LoaderFactory {
	if a.cfg.LoaderMode == "postgres" {
		return func(options loader.Options) (loader.DocumentLoader, error) {
			return loader.NewDirectLoader(a.db, options, a.logger), nil
		}
	}
	return func(options loader.Options) (loader.DocumentLoader, error) {
		return loader.NewSinkLoader(a.out, options, a.logger), nil
	}
}

// splitInputs slices the input list into at most parallelism contiguous
// chunks, one per task.
func splitInputs(inputs []string, parallelism int) [][]string {
	if parallelism > len(inputs) {
		parallelism = len(inputs)
	}
	if parallelism < 1 {
		parallelism = 1
	}

	chunk := (len(inputs) + parallelism - 1) / parallelism
	slices := make([][]string, 0, parallelism)
	for start := 0; start < len(inputs); start += chunk {
		end := start + chunk
		if end > len(inputs) {
			end = len(inputs)
		}
		slices = append(slices, inputs[start:end])
	}
	return slices
}
