// Package task runs the per-task extraction lifecycle: configure once, open
// one transaction, process every assigned input through the command chain,
// commit once at shutdown. Per-input failures are counted and logged, never
// fatal; setup and commit failures are.
package task

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/reed/pkg/chainconf"
	"github.com/Ramsey-B/reed/pkg/commands"
	"github.com/Ramsey-B/reed/pkg/errors"
	"github.com/Ramsey-B/reed/pkg/extract"
	"github.com/Ramsey-B/reed/pkg/loader"
	"github.com/Ramsey-B/reed/pkg/metrics"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/record"
	"github.com/Ramsey-B/reed/pkg/schema"
	"github.com/Ramsey-B/reed/pkg/script"
	"github.com/Ramsey-B/reed/pkg/tracing"
	"github.com/Ramsey-B/reed/pkg/vfs"
)

// State is the task's lifecycle position. Transitions run one way:
// uninitialized -> configured -> transaction_open -> (processing)* ->
// committing -> stopped, with failed terminal from any step.
type State int32

const (
	StateUninitialized State = iota
	StateConfigured
	StateTransactionOpen
	StateProcessing
	StateCommitting
	StateStopped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConfigured:
		return "configured"
	case StateTransactionOpen:
		return "transaction_open"
	case StateProcessing:
		return "processing"
	case StateCommitting:
		return "committing"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Signaler keeps the supervising framework convinced the task is alive while
// a single input is being processed. A start is always paired with exactly
// one stop.
type Signaler interface {
	StartSignaling(ctx context.Context)
	StopSignaling(ctx context.Context)
}

// NopSignaler does nothing.
type NopSignaler struct{}

func (NopSignaler) StartSignaling(ctx context.Context) {}
func (NopSignaler) StopSignaling(ctx context.Context)  {}

// LoaderFactory builds the document loader once the task has resolved its
// options from settings.
type LoaderFactory func(options loader.Options) (loader.DocumentLoader, error)

// Deps are the collaborators a task needs. Logger, FileSystem, Extractor,
// Schema and NewLoader are required; Signaler and Counters fall back to
// no-ops, Seed to the current time.
type Deps struct {
	Logger     ectologger.Logger
	FileSystem vfs.FileSystem
	Extractor  extract.Extractor
	Schema     schema.Resolver
	Signaler   Signaler
	Counters   Counters
	NewLoader  LoaderFactory

	// Seed feeds the random identity-prefix policy so distinct tasks get
	// distinct prefixes.
	Seed int64
}

// Task processes one slice of inputs under a single loader transaction. It is
// single-threaded with respect to record processing; the only internal
// concurrency is the liveness signal loop.
type Task struct {
	id       string
	settings Settings
	deps     Deps

	mu    sync.Mutex
	state State

	uniqueKeyField string
	chain          models.Command
	loader         loader.DocumentLoader

	cleanupOnce sync.Once
	cleanupErr  error
}

// NewTask builds an unconfigured task. Call Setup (or Run) before Process.
func NewTask(id string, settings Settings, deps Deps) *Task {
	if deps.Signaler == nil {
		deps.Signaler = NopSignaler{}
	}
	if deps.Counters == nil {
		deps.Counters = NopCounters{}
	}
	if deps.Seed == 0 {
		deps.Seed = time.Now().UnixNano()
	}
	return &Task{
		id:       id,
		settings: settings,
		deps:     deps,
		state:    StateUninitialized,
	}
}

// ID returns the task identifier.
func (t *Task) ID() string {
	return t.id
}

// State returns the task's current lifecycle state.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Task) setState(state State) {
	t.mu.Lock()
	t.state = state
	t.mu.Unlock()
}

// Setup resolves settings, builds the command chain and the loader, and opens
// the task's single transaction. Any failure is fatal: the task enters the
// failed state without processing input.
func (t *Task) Setup(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "task.setup")
	defer span.End()

	t.mu.Lock()
	if t.state != StateUninitialized {
		state := t.state
		t.mu.Unlock()
		return errors.NewPipelineErrorf("task %s cannot be configured from state %s", t.id, state)
	}
	t.mu.Unlock()

	scoped := t.settings.Scoped()
	t.deps.Logger.WithContext(ctx).WithField("settings", scoped).Debug("Task settings")

	uniqueKeyField, err := t.deps.Schema.UniqueKeyField(ctx)
	if err != nil {
		return t.fail(ctx, errors.WrapPipelineError(err))
	}
	t.uniqueKeyField = uniqueKeyField

	definition, err := t.chainDefinition(ctx, scoped)
	if err != nil {
		return t.fail(ctx, errors.WrapPipelineError(err))
	}

	policy := loader.PolicyFromSetting(scoped.Get(SettingIDPrefix), t.deps.Seed)
	documentLoader, err := t.deps.NewLoader(loader.Options{
		UniqueKeyField: uniqueKeyField,
		Policy:         policy,
	})
	if err != nil {
		return t.fail(ctx, errors.WrapPipelineError(err))
	}
	t.loader = documentLoader

	chain, err := commands.Build(definition, models.Deps{
		Logger:    t.deps.Logger,
		Loader:    documentLoader,
		Extractor: t.deps.Extractor,
		Schema:    t.deps.Schema,
		Evaluator: script.NewEvaluator(),
	})
	if err != nil {
		return t.fail(ctx, err)
	}
	t.chain = chain
	t.setState(StateConfigured)

	if err := t.loader.BeginTransaction(ctx); err != nil {
		return t.fail(ctx, errors.WrapPipelineError(err))
	}
	t.setState(StateTransactionOpen)

	t.deps.Logger.WithContext(ctx).WithField("task", t.id).Info("Task configured")
	return nil
}

func (t *Task) chainDefinition(ctx context.Context, scoped Settings) (models.Definition, error) {
	location := scoped.Get(SettingChainConfig)
	if location == "" {
		t.deps.Logger.WithContext(ctx).Warn("No chain configuration provided, using the default chain")
		return chainconf.Default(), nil
	}
	return chainconf.Load(ctx, t.deps.FileSystem, location)
}

func (t *Task) fail(ctx context.Context, err error) error {
	if t.loader != nil {
		if serr := t.loader.Shutdown(ctx); serr != nil {
			t.deps.Logger.WithContext(ctx).WithError(serr).Warn("Failed to shut down loader")
		}
	}
	t.setState(StateFailed)
	t.deps.Logger.WithContext(ctx).WithError(err).WithField("task", t.id).Error("Task setup failed")
	return err
}

// Process runs one input through the chain. Missing inputs are skipped with
// an info log. Chain failures are counted under the failure's category and
// absorbed; filesystem failures and cancellation are returned and end the
// task. The files-read and bytes-read counters move only after the chain
// finishes the input.
func (t *Task) Process(ctx context.Context, input string) error {
	ctx, span := tracing.StartSpan(ctx, "task.process")
	defer span.End()

	t.mu.Lock()
	if t.state != StateTransactionOpen {
		state := t.state
		t.mu.Unlock()
		return errors.NewPipelineErrorf("task %s cannot process input in state %s", t.id, state).AddInput(input)
	}
	t.state = StateProcessing
	t.mu.Unlock()
	defer t.setState(StateTransactionOpen)

	t.deps.Signaler.StartSignaling(ctx)
	defer t.deps.Signaler.StopSignaling(ctx)

	exists, err := t.deps.FileSystem.Exists(ctx, input)
	if err != nil {
		return errors.WrapPipelineError(err).AddInput(input)
	}
	if !exists {
		// Inputs may be deleted between job submission and execution.
		t.deps.Logger.WithContext(ctx).Infof("Ignoring file that no longer exists: %s", input)
		t.deps.Counters.IncSkipped()
		return nil
	}

	t.deps.Logger.WithContext(ctx).Infof("Processing file %s", input)

	length, err := t.deps.FileSystem.Length(ctx, input)
	if err != nil {
		return errors.WrapPipelineError(err).AddInput(input)
	}

	stream, err := t.deps.FileSystem.Open(ctx, input)
	if err != nil {
		return errors.WrapPipelineError(err).AddInput(input)
	}
	defer func() {
		if cerr := stream.Close(); cerr != nil {
			t.deps.Logger.WithContext(ctx).WithError(cerr).Warnf("Failed to close stream for %s", input)
		}
	}()

	rec := record.New()
	rec.Put(t.uniqueKeyField, input)
	rec.Put(record.FieldFileURI, input)
	rec.Put(record.AttachmentName, path.Base(input))
	rec.Put(record.AttachmentBody, stream)

	ok, err := t.runChain(ctx, rec)
	if err != nil {
		if ctx.Err() != nil {
			return errors.WrapPipelineError(err).AddInput(input)
		}
		category := errors.Category(err)
		t.deps.Counters.IncError(category)
		t.deps.Logger.WithContext(ctx).WithError(err).WithField("category", category).Errorf("Unable to process file %s", input)
		return nil
	}
	if !ok {
		t.deps.Logger.WithContext(ctx).Debugf("Chain filtered file %s", input)
	}

	t.deps.Counters.IncFilesRead()
	t.deps.Counters.AddBytesRead(length)
	return nil
}

func (t *Task) runChain(ctx context.Context, rec *record.Record) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "task.chain")
	defer span.End()

	return t.chain.Process(ctx, rec)
}

// Cleanup commits the task's transaction and releases the loader. It runs
// once; later calls return the first result. Commit failure is fatal and
// surfaced.
func (t *Task) Cleanup(ctx context.Context) error {
	t.cleanupOnce.Do(func() {
		t.cleanupErr = t.cleanup(ctx)
	})
	return t.cleanupErr
}

func (t *Task) cleanup(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "task.cleanup")
	defer span.End()

	t.mu.Lock()
	if t.state != StateTransactionOpen {
		state := t.state
		t.mu.Unlock()
		return errors.NewPipelineErrorf("task %s cannot commit from state %s", t.id, state)
	}
	t.state = StateCommitting
	t.mu.Unlock()

	start := time.Now()
	if err := t.loader.CommitTransaction(ctx); err != nil {
		t.setState(StateFailed)
		t.deps.Logger.WithContext(ctx).WithError(err).WithField("task", t.id).Error("Failed to commit transaction")
		if serr := t.loader.Shutdown(ctx); serr != nil {
			t.deps.Logger.WithContext(ctx).WithError(serr).Warn("Failed to shut down loader")
		}
		return errors.WrapPipelineError(err)
	}
	metrics.RecordCommit(time.Since(start).Seconds())

	if err := t.loader.Shutdown(ctx); err != nil {
		t.setState(StateFailed)
		return errors.WrapPipelineError(err)
	}

	t.setState(StateStopped)
	t.deps.Logger.WithContext(ctx).WithField("task", t.id).Info("Task stopped")
	return nil
}

// Run drives the whole lifecycle over one input slice: setup, every input in
// order, cleanup. A fatal error rolls the transaction back and leaves the
// task failed.
func (t *Task) Run(ctx context.Context, inputs []string) error {
	if err := t.Setup(ctx); err != nil {
		return err
	}
	for _, input := range inputs {
		if err := t.Process(ctx, input); err != nil {
			t.abort(ctx, err)
			return err
		}
	}
	return t.Cleanup(ctx)
}

func (t *Task) abort(ctx context.Context, cause error) {
	t.deps.Logger.WithContext(ctx).WithError(cause).WithField("task", t.id).Error("Task aborted")
	if err := t.loader.Rollback(ctx); err != nil {
		t.deps.Logger.WithContext(ctx).WithError(err).Warn("Failed to roll back transaction")
	}
	if err := t.loader.Shutdown(ctx); err != nil {
		t.deps.Logger.WithContext(ctx).WithError(err).Warn("Failed to shut down loader")
	}
	t.setState(StateFailed)
}
