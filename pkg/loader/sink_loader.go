package loader

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/reed/pkg/errors"
	"github.com/Ramsey-B/reed/pkg/metrics"
	"github.com/Ramsey-B/reed/pkg/record"
	"github.com/Ramsey-B/reed/pkg/sink"
)

// SinkLoader is the task-local DocumentLoader. It rewrites each document's
// identity per the active policy and hands the (key, document) pair to the
// output sink. It never talks to the index store; the framework's replayable
// task output covers that boundary, which is why the transaction methods are
// no-ops here.
type SinkLoader struct {
	sink    sink.Sink
	options Options
	logger  ectologger.Logger
}

func NewSinkLoader(out sink.Sink, options Options, logger ectologger.Logger) *SinkLoader {
	if options.Policy == nil {
		options.Policy = Passthrough{}
	}
	return &SinkLoader{
		sink:    out,
		options: options,
		logger:  logger,
	}
}

func (l *SinkLoader) Load(ctx context.Context, docs ...*record.Record) error {
	for _, doc := range docs {
		key := doc.FirstString(l.options.UniqueKeyField)
		if key == "" {
			return errors.NewPipelineErrorf("document is missing identity field '%s'", l.options.UniqueKeyField).AddCategory("load")
		}

		assigned := l.options.Policy.Assign(key)
		doc.Put(l.options.UniqueKeyField, assigned)

		if err := l.sink.Emit(ctx, assigned, doc.External()); err != nil {
			return errors.WrapPipelineError(err).AddCategory("load")
		}

		l.logger.WithContext(ctx).WithField("key", assigned).Debug("Document handed to sink")
	}

	metrics.RecordDocumentsLoaded(len(docs))
	return nil
}

// BeginTransaction is a no-op; the framework's task output is already atomic.
func (l *SinkLoader) BeginTransaction(ctx context.Context) error {
	l.logger.WithContext(ctx).Debug("BeginTransaction is handled by the surrounding framework")
	return nil
}

// CommitTransaction is a no-op; the framework commits task output on success.
func (l *SinkLoader) CommitTransaction(ctx context.Context) error {
	l.logger.WithContext(ctx).Debug("CommitTransaction is handled by the surrounding framework")
	return nil
}

// Rollback is a no-op; failed tasks are discarded and rerun by the framework.
func (l *SinkLoader) Rollback(ctx context.Context) error {
	l.logger.WithContext(ctx).Debug("Rollback is handled by the surrounding framework")
	return nil
}

// Shutdown releases nothing; the sink is owned by the caller and may be shared
// between tasks.
func (l *SinkLoader) Shutdown(ctx context.Context) error {
	return nil
}

func (l *SinkLoader) Ping(ctx context.Context) error {
	return l.sink.Ping(ctx)
}
