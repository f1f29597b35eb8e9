package loader

import (
	"context"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/reed/pkg/database"
	"github.com/Ramsey-B/reed/pkg/errors"
	"github.com/Ramsey-B/reed/pkg/metrics"
	"github.com/Ramsey-B/reed/pkg/record"
)

const documentsTable = "documents"

type documentRow struct {
	ID       string                         `db:"id"`
	Fields   database.JSONB[map[string]any] `db:"fields"`
	LoadedAt time.Time                      `db:"loaded_at"`
}

var documentStruct = database.NewStruct(new(documentRow))

// DirectLoader writes finished documents straight into the document store.
// Unlike SinkLoader it owns a real transaction: every document of a task is
// upserted inside it and becomes visible only on commit, so a failed task
// leaves no partial output behind.
type DirectLoader struct {
	db      database.DB
	options Options
	logger  ectologger.Logger

	mu sync.Mutex
	tx database.Tx
}

func NewDirectLoader(db database.DB, options Options, logger ectologger.Logger) *DirectLoader {
	if options.Policy == nil {
		options.Policy = Passthrough{}
	}
	return &DirectLoader{
		db:      db,
		options: options,
		logger:  logger,
	}
}

func (l *DirectLoader) BeginTransaction(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.tx != nil && l.tx.IsOpen() {
		return errors.NewPipelineError("transaction already open").AddCategory("load")
	}

	_, tx, err := l.db.GetTx(ctx, nil)
	if err != nil {
		return errors.WrapPipelineError(err).AddCategory("load")
	}

	l.tx = tx
	l.logger.WithContext(ctx).Debug("Document store transaction opened")
	return nil
}

func (l *DirectLoader) Load(ctx context.Context, docs ...*record.Record) error {
	l.mu.Lock()
	tx := l.tx
	l.mu.Unlock()

	if tx == nil || !tx.IsOpen() {
		return errors.NewPipelineError("no open transaction").AddCategory("load")
	}

	for _, doc := range docs {
		key := doc.FirstString(l.options.UniqueKeyField)
		if key == "" {
			return errors.NewPipelineErrorf("document is missing identity field '%s'", l.options.UniqueKeyField).AddCategory("load")
		}

		assigned := l.options.Policy.Assign(key)
		doc.Put(l.options.UniqueKeyField, assigned)

		row := documentRow{
			ID:       assigned,
			Fields:   database.JSONB[map[string]any]{Data: doc.External()},
			LoadedAt: time.Now().UTC(),
		}

		ib := documentStruct.InsertInto(documentsTable, row)
		ub := ib.OnConflict("id")
		ub.Set(
			ub.Assign("fields", database.Excluded("fields")),
			ub.Assign("loaded_at", database.Excluded("loaded_at")),
		)

		sql, args := ib.Build()
		if _, err := tx.ExecContext(ctx, sql, args...); err != nil {
			return errors.WrapPipelineError(err).AddCategory("load")
		}

		l.logger.WithContext(ctx).WithField("key", assigned).Debug("Document upserted")
	}

	metrics.RecordDocumentsLoaded(len(docs))
	return nil
}

func (l *DirectLoader) CommitTransaction(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.tx == nil || !l.tx.IsOpen() {
		return errors.NewPipelineError("no open transaction to commit").AddCategory("load")
	}

	if err := l.tx.Commit(ctx); err != nil {
		return errors.WrapPipelineError(err).AddCategory("load")
	}

	l.tx = nil
	l.logger.WithContext(ctx).Debug("Document store transaction committed")
	return nil
}

// Rollback discards the open transaction. Rolling back without one is a no-op
// so error paths can call it unconditionally.
func (l *DirectLoader) Rollback(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.tx == nil || !l.tx.IsOpen() {
		return nil
	}

	err := l.tx.Rollback(ctx)
	l.tx = nil
	if err != nil {
		return errors.WrapPipelineError(err).AddCategory("load")
	}

	l.logger.WithContext(ctx).Debug("Document store transaction rolled back")
	return nil
}

// Shutdown rolls back any transaction still open. The database handle is
// owned by the caller and may be shared between tasks, so it stays open.
func (l *DirectLoader) Shutdown(ctx context.Context) error {
	l.mu.Lock()
	open := l.tx != nil && l.tx.IsOpen()
	l.mu.Unlock()

	if open {
		l.logger.WithContext(ctx).Warn("Loader shut down with an open transaction, rolling back")
		return l.Rollback(ctx)
	}
	return nil
}

func (l *DirectLoader) Ping(ctx context.Context) error {
	return l.db.PingContext(ctx)
}
