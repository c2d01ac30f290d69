package datasync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/portfolio/internal/content"
)

// ErrMissingID is returned when an update or delete names no record.
var ErrMissingID = errors.New("record id is required")

var errNilRecord = content.ErrNilRecord

// Store is the remote collection store. Targets are store collection names
// (content.Collection.Target). Each call either fully succeeds or fails.
type Store interface {
	List(ctx context.Context, target, orderBy string, ascending bool) ([]content.Wire, error)
	Insert(ctx context.Context, target string, row content.Wire) (content.Wire, error)
	Update(ctx context.Context, target, id string, row content.Wire) (content.Wire, error)
	Delete(ctx context.Context, target, id string) error
}

// Engine applies content operations to the store and, once the store has
// accepted them, to the cache. Failures never escape as errors: they are
// carried in the returned Result and raised through the Notifier.
//
// Operations are not serialized against each other. Two concurrent updates
// of one record race and whichever completes last is what the cache holds.
type Engine struct {
	store    Store
	cache    *Cache
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier sets where success and failure notifications go.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock overrides the clock used for updated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine returns an engine over store and cache.
func NewEngine(store Store, cache *Cache, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		cache:  cache,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.notifier == nil {
		e.notifier = LogNotifier{Logger: e.logger}
	}
	return e
}

// Cache returns the cache the engine writes to.
func (e *Engine) Cache() *Cache { return e.cache }

// Refresh lists every collection concurrently and replaces each one that
// loads. A collection whose request fails keeps its previous records and
// raises a failure notification; the others are unaffected. Loading is set
// for the duration and cleared once every request has settled.
func (e *Engine) Refresh(ctx context.Context) LoadReport {
	e.cache.BeginLoad()
	defer e.cache.EndLoad()

	collections := content.Collections()
	loads := make([]CollectionLoad, len(collections))

	// Every goroutine returns nil so one failure never cancels the rest.
	var g errgroup.Group
	for i, col := range collections {
		g.Go(func() error {
			loads[i] = e.load(ctx, col)
			return nil
		})
	}
	_ = g.Wait()

	report := LoadReport{Collections: loads}
	e.logger.Info("content refreshed", "failed", len(report.Failed()))
	return report
}

func (e *Engine) load(ctx context.Context, col content.Collection) CollectionLoad {
	rows, err := e.store.List(ctx, col.Target(), col.OrderBy(), false)
	if err != nil {
		err = fmt.Errorf("list %s: %w", col.Target(), err)
		e.fail(Result{Op: OpLoad, Collection: col, Err: err})
		return CollectionLoad{Collection: col, Err: err, Error: err.Error()}
	}

	records := make([]content.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, content.FromWire(col, row))
	}
	e.cache.Replace(col, records)
	return CollectionLoad{Collection: col, Count: len(records)}
}

// AddItem inserts rec and, on success, puts the stored record at the front of
// its collection. A record without an id gets one from the store.
func (e *Engine) AddItem(ctx context.Context, rec content.Record) Result {
	if rec = content.Deref(rec); rec == nil {
		return e.fail(Result{Op: OpAdd, Err: errNilRecord})
	}
	res := Result{Op: OpAdd, Collection: rec.Collection(), ID: rec.RecordID()}
	if !res.Collection.Valid() {
		res.Err = fmt.Errorf("%w: %q", content.ErrUnknownCollection, string(res.Collection))
		return e.fail(res)
	}

	row := content.ToWire(rec)
	if res.ID == "" {
		delete(row, "id")
	}
	stored, err := e.store.Insert(ctx, res.Collection.Target(), row)
	if err != nil {
		res.Err = fmt.Errorf("insert into %s: %w", res.Collection.Target(), err)
		return e.fail(res)
	}

	res.Record = content.FromWire(res.Collection, stored)
	res.ID = res.Record.RecordID()
	e.cache.Prepend(res.Collection, res.Record)
	return e.succeed(res)
}

// UpdateItem sends rec, stamped with a fresh updated_at, as an update keyed by
// its id and, on success, swaps the stored record into the cache in place.
func (e *Engine) UpdateItem(ctx context.Context, rec content.Record) Result {
	if rec = content.Deref(rec); rec == nil {
		return e.fail(Result{Op: OpUpdate, Err: errNilRecord})
	}
	res := Result{Op: OpUpdate, Collection: rec.Collection(), ID: rec.RecordID()}
	switch {
	case !res.Collection.Valid():
		res.Err = fmt.Errorf("%w: %q", content.ErrUnknownCollection, string(res.Collection))
		return e.fail(res)
	case res.ID == "":
		res.Err = ErrMissingID
		return e.fail(res)
	}

	row := content.ToWire(rec)
	row["updated_at"] = e.now().UTC()
	stored, err := e.store.Update(ctx, res.Collection.Target(), res.ID, row)
	if err != nil {
		res.Err = fmt.Errorf("update %s %s: %w", res.Collection.Target(), res.ID, err)
		return e.fail(res)
	}

	res.Record = content.FromWire(res.Collection, stored)
	e.cache.ReplaceByID(res.Collection, res.ID, res.Record)
	return e.succeed(res)
}

// DeleteItem deletes the record of col with the given id and, on success,
// drops it from the cache.
func (e *Engine) DeleteItem(ctx context.Context, col content.Collection, id string) Result {
	res := Result{Op: OpDelete, Collection: col, ID: id}
	switch {
	case !col.Valid():
		res.Err = fmt.Errorf("%w: %q", content.ErrUnknownCollection, string(col))
		return e.fail(res)
	case id == "":
		res.Err = ErrMissingID
		return e.fail(res)
	}

	if err := e.store.Delete(ctx, col.Target(), id); err != nil {
		res.Err = fmt.Errorf("delete %s %s: %w", col.Target(), id, err)
		return e.fail(res)
	}

	e.cache.RemoveByID(col, id)
	return e.succeed(res)
}

func (e *Engine) succeed(res Result) Result {
	e.notifier.Notify(Notification{
		Time:       e.now(),
		Level:      LevelSuccess,
		Op:         res.Op,
		Collection: res.Collection,
		Message:    res.Message(),
	})
	return res
}

func (e *Engine) fail(res Result) Result {
	e.logger.Error("content sync failed",
		"op", string(res.Op),
		"collection", string(res.Collection),
		"id", res.ID,
		"error", res.Err,
	)
	e.notifier.Notify(Notification{
		Time:       e.now(),
		Level:      LevelError,
		Op:         res.Op,
		Collection: res.Collection,
		Message:    res.Message(),
		Detail:     res.Err.Error(),
	})
	return res
}
