package querycache

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"sync"
	"time"

	"pricing/config"
	"pricing/internal/domain/entity"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// State is the lifecycle of one cached query.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateSuccess       State = "success"
	StateError         State = "error"
)

// Snapshot is a point-in-time view of a cache entry.
type Snapshot struct {
	Key       string
	Operation string
	State     State
	Data      any
	Err       error
	Stale     bool
	FetchedAt time.Time
}

// Listener observes every state change of the entries it subscribed to.
type Listener func(Snapshot)

type fetchFunc func(ctx context.Context) (any, error)

type entry struct {
	key       string
	def       QueryDef
	fetch     fetchFunc
	state     State
	data      any
	err       error
	stale     bool
	fetchedAt time.Time
	// version advances on every invalidation so a load started earlier is not reused.
	version uint64

	nextSubscriber uint64
	subscribers    map[uint64]Listener
}

func (e *entry) snapshot() Snapshot {
	return Snapshot{
		Key:       e.key,
		Operation: e.def.Name,
		State:     e.state,
		Data:      e.data,
		Err:       e.err,
		Stale:     e.stale,
		FetchedAt: e.fetchedAt,
	}
}

// Cache holds query results keyed by operation and serialised arguments.
// Concurrent reads of the same key share one fetch.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]*entry
	epoch     uint64
	flights   singleflight.Group
	staleTime time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// Params defines the required parameters
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// New builds the Cache from configuration.
func New(params Params) *Cache {
	return NewCache(params.Config.Cache.StaleTime, params.Logger)
}

// NewCache creates an empty cache. A zero staleTime keeps results until invalidated.
func NewCache(staleTime time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		entries:   make(map[string]*entry),
		staleTime: staleTime,
		now:       time.Now,
		logger:    logger,
	}
}

// Key is the cache key of def called with args.
func Key(def QueryDef, args any) (string, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return "", errors.Wrapf(err, "failed to serialise %s arguments", def.Name)
	}

	return def.Name + "(" + string(raw) + ")", nil
}

// Query returns the cached result of def(args), fetching it when missing, stale or failed.
func Query[T any](ctx context.Context, c *Cache, def QueryDef, args any, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	e, err := c.register(def, args, wrap(fetch))
	if err != nil {
		return zero, err
	}

	if data, ok := c.fresh(e); ok {
		result, _ := data.(T)

		return result, nil
	}

	data, err := c.load(ctx, e)
	if err != nil {
		return zero, err
	}
	result, _ := data.(T)

	return result, nil
}

// Watch subscribes listener to def(args) and loads it unless a fresh result is cached.
// The returned function unsubscribes; it is safe to call more than once.
func Watch[T any](ctx context.Context, c *Cache, def QueryDef, args any, fetch func(ctx context.Context) (T, error), listener Listener) (func(), error) {
	e, err := c.register(def, args, wrap(fetch))
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	e.nextSubscriber++
	id := e.nextSubscriber
	e.subscribers[id] = listener
	snap := e.snapshot()
	c.mu.Unlock()

	listener(snap)

	if _, ok := c.fresh(e); !ok {
		_, _ = c.load(ctx, e)
	}

	var once sync.Once

	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()

			delete(e.subscribers, id)
		})
	}, nil
}

// Mutate runs a write and, on success, invalidates every tag def declares.
// Invalidated entries with subscribers are refetched before Mutate returns.
func Mutate[T any](ctx context.Context, c *Cache, def MutationDef, run func(ctx context.Context) (T, error)) (T, error) {
	result, err := run(ctx)
	if err != nil {
		return result, err
	}

	c.invalidate(ctx, def)

	return result, nil
}

func wrap[T any](fetch func(ctx context.Context) (T, error)) fetchFunc {
	return func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}
}

// register returns the entry for def(args), creating it when missing. The latest
// fetch function replaces the previous one so refetches use current dependencies.
func (c *Cache) register(def QueryDef, args any, fetch fetchFunc) (*entry, error) {
	key, err := Key(def, args)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = &entry{
			key:         key,
			def:         def,
			state:       StateUninitialized,
			subscribers: make(map[uint64]Listener),
		}
		c.entries[key] = e
	}
	e.fetch = fetch

	return e, nil
}

func (c *Cache) fresh(e *entry) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e.state != StateSuccess || e.stale {
		return nil, false
	}
	if c.staleTime > 0 && c.now().Sub(e.fetchedAt) > c.staleTime {
		return nil, false
	}

	return e.data, true
}

// load fetches e, sharing the call with concurrent loads of the same key.
//
// The shared fetch runs detached from the caller that started it, so one caller
// giving up neither fails the others nor records an error for the entry. Each
// caller stops waiting when its own context ends.
func (c *Cache) load(ctx context.Context, e *entry) (any, error) {
	c.mu.Lock()
	epoch := c.epoch
	version := e.version
	c.mu.Unlock()

	// Flights never span a Reset or an invalidation, so results of a previous session
	// or from before a mutation are not shared.
	flightKey := strconv.FormatUint(epoch, 10) + "/" + strconv.FormatUint(version, 10) + "/" + e.key

	fetchCtx := context.WithoutCancel(ctx)
	results := c.flights.DoChan(flightKey, func() (any, error) {
		c.mu.Lock()
		fetch := e.fetch
		e.state = StateLoading
		loading := e.snapshot()
		listeners := subscribersOf(e)
		c.mu.Unlock()

		notify(listeners, loading)

		data, err := fetch(fetchCtx)

		c.mu.Lock()
		if c.epoch != epoch || c.entries[e.key] != e {
			c.mu.Unlock()

			return data, err
		}
		if err != nil {
			e.state = StateError
			e.err = err
		} else {
			e.state = StateSuccess
			e.data = data
			e.err = nil
			e.stale = e.version != version
			e.fetchedAt = c.now()
		}
		done := e.snapshot()
		listeners = subscribersOf(e)
		c.mu.Unlock()

		notify(listeners, done)

		return data, err
	})

	select {
	case <-ctx.Done():
		return nil, errors.WithStack(ctx.Err())
	case res := <-results:
		if res.Shared {
			c.logger.DebugContext(ctx, "Shared in-flight query", slog.String("key", e.key))
		}

		return res.Val, res.Err
	}
}

// invalidate marks every entry def affects stale and refetches the subscribed ones.
func (c *Cache) invalidate(ctx context.Context, def MutationDef) {
	if len(def.Invalidates) == 0 {
		return
	}

	c.mu.Lock()
	var refetch []*entry
	invalidated := 0
	for _, e := range c.entries {
		if !def.Affects(e.def) {
			continue
		}
		e.stale = true
		e.version++
		invalidated++
		if len(e.subscribers) > 0 {
			refetch = append(refetch, e)
		}
	}
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "Invalidated cache tags",
		slog.String("mutation", def.Name),
		slog.Any("tags", def.Invalidates),
		slog.Int("entries", invalidated),
		slog.Int("refetching", len(refetch)),
	)

	c.refetch(ctx, refetch)
}

// RefetchAll marks every entry stale and refetches the subscribed ones,
// as on window focus or network reconnect.
func (c *Cache) RefetchAll(ctx context.Context) int {
	c.mu.Lock()
	var refetch []*entry
	for _, e := range c.entries {
		e.stale = true
		e.version++
		if len(e.subscribers) > 0 {
			refetch = append(refetch, e)
		}
	}
	c.mu.Unlock()

	c.refetch(ctx, refetch)

	return len(refetch)
}

func (c *Cache) refetch(ctx context.Context, entries []*entry) {
	var group errgroup.Group
	for _, e := range entries {
		group.Go(func() error {
			if _, err := c.load(ctx, e); err != nil {
				c.logger.WarnContext(ctx, "Refetch failed", slog.String("key", e.key), slog.Any("error", err))
			}

			return nil
		})
	}
	_ = group.Wait()
}

// Reset drops every entry and subscription. Loads in flight finish but are not stored.
func (c *Cache) Reset(ctx context.Context) {
	type dropped struct {
		snap      Snapshot
		listeners []Listener
	}

	c.mu.Lock()
	drops := make([]dropped, 0, len(c.entries))
	for _, e := range c.entries {
		drops = append(drops, dropped{
			snap:      Snapshot{Key: e.key, Operation: e.def.Name, State: StateUninitialized},
			listeners: subscribersOf(e),
		})
	}
	c.entries = make(map[string]*entry)
	c.epoch++
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "Query cache reset", slog.Int("entries", len(drops)))

	for _, d := range drops {
		notify(d.listeners, d.snap)
	}
}

// Lookup returns the current snapshot of def(args).
func (c *Cache) Lookup(def QueryDef, args any) (Snapshot, bool) {
	key, err := Key(def, args)
	if err != nil {
		return Snapshot{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Snapshot{Key: key, Operation: def.Name, State: StateUninitialized}, false
	}

	return e.snapshot(), true
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func subscribersOf(e *entry) []Listener {
	return slices.Collect(maps.Values(e.subscribers))
}

func notify(listeners []Listener, snap Snapshot) {
	for _, listener := range listeners {
		listener(snap)
	}
}
