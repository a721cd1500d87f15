// Package query caches backend reads under hierarchical keys and expires them
// when a mutation touches the same resource.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultStaleTime  = 5 * time.Minute
	DefaultGCTime     = 30 * time.Minute
	DefaultRetry      = 1
	DefaultRetryDelay = 300 * time.Millisecond

	fetchTimeout = 30 * time.Second
)

type Client struct {
	store      Store
	group      singleflight.Group
	logger     *logrus.Logger
	staleTime  time.Duration
	gcTime     time.Duration
	retry      int
	retryDelay time.Duration
	now        func() time.Time
}

type Option func(*Client)

func WithStaleTime(d time.Duration) Option {
	return func(c *Client) { c.staleTime = d }
}

func WithGCTime(d time.Duration) Option {
	return func(c *Client) { c.gcTime = d }
}

// WithRetry sets how many extra attempts a failed read gets.
func WithRetry(n int, delay time.Duration) Option {
	return func(c *Client) {
		c.retry = n
		c.retryDelay = delay
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(store Store, logger *logrus.Logger, opts ...Option) *Client {
	c := &Client{
		store:      store,
		logger:     logger,
		staleTime:  DefaultStaleTime,
		gcTime:     DefaultGCTime,
		retry:      DefaultRetry,
		retryDelay: DefaultRetryDelay,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReadOptions tune one read. A zero StaleTime uses the client default.
// Background serves an aged entry immediately and refetches behind it.
type ReadOptions struct {
	StaleTime  time.Duration
	Background bool
}

type fetchFunc func(ctx context.Context) (json.RawMessage, error)

// Read returns the cached value for key when it is fresh, otherwise calls
// fetch. Concurrent reads of the same key share one fetch.
func Read[T any](ctx context.Context, c *Client, key Key, opts ReadOptions, fetch func(ctx context.Context) (T, error)) (T, error) {
	var out T
	raw, err := c.read(ctx, key, opts, func(ctx context.Context) (json.RawMessage, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("failed to decode cached %s: %w", key.Root(), err)
	}
	return out, nil
}

func (c *Client) read(ctx context.Context, key Key, opts ReadOptions, fetch fetchFunc) (json.RawMessage, error) {
	if len(key) == 0 {
		return nil, errors.New("query key must not be empty")
	}
	staleTime := opts.StaleTime
	if staleTime <= 0 {
		staleTime = c.staleTime
	}

	k := key.String()
	gen, err := c.store.Generation(ctx, key.Root())
	if err != nil {
		c.logger.WithError(err).WithField("key", k).Warn("Cache generation unavailable, reading through")
		return c.fetchWithRetry(ctx, fetch)
	}

	entry, ok, err := c.store.Get(ctx, k)
	if err != nil {
		c.logger.WithError(err).WithField("key", k).Warn("Cache read failed, reading through")
		ok = false
	}

	// An invalidated entry is never served, not even in the background mode.
	if ok && entry.Generation == gen {
		if c.fresh(entry, gen, staleTime) {
			return entry.Data, nil
		}
		if opts.Background {
			c.refreshInBackground(ctx, k, gen, fetch)
			return entry.Data, nil
		}
	}

	return c.fetch(ctx, k, gen, fetch)
}

func (c *Client) fresh(entry Entry, gen uint64, staleTime time.Duration) bool {
	return entry.Generation == gen && c.now().Sub(entry.FetchedAt) < staleTime
}

// fetch is keyed by generation as well, so a read that starts after an
// invalidation never joins a flight that began before it. The flight runs
// detached from ctx since other readers may be waiting on it; ctx only bounds
// how long this caller waits.
func (c *Client) fetch(ctx context.Context, k string, gen uint64, fetch fetchFunc) (json.RawMessage, error) {
	flight := k + "@" + strconv.FormatUint(gen, 10)
	ch := c.group.DoChan(flight, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()

		started := c.now()
		data, err := c.fetchWithRetry(fctx, fetch)
		if err != nil {
			return nil, err
		}
		entry := Entry{Data: data, FetchedAt: started, Generation: gen}
		if err := c.store.Set(fctx, k, entry, c.gcTime); err != nil {
			c.logger.WithError(err).WithField("key", k).Warn("Failed to cache read")
		}
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	}
}

func (c *Client) fetchWithRetry(ctx context.Context, fetch fetchFunc) (json.RawMessage, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retry; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}
		data, err := fetch(ctx)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) refreshInBackground(ctx context.Context, k string, gen uint64, fetch fetchFunc) {
	go func() {
		if _, err := c.fetch(context.WithoutCancel(ctx), k, gen, fetch); err != nil {
			c.logger.WithError(err).WithField("key", k).Warn("Background refetch failed")
		}
	}()
}

// Invalidate expires every entry under the given roots.
func (c *Client) Invalidate(ctx context.Context, roots ...string) error {
	var errs []error
	for _, root := range roots {
		if _, err := c.store.Invalidate(ctx, root); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
