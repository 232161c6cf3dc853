package translate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mgpai22/lekh/internal/logging"
	"github.com/mgpai22/lekh/internal/metrics"
)

// texts shorter than this (in runes, after trimming) are not translated
const DefaultMinLength = 3

// Entry is a cached translation or the failure that replaced it.
type Entry struct {
	Text string
	Err  error
}

func (e Entry) Failed() bool {
	return e.Err != nil
}

// Display returns the translated text or the failure message.
func (e Entry) Display() string {
	if e.Err != nil {
		return Message(e.Err)
	}
	return e.Text
}

type cacheKey struct {
	index int
	lang  string
}

type call struct {
	done  chan struct{}
	entry Entry
	ok    bool
}

type CacheOptions struct {
	MinLength int
	// invoked once per stored entry, outside the cache lock
	OnResult func(index int, lang string, entry Entry)
	Logger   *logging.Logger
	Metrics  *metrics.Metrics
}

// Cache stores one translation per (segment, language). Entries are never
// replaced once written.
type Cache struct {
	translator Translator
	opts       CacheOptions
	logger     *logging.Logger

	mu       sync.Mutex
	entries  map[cacheKey]Entry
	inflight map[cacheKey]*call
	wg       sync.WaitGroup
}

func NewCache(translator Translator, opts CacheOptions) *Cache {
	if opts.MinLength <= 0 {
		opts.MinLength = DefaultMinLength
	}
	return &Cache{
		translator: translator,
		opts:       opts,
		logger:     opts.Logger.Component("translation_cache"),
		entries:    make(map[cacheKey]Entry),
		inflight:   make(map[cacheKey]*call),
	}
}

// Translatable reports whether text is long enough to be sent.
func (c *Cache) Translatable(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= c.opts.MinLength
}

func (c *Cache) Lookup(index int, lang string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[cacheKey{index, lang}]
	return entry, ok
}

// Ensure returns a cached entry synchronously. On a miss it starts one
// background request (unless one is already running) and returns false;
// the result is delivered through OnResult. Short texts are skipped.
func (c *Cache) Ensure(ctx context.Context, index int, text, lang string) (Entry, bool) {
	if !c.Translatable(text) {
		return Entry{}, false
	}

	key := cacheKey{index, lang}
	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		c.mu.Unlock()
		c.opts.Metrics.RecordCacheHit()
		return entry, true
	}
	if _, running := c.inflight[key]; running {
		c.mu.Unlock()
		return Entry{}, false
	}
	cl := c.startLocked(key)
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(ctx, key, text, cl)
	}()
	return Entry{}, false
}

// Translate is the blocking form of Ensure. It joins a running request for
// the same key instead of issuing another one.
func (c *Cache) Translate(ctx context.Context, index int, text, lang string) (Entry, error) {
	if !c.Translatable(text) {
		return Entry{}, ErrTooShort
	}

	key := cacheKey{index, lang}
	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		c.mu.Unlock()
		c.opts.Metrics.RecordCacheHit()
		return entry, nil
	}
	if cl, running := c.inflight[key]; running {
		c.mu.Unlock()
		select {
		case <-cl.done:
		case <-ctx.Done():
			return Entry{}, ctx.Err()
		}
		if !cl.ok {
			return Entry{}, context.Canceled
		}
		return cl.entry, nil
	}
	cl := c.startLocked(key)
	c.mu.Unlock()

	c.run(ctx, key, text, cl)
	if !cl.ok {
		if err := ctx.Err(); err != nil {
			return Entry{}, err
		}
		return Entry{}, context.Canceled
	}
	return cl.entry, nil
}

func (c *Cache) startLocked(key cacheKey) *call {
	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	return cl
}

func (c *Cache) run(ctx context.Context, key cacheKey, text string, cl *call) {
	out, err := c.translator.Translate(ctx, text, key.lang)

	// a cancelled request leaves no entry so it can be retried later
	cancelled := ctx.Err() != nil || errors.Is(err, context.Canceled)

	entry := Entry{Text: out, Err: err}
	c.mu.Lock()
	delete(c.inflight, key)
	if !cancelled {
		c.entries[key] = entry
		cl.entry = entry
		cl.ok = true
	}
	close(cl.done)
	c.mu.Unlock()

	switch {
	case cancelled:
		c.opts.Metrics.RecordTranslation("cancelled")
		return
	case err != nil:
		c.opts.Metrics.RecordTranslation("error")
		c.logger.Warnw("Segment translation failed",
			"segment", key.index,
			"language", key.lang,
			"error", err,
		)
	default:
		c.opts.Metrics.RecordTranslation("ok")
	}

	if c.opts.OnResult != nil {
		c.opts.OnResult(key.index, key.lang, entry)
	}
}

// Wait blocks until background requests started by Ensure finish.
func (c *Cache) Wait() {
	c.wg.Wait()
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
