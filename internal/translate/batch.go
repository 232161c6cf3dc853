package translate

import (
	"context"
	"time"

	"github.com/mgpai22/lekh/internal/logging"
	"github.com/mgpai22/lekh/internal/transcript"
)

const (
	DefaultBatchSize    = 2
	DefaultRequestDelay = 150 * time.Millisecond
	DefaultBatchDelay   = 300 * time.Millisecond
)

type BatchOptions struct {
	BatchSize    int
	RequestDelay time.Duration
	BatchDelay   time.Duration
	Sleep        func(ctx context.Context, d time.Duration) error
	Logger       *logging.Logger
}

// Batcher walks a document through the cache in small, paced batches.
// Requests are issued one at a time.
type Batcher struct {
	cache  *Cache
	opts   BatchOptions
	logger *logging.Logger
}

func NewBatcher(cache *Cache, opts BatchOptions) *Batcher {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.RequestDelay < 0 {
		opts.RequestDelay = 0
	}
	if opts.BatchDelay < 0 {
		opts.BatchDelay = 0
	}
	if opts.Sleep == nil {
		opts.Sleep = Sleep
	}
	return &Batcher{
		cache:  cache,
		opts:   opts,
		logger: opts.Logger.Component("translation_batcher"),
	}
}

// DefaultBatchOptions returns the standard pacing.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		BatchSize:    DefaultBatchSize,
		RequestDelay: DefaultRequestDelay,
		BatchDelay:   DefaultBatchDelay,
	}
}

// Summary counts the outcome of one TranslateAll run.
type Summary struct {
	Requested  int
	Translated int
	Failed     int
}

// Needs returns the segments that are long enough and not yet cached for lang.
func (b *Batcher) Needs(lang string, segments []transcript.Segment) []transcript.Segment {
	var out []transcript.Segment
	for _, seg := range segments {
		if !b.cache.Translatable(seg.Text) {
			continue
		}
		if _, ok := b.cache.Lookup(seg.Index, lang); ok {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// TranslateAll translates every segment that still needs it. It returns
// ctx.Err() when cancelled part way through.
func (b *Batcher) TranslateAll(
	ctx context.Context,
	lang string,
	segments []transcript.Segment,
) (Summary, error) {
	needed := b.Needs(lang, segments)
	summary := Summary{}
	if len(needed) == 0 {
		return summary, nil
	}

	b.logger.Debugw("Translating document",
		"language", lang,
		"segments", len(needed),
		"batch_size", b.opts.BatchSize,
	)

	for start := 0; start < len(needed); start += b.opts.BatchSize {
		if start > 0 {
			if err := b.opts.Sleep(ctx, b.opts.BatchDelay); err != nil {
				return summary, err
			}
		}

		end := min(start+b.opts.BatchSize, len(needed))
		for i, seg := range needed[start:end] {
			if i > 0 {
				if err := b.opts.Sleep(ctx, b.opts.RequestDelay); err != nil {
					return summary, err
				}
			}
			if err := ctx.Err(); err != nil {
				return summary, err
			}

			summary.Requested++
			entry, err := b.cache.Translate(ctx, seg.Index, seg.Text, lang)
			if err != nil {
				if ctx.Err() != nil {
					return summary, ctx.Err()
				}
				summary.Failed++
				continue
			}
			if entry.Failed() {
				summary.Failed++
			} else {
				summary.Translated++
			}
		}
	}

	return summary, nil
}
