package translate

import (
	"context"
	"time"

	"github.com/mgpai22/lekh/internal/logging"
)

const (
	DefaultAttempts = 3
	DefaultBackoff  = 500 * time.Millisecond
)

// Retrying retries transient failures with a linearly growing pause.
// Rate-limit failures are returned at once.
type Retrying struct {
	Next     Translator
	Attempts int
	Backoff  time.Duration
	Sleep    func(ctx context.Context, d time.Duration) error
	Logger   *logging.Logger
}

func NewRetrying(next Translator, logger *logging.Logger) *Retrying {
	return &Retrying{
		Next:     next,
		Attempts: DefaultAttempts,
		Backoff:  DefaultBackoff,
		Sleep:    Sleep,
		Logger:   logger.Component("translate"),
	}
}

func (r *Retrying) Translate(
	ctx context.Context,
	text, targetLanguage string,
) (string, error) {
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		var out string
		out, err = r.Next.Translate(ctx, text, targetLanguage)
		if err == nil {
			return out, nil
		}
		if !retryable(err) || attempt == attempts-1 {
			break
		}
		if r.Logger != nil {
			r.Logger.Warnw("Translation attempt failed",
				"attempt", attempt+1,
				"attempts", attempts,
				"error", err,
			)
		}
		if serr := sleep(ctx, r.Backoff*time.Duration(attempt+1)); serr != nil {
			return "", serr
		}
	}
	return "", err
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
