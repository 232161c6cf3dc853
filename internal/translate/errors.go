package translate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// failure reasons a translator reports
var (
	ErrUnavailable  = errors.New("translation service unavailable")
	ErrRateLimited  = errors.New("translation rate limit exceeded")
	ErrConnectivity = errors.New("translation service unreachable")
	ErrTooShort     = errors.New("text too short to translate")
	ErrEmptyResult  = errors.New("translation returned an empty result")
)

// classify maps an HTTP status and transport error onto a failure reason.
// status is 0 when the SDK did not produce an API error.
func classify(status int, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	case status != 0:
		return fmt.Errorf("translation failed: %w", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrConnectivity, err)
	}
	return fmt.Errorf("translation failed: %w", err)
}

// Message returns the text shown in place of a failed translation.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRateLimited):
		return "Translation limit reached, try again later"
	case errors.Is(err, ErrUnavailable):
		return "Translation service is unavailable"
	case errors.Is(err, ErrConnectivity):
		return "Translation failed, check your network connection"
	case errors.Is(err, ErrTooShort):
		return "Text is too short to translate"
	case errors.Is(err, ErrEmptyResult):
		return "Translation returned no text"
	default:
		return "Translation failed"
	}
}

// retryable reports whether another attempt may succeed
func retryable(err error) bool {
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, ErrRateLimited),
		errors.Is(err, ErrTooShort):
		return false
	case errors.Is(err, ErrUnavailable),
		errors.Is(err, ErrConnectivity),
		errors.Is(err, ErrEmptyResult):
		return true
	default:
		return false
	}
}
